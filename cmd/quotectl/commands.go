package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/quotebook/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotebook/internal/adapters/store/driver"
	"github.com/jsamuelsen/quotebook/internal/app"
	"github.com/jsamuelsen/quotebook/internal/domain"
)

// runtime is what a command needs to talk to the store.
type runtime struct {
	service   *app.QuoteService
	navigator *app.Navigator
	close     driver.CloseFunc
}

// openFunc builds a runtime for a configuration profile.
type openFunc func(ctx context.Context, profile string) (*runtime, error)

// importFile is the YAML document accepted by the import command.
type importFile struct {
	Quotes []app.ImportItem `yaml:"quotes"`
}

// errNotFound is returned after the not found message has been printed, so the
// process exits non-zero without repeating it.
var errNotFound = errors.New("not found")

func newRootCmd(open openFunc) *cobra.Command {
	var (
		profile   string
		community string
	)

	root := &cobra.Command{
		Use:           "quotectl",
		Short:         "Manage community quotes",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return dto.ValidateCommunity(community)
		},
	}

	root.PersistentFlags().StringVarP(&community, "community", "c", "", "Community ID (required)")
	root.PersistentFlags().StringVarP(&profile, "profile", "p", envOr("APP_ENVIRONMENT", "local"), "Configuration profile")
	_ = root.MarkPersistentFlagRequired("community")

	// withRuntime opens the store for one command and always closes it.
	withRuntime := func(cmd *cobra.Command, fn func(ctx context.Context, rt *runtime) error) error {
		ctx := cmd.Context()

		rt, err := open(ctx, profile)
		if err != nil {
			return err
		}

		defer func() { _ = rt.close(context.WithoutCancel(ctx)) }()

		return fn(ctx, rt)
	}

	root.AddCommand(
		getCmd(&community, withRuntime),
		createCmd(&community, withRuntime),
		deleteCmd(&community, withRuntime),
		listCmd(&community, withRuntime),
		importCmd(&community, withRuntime),
	)

	return root
}

type runner func(cmd *cobra.Command, fn func(ctx context.Context, rt *runtime) error) error

func getCmd(community *string, run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Print a quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, rt *runtime) error {
				name := strings.TrimSpace(args[0])

				quote, err := rt.service.Get(ctx, *community, name)
				if domain.IsNotFound(err) {
					fmt.Fprintf(cmd.ErrOrStderr(), "Could not get quote with name `%s`. It does not exist.\n", name)
					return errNotFound
				}

				if err != nil {
					return describe(err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), quote.Text)

				return nil
			})
		},
	}
}

func createCmd(community *string, run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> <text...>",
		Short: "Save a quote",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, rt *runtime) error {
				quote, err := rt.service.Create(ctx, *community, args[0], strings.Join(args[1:], " "))
				if err != nil {
					return describe(err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Created quote with name `%s`.\n", quote.Name)

				return nil
			})
		},
	}
}

func deleteCmd(community *string, run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, rt *runtime) error {
				name := strings.TrimSpace(args[0])

				deleted, err := rt.service.Delete(ctx, *community, name)
				if err != nil {
					return describe(err)
				}

				if !deleted {
					fmt.Fprintf(cmd.ErrOrStderr(), "Could not delete quote with name `%s`. It does not exist.\n", name)
					return errNotFound
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Deleted quote with name `%s`.\n", name)

				return nil
			})
		},
	}
}

func listCmd(community *string, run runner) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of quote names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, rt *runtime) error {
				model, err := rt.navigator.Render(ctx, *community, page-1)
				if err != nil {
					return describe(err)
				}

				out := cmd.OutOrStdout()

				if model.Empty {
					fmt.Fprintln(out, dto.MsgEmptyList)
					return nil
				}

				for _, line := range model.Lines {
					fmt.Fprintln(out, line)
				}

				fmt.Fprintln(out, model.Label)

				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&page, "page", "n", 1, "Page number, starting at 1")

	return cmd
}

func importCmd(community *string, run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import quotes from a YAML file",
		Long: `Import quotes from a YAML file of the form:

  quotes:
    - name: motd
      text: Be excellent to each other

Existing names are skipped. Invalid entries are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := readImportFile(args[0])
			if err != nil {
				return err
			}

			return run(cmd, func(ctx context.Context, rt *runtime) error {
				results, err := rt.service.Import(ctx, *community, items)
				if err != nil {
					return describe(err)
				}

				out := cmd.OutOrStdout()
				created := 0

				for _, r := range results {
					if r.Status == app.ImportCreated {
						created++
					}

					if r.Message != "" {
						fmt.Fprintf(out, "%-8s %s: %s\n", r.Status, r.Name, r.Message)
					} else {
						fmt.Fprintf(out, "%-8s %s\n", r.Status, r.Name)
					}
				}

				fmt.Fprintf(out, "Imported %d of %d quotes.\n", created, len(results))

				return nil
			})
		},
	}
}

func readImportFile(path string) ([]app.ImportItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	return decodeImport(f)
}

func decodeImport(r io.Reader) ([]app.ImportItem, error) {
	var doc importFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("import file is empty")
		}

		return nil, fmt.Errorf("decoding import file: %w", err)
	}

	if len(doc.Quotes) == 0 {
		return nil, errors.New("import file has no quotes")
	}

	return doc.Quotes, nil
}

// describe turns domain errors into the messages members see.
func describe(err error) error {
	var (
		ve *domain.ValidationError
		ae *domain.AlreadyExistsError
	)

	switch {
	case errors.As(err, &ve):
		return errors.New(ve.Message)
	case errors.As(err, &ae):
		return ae
	case domain.IsUnavailable(err):
		return errors.New("the quote store is unavailable")
	default:
		return err
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
