// Package storetest holds the behaviour suite every quote store backend must pass.
package storetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotebook/internal/domain"
	"github.com/jsamuelsen/quotebook/internal/ports"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) ports.QuoteStore

// Run exercises store against the QuoteStore contract.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("create then get under both policies", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.Create(ctx, "c1", domain.Quote{Name: "Hello", Text: "world"}, false)
		require.NoError(t, err)
		assert.Equal(t, "Hello", created.Name)
		assert.Equal(t, "world", created.Text)

		for _, tc := range []struct {
			name          string
			caseSensitive bool
			found         bool
		}{
			{"Hello", true, true},
			{"hello", true, false},
			{"Hello", false, true},
			{"hELLO", false, true},
		} {
			got, err := s.Get(ctx, "c1", tc.name, tc.caseSensitive)
			if !tc.found {
				assert.True(t, domain.IsNotFound(err), "get %q sensitive=%v", tc.name, tc.caseSensitive)
				continue
			}

			require.NoError(t, err, "get %q sensitive=%v", tc.name, tc.caseSensitive)
			assert.Equal(t, "Hello", got.Name)
			assert.Equal(t, "world", got.Text)
		}
	})

	t.Run("names are literal", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Create(ctx, "c1", domain.Quote{Name: "a.b*c", Text: "x"}, false)
		require.NoError(t, err)

		_, err = s.Get(ctx, "c1", "aXbXXXc", false)
		assert.True(t, domain.IsNotFound(err))

		_, err = s.Get(ctx, "c1", "a.b", false)
		assert.True(t, domain.IsNotFound(err))

		got, err := s.Get(ctx, "c1", "A.B*C", false)
		require.NoError(t, err)
		assert.Equal(t, "a.b*c", got.Name)
	})

	t.Run("duplicates follow the case policy", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Create(ctx, "c1", domain.Quote{Name: "foo", Text: "1"}, true)
		require.NoError(t, err)

		_, err = s.Create(ctx, "c1", domain.Quote{Name: "foo", Text: "2"}, true)
		assert.True(t, domain.IsAlreadyExists(err))

		_, err = s.Create(ctx, "c1", domain.Quote{Name: "Foo", Text: "3"}, true)
		require.NoError(t, err, "case-flipped names are distinct when case-sensitive")

		_, err = s.Create(ctx, "c1", domain.Quote{Name: "FOO", Text: "4"}, false)
		assert.True(t, domain.IsAlreadyExists(err))

		got, err := s.Get(ctx, "c1", "foo", true)
		require.NoError(t, err)
		assert.Equal(t, "1", got.Text, "a rejected create leaves the original untouched")

		n, err := s.Count(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("communities are isolated", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Create(ctx, "c1", domain.Quote{Name: "shared", Text: "one"}, false)
		require.NoError(t, err)

		_, err = s.Create(ctx, "c2", domain.Quote{Name: "shared", Text: "two"}, false)
		require.NoError(t, err)

		got, err := s.Get(ctx, "c2", "shared", false)
		require.NoError(t, err)
		assert.Equal(t, "two", got.Text)

		_, err = s.Get(ctx, "c3", "shared", false)
		assert.True(t, domain.IsNotFound(err))

		n, err := s.Count(ctx, "c3")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Create(ctx, "c1", domain.Quote{Name: "Gone", Text: "x"}, false)
		require.NoError(t, err)

		deleted, err := s.Delete(ctx, "c1", "gone", true)
		require.NoError(t, err)
		assert.False(t, deleted, "case-sensitive delete must not match a case-flipped name")

		deleted, err = s.Delete(ctx, "c1", "gone", false)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = s.Delete(ctx, "c1", "gone", false)
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = s.Get(ctx, "c1", "Gone", true)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("pages are sorted and sized", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for i := 24; i >= 0; i-- {
			_, err := s.Create(ctx, "c1", domain.Quote{Name: fmt.Sprintf("q%02d", i), Text: "x"}, false)
			require.NoError(t, err)
		}

		n, err := s.Count(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 25, n)

		pages, err := s.MaxPages(ctx, "c1", domain.PerPage)
		require.NoError(t, err)
		assert.Equal(t, 3, pages)

		first, err := s.ListPage(ctx, "c1", 0, domain.PerPage)
		require.NoError(t, err)
		assert.Equal(t, []string{"q00", "q01", "q02", "q03", "q04", "q05", "q06", "q07", "q08", "q09"}, first.Names)

		last, err := s.ListPage(ctx, "c1", 2, domain.PerPage)
		require.NoError(t, err)
		assert.Equal(t, []string{"q20", "q21", "q22", "q23", "q24"}, last.Names)

		past, err := s.ListPage(ctx, "c1", 3, domain.PerPage)
		require.NoError(t, err)
		assert.Empty(t, past.Names)
	})

	t.Run("empty community has one page", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		pages, err := s.MaxPages(ctx, "empty", domain.PerPage)
		require.NoError(t, err)
		assert.Equal(t, 1, pages)

		page, err := s.ListPage(ctx, "empty", 0, domain.PerPage)
		require.NoError(t, err)
		assert.Empty(t, page.Names)
	})

	t.Run("sort is by code point", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, name := range []string{"b", "B", "a", "_", "Z"} {
			_, err := s.Create(ctx, "c1", domain.Quote{Name: name, Text: "x"}, true)
			require.NoError(t, err)
		}

		page, err := s.ListPage(ctx, "c1", 0, domain.PerPage)
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "Z", "_", "a", "b"}, page.Names)
	})
}
