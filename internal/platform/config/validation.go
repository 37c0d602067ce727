package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator names fields by their koanf key so messages read like the YAML.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	// The URL may carry %s credential placeholders that url.Parse rejects.
	_ = v.RegisterValidation("mongouri", func(fl validator.FieldLevel) bool {
		uri := fl.Field().String()
		return strings.HasPrefix(uri, "mongodb://") || strings.HasPrefix(uri, "mongodb+srv://")
	})

	return v
}

// tagMessages phrase a failed tag. %[1]s is the field, %[2]s the tag param.
var tagMessages = map[string]string{
	"required":    "%[1]s is required",
	"required_if": "%[1]s is required when %[2]s",
	"min":         "%[1]s must be at least %[2]s",
	"max":         "%[1]s must be at most %[2]s",
	"gt":          "%[1]s must be greater than %[2]s",
	"oneof":       "%[1]s must be one of: %[2]s",
	"url":         "%[1]s must be a valid URL",
	"mongouri":    "%[1]s must be a mongodb:// or mongodb+srv:// URI",
}

// Validate reports every problem in c at once. The service refuses to start
// on any of them.
func (c *Config) Validate() error {
	var problems []string

	var fieldErrs validator.ValidationErrors

	switch err := validate.Struct(c); {
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			problems = append(problems, describeField(fe))
		}
	case err != nil:
		return err
	}

	problems = append(problems, c.Store.driverProblems()...)

	if len(problems) == 0 {
		return nil
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(problems, "\n  "))
}

// driverProblems checks what the selected backend needs. Struct tags cannot
// see the driver from inside the backend sections.
func (s *StoreConfig) driverProblems() []string {
	var problems []string

	switch s.Driver {
	case DriverMongo:
		if s.Mongo.URL == "" {
			problems = append(problems, "store.mongo.url is required when store.driver is mongo")
		}

		if s.Mongo.Database == "" {
			problems = append(problems, "store.mongo.database is required when store.driver is mongo")
		}

		if (s.Mongo.User == "") != (s.Mongo.Password == "") {
			problems = append(problems, "store.mongo.user and store.mongo.password must be set together")
		}
	case DriverSQLite:
		if s.SQLite.Path == "" {
			problems = append(problems, "store.sqlite.path is required when store.driver is sqlite")
		}
	}

	return problems
}

func describeField(fe validator.FieldError) string {
	field := fieldPath(fe.Namespace())

	if msg, ok := tagMessages[fe.Tag()]; ok {
		return fmt.Sprintf(msg, field, fe.Param())
	}

	return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
}

// fieldPath turns "Config.server.port" into "server.port".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		namespace = rest
	}

	return strings.ToLower(namespace)
}
