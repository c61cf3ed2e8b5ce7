package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/pictoboard/internal/domain"
)

// validate reports fields by their koanf keys, so messages name the same
// path a YAML file or APP_ variable sets.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("koanf"); name != "" {
			return name
		}

		return strings.ToLower(f.Name)
	})

	_ = v.RegisterValidation("boardlang", func(fl validator.FieldLevel) bool {
		return domain.IsSupportedLanguage(fl.Field().String())
	})

	return v
}

// Validate checks field tags, then the rules that span fields. Every
// problem is reported, one per line.
func (c *Config) Validate() error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}

		for _, e := range fieldErrs {
			problems = append(problems, formatFieldError(e))
		}
	}

	problems = append(problems, c.crossFieldProblems()...)

	if len(problems) == 0 {
		return nil
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(problems, "\n  "))
}

func (c *Config) crossFieldProblems() []string {
	var problems []string

	if r := c.Client.Retry; r.MaxInterval > 0 && r.MaxInterval < r.InitialInterval {
		problems = append(problems, "client.retry.max_interval must not be below client.retry.initial_interval")
	}

	if c.Client.RateBurst > 0 && c.Client.RateLimit == 0 {
		problems = append(problems, "client.rate_burst needs client.rate_limit")
	}

	return problems
}

func formatFieldError(e validator.FieldError) string {
	field := formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, e.Param())
	case "required_unless":
		return fmt.Sprintf("%s is required unless %s", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "url":
		return field + " must be a valid URL"
	case "boardlang":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(domain.SupportedLanguages, " "))
	case "iscolor":
		return field + " must be a CSS color"
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

// formatFieldPath drops the root struct from a namespace such as
// "Config.client.retry.max_attempts".
func formatFieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}

	return namespace
}
