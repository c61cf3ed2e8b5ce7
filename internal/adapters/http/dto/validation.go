package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/pictoboard/internal/domain"
)

// jsonTagParts splits a json tag into the field name and the rest.
const jsonTagParts = 2

// Binding errors.
var (
	// ErrValidation indicates a struct tag check failed.
	ErrValidation = errors.New("validation failed")

	// ErrBinding indicates the JSON body or query string could not be decoded.
	ErrBinding = errors.New("binding failed")
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the board tags registered:
// lang (a catalogue language) and notempty (not blank after trimming).
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", jsonTagParts)[0]
			if name == "-" {
				return ""
			}

			return name
		})

		_ = validate.RegisterValidation("lang", validateLanguage)
		_ = validate.RegisterValidation("notempty", validateNotEmpty)
	})

	return validate
}

// Validatable is a request with rules that span fields.
type Validatable interface {
	Validate() error
}

// Validate checks struct tags, then the request's own rules when it has any.
// Tag failures wrap ErrValidation; rule failures are domain validation errors.
func Validate(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if r, ok := v.(Validatable); ok {
		return r.Validate()
	}

	return nil
}

// BindAndValidate decodes the JSON body into v and validates it.
func BindAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// BindQueryAndValidate decodes the query string into v and validates it.
func BindQueryAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// ValidationErrors maps each failing field to a readable message.
func ValidationErrors(err error) map[string]string {
	fieldErrors := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			fieldErrors[fieldErr.Field()] = validationMessage(fieldErr)
		}
	}

	return fieldErrors
}

// IsValidationError reports whether err carries struct tag failures.
func IsValidationError(err error) bool {
	var validationErrs validator.ValidationErrors
	return errors.As(err, &validationErrs)
}

// validationMessages maps tags to message templates; {param} is the tag argument.
var validationMessages = map[string]string{
	"required":   "this field is required",
	"notempty":   "must not be blank",
	"lang":       "must be one of: " + strings.Join(domain.SupportedLanguages, " "),
	"iscolor":    "must be a color such as #1e88e5",
	"startswith": "must start with {param}",
	"gte":        "must be greater than or equal to {param}",
	"lte":        "must be less than or equal to {param}",
	"gt":         "must be greater than {param}",
	"oneof":      "must be one of: {param}",
}

func validationMessage(fe validator.FieldError) string {
	tag := fe.Tag()

	if tag == "min" || tag == "max" {
		return minMaxMessage(tag, fe.Param(), fe.Type().Kind())
	}

	if msg, ok := validationMessages[tag]; ok {
		return strings.ReplaceAll(msg, "{param}", fe.Param())
	}

	return "failed validation: " + tag
}

func minMaxMessage(tag, param string, kind reflect.Kind) string {
	suffix := ""
	if kind == reflect.String {
		suffix = " characters"
	}

	if tag == "min" {
		return "must be at least " + param + suffix
	}

	return "must be at most " + param + suffix
}

// validateLanguage accepts an empty value; pair with required when needed.
func validateLanguage(fl validator.FieldLevel) bool {
	value := fl.Field().String()

	return value == "" || domain.IsSupportedLanguage(value)
}

func validateNotEmpty(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
