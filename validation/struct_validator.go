package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/subtitler/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// languageRe accepts ISO 639 codes with an optional region ("yue", "zh",
// "en-US") and "auto".
var languageRe = regexp.MustCompile(`^(auto|[a-z]{2,3}(-[A-Za-z]{2,4})?)$`)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Error field names follow the json tags clients send.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return toSnakeCase(fld.Name)
		})

		_ = validate.RegisterValidation("language", func(fl validator.FieldLevel) bool {
			return languageRe.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Validate checks a struct against its `validate` tags. Besides the
// built-in tags, "language" accepts a language code:
//
//	type TranscribeRequest struct {
//	    URL      string `json:"youtube_url" validate:"required,url"`
//	    Language string `json:"language" validate:"omitempty,language"`
//	}
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Validation("validation failed")
	}

	fields := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, FieldError{Field: e.Field(), Message: formatValidationError(e)})
	}
	return fieldsError(fields)
}

// ValidLanguage reports whether code is an accepted language code.
func ValidLanguage(code string) bool {
	return languageRe.MatchString(code)
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "url", "http_url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "language":
		return "must be a language code such as yue, zh or en"
	default:
		return "is invalid"
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
