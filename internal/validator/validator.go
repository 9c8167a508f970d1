// Package validator checks service input DTOs against their struct tags.
package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"khata/internal/domain"
	"khata/internal/numbering"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Get returns the shared validator with the domain rules registered.
func Get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		mustRegister(v, "series_prefix", func(fl validator.FieldLevel) bool {
			return numbering.ValidPrefix(fl.Field().String())
		})
		mustRegister(v, "doc_type", func(fl validator.FieldLevel) bool {
			return domain.ValidDocumentTypes[domain.DocumentType(fl.Field().String())]
		})
		mustRegister(v, "reset_frequency", func(fl validator.FieldLevel) bool {
			return domain.ValidResetFrequencies[domain.ResetFrequency(fl.Field().String())]
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Struct validates req and returns a *domain.ValidationError with one message per failing field.
func Struct(req interface{}) error {
	err := Get().Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validator.Struct")
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = message(fe)
	}
	return &domain.ValidationError{Fields: details}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "series_prefix":
		return "must be 1-10 uppercase letters or digits"
	case "doc_type":
		return "is not a known document type"
	case "reset_frequency":
		return "must be one of never, monthly, yearly, fiscal_year"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
