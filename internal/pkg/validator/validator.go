// Package validator checks request structs and reports failures per JSON field.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"courrier-registry/internal/core/domain"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator wraps a validator with English messages and JSON field names
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New creates and sets up a validator and its translator
func New() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	translator, _ := ut.New(en.New(), en.New()).GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(v, translator); err != nil {
		return nil, fmt.Errorf("registering default translations: %w", err)
	}

	// notblank rejects whitespace-only strings
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("registering notblank: %w", err)
	}
	err := v.RegisterTranslation("notblank", translator, func(ut ut.Translator) error {
		return ut.Add("notblank", "{0} must not be blank", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("notblank", fe.Field())
		return t
	})
	if err != nil {
		return nil, fmt.Errorf("registering notblank translation: %w", err)
	}

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v, translator: translator}, nil
}

// MustNew is New for package-level wiring where a failure is a programming error
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Check validates val and returns a domain InvalidInput error carrying one
// message per failing field, or nil.
func (v *Validator) Check(val any) error {
	err := v.validate.Struct(val)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return domain.InvalidField("body", err.Error())
	}

	fields := make(map[string]string, len(vErrs))
	for _, vErr := range vErrs {
		fields[vErr.Field()] = vErr.Translate(v.translator)
	}
	return domain.Invalid(fields)
}
