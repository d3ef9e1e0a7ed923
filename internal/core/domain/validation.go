package domain

import (
	"errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}

	if err := Validator.RegisterValidation("task_status", func(fl validator.FieldLevel) bool {
		return TaskStatus(fl.Field().String()).IsValid()
	}); err != nil {
		panic(err)
	}

	addCustomTranslations()
}

func addCustomTranslations() {
	Validator.RegisterTranslation("required", Translator, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is required.", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", fe.Field())
		return t
	})

	Validator.RegisterTranslation("max", Translator, func(ut ut.Translator) error {
		return ut.Add("max", "{0} cannot exceed {1} characters.", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("max", fe.Field(), fe.Param())
		return t
	})

	Validator.RegisterTranslation("task_status", Translator, func(ut ut.Translator) error {
		return ut.Add("task_status", ErrInvalidStatus.Message, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("task_status")
		return t
	})

	Validator.RegisterTranslation("gtefield", Translator, func(ut ut.Translator) error {
		return ut.Add("gtefield", "{0} cannot be earlier than {1}.", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("gtefield", fe.Field(), fe.Param())
		return t
	})
}

// Validate is the storage-side backstop for the rules the service checks
// first. It reports the first failing field only.
func (t *Task) Validate() error {
	err := Validator.Struct(t)

	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors

	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return NewValidationError(validationErrors[0].Translate(Translator))
	}

	return NewInternalError("Error validating task", err)
}
