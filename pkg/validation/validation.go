// Package validation wraps go-playground/validator with the project's custom
// rules and human-readable error messages.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/court-booking-service/pkg/types"
)

var (
	phoneRegex     = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	phoneSeparator = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// FieldError ошибка валидации одного поля
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors список ошибок валидации
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	messages := make([]string, 0, len(e))
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// Validator валидатор структур с правилами phone и timestring
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	rules := map[string]validator.Func{
		"phone":      validatePhone,
		"timestring": validateTimeString,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("validation: register %q: %v", tag, err))
		}
	}

	return &Validator{validate: v}
}

// Struct проверяет структуру по тегам validate; ошибки полей возвращаются как Errors
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return translate(validationErrs)
	}
	return err
}

// NormalizePhone убирает пробелы, дефисы и скобки
func NormalizePhone(phone string) string {
	return phoneSeparator.Replace(strings.TrimSpace(phone))
}

// IsPhone проверяет номер телефона: необязательный +, 7..15 цифр
func IsPhone(phone string) bool {
	return phoneRegex.MatchString(NormalizePhone(phone))
}

func validatePhone(fl validator.FieldLevel) bool {
	return IsPhone(fl.Field().String())
}

func validateTimeString(fl validator.FieldLevel) bool {
	return types.TimeString(fl.Field().String()).Validate() == nil
}

func translate(errs validator.ValidationErrors) Errors {
	result := make(Errors, 0, len(errs))

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "phone":
			message = fmt.Sprintf("%s must be a phone number of 7 to 15 digits", err.Field())
		case "timestring":
			message = fmt.Sprintf("%s must be a time in HH:MM format", err.Field())
		case "unique":
			message = fmt.Sprintf("%s must not contain duplicates", err.Field())
		}

		result = append(result, FieldError{Field: err.Field(), Message: message})
	}

	return result
}
