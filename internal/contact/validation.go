package contact

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/cogstack/cogstack-api/internal/models"
	apperrors "github.com/cogstack/cogstack-api/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// ErrUnknownField is returned by ValidateField for names outside the contact form
var ErrUnknownField = fmt.Errorf("unknown contact field: %w", apperrors.ErrInvalidInput)

var fieldLabels = map[string]string{
	models.FieldName:    "Name",
	models.FieldEmail:   "Email",
	models.FieldCompany: "Company",
	models.FieldMessage: "Message",
}

// validate is safe for concurrent use and caches struct metadata
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so results key on name/email/company/message
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("contactemail", contactEmail); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("messagelength", messageLength); err != nil {
		panic(err)
	}

	return v
}

// notBlank rejects empty and whitespace-only strings
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// messageLength requires at least models.MessageMinLength characters
func messageLength(fl validator.FieldLevel) bool {
	return utf8.RuneCountInString(fl.Field().String()) >= models.MessageMinLength
}

// contactEmail accepts local@domain where the domain has at least one dot
// and both sides of every dot are non-empty.
func contactEmail(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if strings.ContainsAny(value, " \t\r\n") {
		return false
	}

	at := strings.LastIndex(value, "@")
	if at <= 0 || at == len(value)-1 {
		return false
	}
	local, domain := value[:at], value[at+1:]
	if strings.Contains(local, "@") || !strings.Contains(domain, ".") {
		return false
	}
	for _, label := range strings.Split(domain, ".") {
		if label == "" {
			return false
		}
	}
	return true
}

// Validate checks every field of candidate and returns all errors at once.
// It has no side effects; an empty result means the submission is valid.
func Validate(candidate models.ContactSubmission) models.ValidationResult {
	result := models.ValidationResult{}

	err := validate.Struct(candidate)
	if err == nil {
		return result
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable for non-struct input, which the signature rules out
		panic(err)
	}

	for _, fe := range fieldErrs {
		// One error per field; validator already stops at the first failing tag
		if _, seen := result[fe.Field()]; seen {
			continue
		}
		result[fe.Field()] = toFieldError(fe)
	}

	return result
}

// ValidateField re-checks a single field, for live feedback while typing.
// The returned bool is false when the field is valid.
func ValidateField(candidate models.ContactSubmission, field string) (models.FieldError, bool, error) {
	if _, ok := fieldLabels[field]; !ok {
		return models.FieldError{}, false, fmt.Errorf("%q: %w", field, ErrUnknownField)
	}
	fe, invalid := Validate(candidate)[field]
	return fe, invalid, nil
}

func toFieldError(fe validator.FieldError) models.FieldError {
	label := fieldLabels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "notblank", "required":
		return models.FieldError{Code: models.CodeRequired, Message: label + " is required"}
	case "contactemail", "email":
		return models.FieldError{Code: models.CodeInvalidFormat, Message: "Invalid email format"}
	case "messagelength":
		return models.FieldError{Code: models.CodeTooShort, Message: fmt.Sprintf("%s must be at least %d characters", label, models.MessageMinLength)}
	default:
		return models.FieldError{Code: fe.Tag(), Message: label + " is invalid"}
	}
}

// Normalize trims surrounding whitespace from every field.
// Request handlers apply it before Validate so pasted input is not rejected for stray spaces.
func Normalize(s models.ContactSubmission) models.ContactSubmission {
	return models.ContactSubmission{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(s.Email),
		Company: strings.TrimSpace(s.Company),
		Message: strings.TrimSpace(s.Message),
	}
}
