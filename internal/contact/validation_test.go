package contact_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/cogstack/cogstack-api/internal/contact"
	"github.com/cogstack/cogstack-api/internal/models"
	apperrors "github.com/cogstack/cogstack-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() models.ContactSubmission {
	return models.ContactSubmission{
		Name:    "Jane",
		Email:   "jane@acme.io",
		Company: "",
		Message: "We need a voice agent.",
	}
}

func TestValidate_ValidSubmission(t *testing.T) {
	result := contact.Validate(validSubmission())

	assert.True(t, result.Valid())
	assert.Empty(t, result)
}

func TestValidate_ReportsEveryFailingField(t *testing.T) {
	result := contact.Validate(models.ContactSubmission{
		Name:    "",
		Email:   "bad",
		Company: "",
		Message: "hi",
	})

	require.Len(t, result, 3)
	assert.Equal(t, models.CodeRequired, result[models.FieldName].Code)
	assert.Equal(t, "Name is required", result[models.FieldName].Message)
	assert.Equal(t, models.CodeInvalidFormat, result[models.FieldEmail].Code)
	assert.Equal(t, "Invalid email format", result[models.FieldEmail].Message)
	assert.Equal(t, models.CodeTooShort, result[models.FieldMessage].Code)
	assert.Equal(t, "Message must be at least 10 characters", result[models.FieldMessage].Message)
	assert.False(t, result.Has(models.FieldCompany))
}

func TestValidate_Email(t *testing.T) {
	tests := []struct {
		email string
		code  string
	}{
		{email: "a@b.co"},
		{email: "first.last@sub.example.org"},
		{email: "abc", code: models.CodeInvalidFormat},
		{email: "a@b", code: models.CodeInvalidFormat},
		{email: "@b.co", code: models.CodeInvalidFormat},
		{email: "a@", code: models.CodeInvalidFormat},
		{email: "a@b.", code: models.CodeInvalidFormat},
		{email: "a@@b.co", code: models.CodeInvalidFormat},
		{email: "a b@c.co", code: models.CodeInvalidFormat},
		{email: "", code: models.CodeRequired},
		{email: "   ", code: models.CodeRequired},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			s := validSubmission()
			s.Email = tt.email

			result := contact.Validate(s)

			if tt.code == "" {
				assert.False(t, result.Has(models.FieldEmail))
				return
			}
			assert.Equal(t, tt.code, result[models.FieldEmail].Code)
		})
	}
}

func TestValidate_WhitespaceNameIsRequired(t *testing.T) {
	s := validSubmission()
	s.Name = "   "

	result := contact.Validate(s)

	require.Len(t, result, 1)
	assert.Equal(t, models.CodeRequired, result[models.FieldName].Code)
}

func TestValidate_MessageLength(t *testing.T) {
	s := validSubmission()

	s.Message = strings.Repeat("x", models.MessageMinLength-1)
	assert.Equal(t, models.CodeTooShort, contact.Validate(s)[models.FieldMessage].Code)

	s.Message = strings.Repeat("x", models.MessageMinLength)
	assert.True(t, contact.Validate(s).Valid())

	// counted in characters, not bytes
	s.Message = "ééééééééé"
	assert.Equal(t, models.CodeTooShort, contact.Validate(s)[models.FieldMessage].Code)

	s.Message = "\t\n "
	assert.Equal(t, models.CodeRequired, contact.Validate(s)[models.FieldMessage].Code)
}

func TestValidate_CompanyNeverBlocks(t *testing.T) {
	s := validSubmission()
	s.Company = "   "

	assert.True(t, contact.Validate(s).Valid())
}

func TestValidate_IsPure(t *testing.T) {
	s := models.ContactSubmission{Email: "bad"}

	first := contact.Validate(s)
	second := contact.Validate(s)

	assert.Equal(t, first, second)
	assert.Equal(t, models.ContactSubmission{Email: "bad"}, s)
}

func TestValidateField_AgreesWithValidate(t *testing.T) {
	s := models.ContactSubmission{Name: "Jane", Email: "nope", Message: "short"}
	full := contact.Validate(s)

	for _, field := range []string{models.FieldName, models.FieldEmail, models.FieldCompany, models.FieldMessage} {
		fe, invalid, err := contact.ValidateField(s, field)
		require.NoError(t, err)
		assert.Equal(t, full.Has(field), invalid, field)
		assert.Equal(t, full[field], fe, field)
	}
}

func TestValidateField_UnknownField(t *testing.T) {
	_, _, err := contact.ValidateField(validSubmission(), "phone")

	assert.True(t, errors.Is(err, contact.ErrUnknownField))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestNormalize(t *testing.T) {
	s := contact.Normalize(models.ContactSubmission{
		Name:    "  Jane ",
		Email:   " jane@acme.io\n",
		Company: "\tAcme ",
		Message: "  We need a voice agent.  ",
	})

	assert.Equal(t, models.ContactSubmission{
		Name:    "Jane",
		Email:   "jane@acme.io",
		Company: "Acme",
		Message: "We need a voice agent.",
	}, s)
}
