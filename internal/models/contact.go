package models

import (
	"time"
)

// Contact field names as they appear in JSON and in ValidationResult keys
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldCompany = "company"
	FieldMessage = "message"
)

// Validation error codes
const (
	CodeRequired      = "required"
	CodeInvalidFormat = "invalid_format"
	CodeTooShort      = "too_short"
)

// MessageMinLength is the minimum message length in characters
const MessageMinLength = 10

// ContactSubmission is a contact form record pending validation or delivery
type ContactSubmission struct {
	Name    string `json:"name" validate:"notblank"`
	Email   string `json:"email" validate:"notblank,contactemail"`
	Company string `json:"company"`
	Message string `json:"message" validate:"notblank,messagelength"`
}

// FieldError describes why a single field was rejected
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult maps a field name to its error. An empty result means the submission is valid.
type ValidationResult map[string]FieldError

// Valid reports whether no field has an error
func (r ValidationResult) Valid() bool {
	return len(r) == 0
}

// Has reports whether field has an error
func (r ValidationResult) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// DeliveryReceipt is returned by a transport once a submission has been delivered
type DeliveryReceipt struct {
	ID          string    `json:"id"`
	Transport   string    `json:"transport"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

// ContactRequest is the body of POST /api/v1/contact
type ContactRequest struct {
	ContactSubmission
	RecaptchaToken string `json:"recaptchaToken"`
}

// ContactResponse is returned after a submission attempt
type ContactResponse struct {
	Success   bool             `json:"success"`
	State     string           `json:"state,omitempty"`
	Receipt   *DeliveryReceipt `json:"receipt,omitempty"`
	Duplicate bool             `json:"duplicate,omitempty"`
	Errors    ValidationResult `json:"errors,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// ValidateResponse is returned by the live validation endpoint
type ValidateResponse struct {
	Valid  bool             `json:"valid"`
	Errors ValidationResult `json:"errors"`
}
