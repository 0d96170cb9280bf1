// Package contact holds the contact form submission and its validation rules.
package contact

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxMessageLength is the maximum number of characters accepted in a message.
const MaxMessageLength = 5000

// Validation failure reasons returned to the submitter
const (
	ReasonMissingFields  = "Missing required fields: name, email, and message are required."
	ReasonInvalidEmail   = "Invalid email format."
	ReasonMessageTooLong = "Message is too long. Maximum 5000 characters."
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Submission is a single contact form submission. It is never persisted.
type Submission struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,contactemail"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ValidationError reports why a submission was rejected
type ValidationError struct {
	Reason string
	Fields []string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidationError reports whether err is (or wraps) a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("contactemail", validateEmail); err != nil {
		panic("contact: register email validator: " + err.Error())
	}
	return v
}

func validateEmail(fl validator.FieldLevel) bool {
	return IsValidEmail(fl.Field().String())
}

// IsValidEmail checks the address against the basic local@domain.tld pattern.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Validate checks the submission. Missing fields are reported before a bad
// email address, which is reported before an oversized message.
func Validate(s Submission) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var missing, invalidEmail, tooLong []string
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		switch {
		case fe.Tag() == "required":
			missing = append(missing, field)
		case fe.Tag() == "contactemail":
			invalidEmail = append(invalidEmail, field)
		case fe.Tag() == "max":
			tooLong = append(tooLong, field)
		}
	}

	switch {
	case len(missing) > 0:
		return &ValidationError{Reason: ReasonMissingFields, Fields: missing}
	case len(invalidEmail) > 0:
		return &ValidationError{Reason: ReasonInvalidEmail, Fields: invalidEmail}
	case len(tooLong) > 0:
		return &ValidationError{Reason: ReasonMessageTooLong, Fields: tooLong}
	}
	return err
}
