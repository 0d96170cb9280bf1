package contact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"ada@example.com", true},
		{"a.b+c@sub.example.co.uk", true},
		{"x@y.z", true},
		{"not-an-email", false},
		{"missing@tld", false},
		{"@example.com", false},
		{"ada@.com", false},
		{"ada@a.b.c", true},
		{"ada @example.com", false},
		{"ada@exa mple.com", false},
		{"ada@@example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Submission{Name: "Ada", Email: "ada@example.com", Message: "Hello"}

	tests := []struct {
		name   string
		sub    Submission
		reason string
	}{
		{"valid", valid, ""},
		{"missing name", Submission{Email: valid.Email, Message: valid.Message}, ReasonMissingFields},
		{"missing email", Submission{Name: valid.Name, Message: valid.Message}, ReasonMissingFields},
		{"missing message", Submission{Name: valid.Name, Email: valid.Email}, ReasonMissingFields},
		{"all missing", Submission{}, ReasonMissingFields},
		{"invalid email", Submission{Name: "Ada", Email: "not-an-email", Message: "Hi"}, ReasonInvalidEmail},
		{"missing wins over invalid email", Submission{Email: "not-an-email", Message: "Hi"}, ReasonMissingFields},
		{"message at limit", Submission{Name: "Ada", Email: "ada@example.com", Message: strings.Repeat("a", MaxMessageLength)}, ""},
		{"message over limit", Submission{Name: "Ada", Email: "ada@example.com", Message: strings.Repeat("a", MaxMessageLength+1)}, ReasonMessageTooLong},
		{"multibyte message at limit", Submission{Name: "Ada", Email: "ada@example.com", Message: strings.Repeat("é", MaxMessageLength)}, ""},
		{"invalid email wins over long message", Submission{Name: "Ada", Email: "nope", Message: strings.Repeat("a", MaxMessageLength+1)}, ReasonInvalidEmail},
		// Length is counted in characters, so emoji outside the BMP count once each
		{"astral message at limit", Submission{Name: "Ada", Email: "ada@example.com", Message: strings.Repeat("\U0001F600", MaxMessageLength)}, ""},
		{"astral message over limit", Submission{Name: "Ada", Email: "ada@example.com", Message: strings.Repeat("\U0001F600", MaxMessageLength+1)}, ReasonMessageTooLong},
		{"whitespace name is present", Submission{Name: "  ", Email: "ada@example.com", Message: "Hi"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.sub)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.reason, ve.Reason)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestValidateReportsMissingFields(t *testing.T) {
	err := Validate(Submission{Email: "ada@example.com"})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, []string{"name", "message"}, ve.Fields)
}
