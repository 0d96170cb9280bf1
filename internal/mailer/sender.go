// Package mailer delivers contact notifications through a transactional email provider.
package mailer

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured is returned when a provider is missing credentials.
	ErrNotConfigured = errors.New("email provider not configured")
	// ErrUpstreamTimeout is returned when the provider did not answer in time.
	ErrUpstreamTimeout = errors.New("email provider timed out")
	// ErrEmptyID is returned when the provider accepted a message without an id.
	ErrEmptyID = errors.New("email provider returned no message id")
)

// Message is a single outbound email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	ReplyTo string
}

// Sender delivers a message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg *Message) (string, error)
}
