package client

import (
	"context"
	"errors"
	"sync"

	"github.com/osa911/contactrelay/internal/contact"
)

// Status strings shown to the person filling in the form
const (
	StatusSent          = "Message sent successfully! Check your email."
	StatusErrorPrefix   = "Error: "
	StatusUnreachable   = "Failed to send. Make sure the backend is running!"
	statusMissingFields = "Please fill in your name, email and message."
	statusInvalidEmail  = "Please enter a valid email address."
)

// ErrInFlight is returned when Submit is called while a request is pending
var ErrInFlight = errors.New("a submission is already in progress")

// ErrRejected is returned when the relay or the local checks refuse a submission
var ErrRejected = errors.New("submission rejected")

// Sender delivers one submission to the relay
type Sender interface {
	Send(ctx context.Context, sub contact.Submission) (*Response, error)
}

// Form holds the field values and submission state of a contact form.
// It is safe for concurrent use; only one submission runs at a time.
type Form struct {
	sender Sender

	mu      sync.Mutex
	fields  contact.Submission
	loading bool
	status  string
}

// NewForm creates an empty form that submits through sender
func NewForm(sender Sender) *Form {
	return &Form{sender: sender}
}

// Set updates the field values. Edits are ignored while a submission is
// pending, like disabled inputs.
func (f *Form) Set(name, email, message string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loading {
		return false
	}
	f.fields = contact.Submission{Name: name, Email: email, Message: message}
	return true
}

// Fields returns the current field values
func (f *Form) Fields() contact.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Loading reports whether a submission is in flight
func (f *Form) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Status returns the message describing the last submission
func (f *Form) Status() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Submit sends the current fields once. Fields are cleared only when the
// relay confirms delivery.
func (f *Form) Submit(ctx context.Context) (*Response, error) {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return nil, ErrInFlight
	}

	sub := f.fields
	if reason := precheck(sub); reason != "" {
		f.status = reason
		f.mu.Unlock()
		return nil, ErrRejected
	}

	f.loading = true
	f.status = ""
	f.mu.Unlock()

	resp, err := f.sender.Send(ctx, sub)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false

	switch {
	case err != nil:
		f.status = StatusUnreachable
		return nil, err
	case resp.Success:
		f.status = StatusSent
		f.fields = contact.Submission{}
		return resp, nil
	default:
		f.status = StatusErrorPrefix + resp.Error
		return resp, ErrRejected
	}
}

// precheck mirrors the browser's required and type=email checks
func precheck(sub contact.Submission) string {
	if sub.Name == "" || sub.Email == "" || sub.Message == "" {
		return statusMissingFields
	}
	if !contact.IsValidEmail(sub.Email) {
		return statusInvalidEmail
	}
	return ""
}
