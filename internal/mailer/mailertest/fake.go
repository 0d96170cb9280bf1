// Package mailertest provides a recording mailer.Sender for tests.
package mailertest

import (
	"context"
	"fmt"
	"sync"

	"github.com/osa911/contactrelay/internal/mailer"
)

// Sender records every message it is asked to send.
// SendFunc, when set, decides the result of each call.
type Sender struct {
	SendFunc func(ctx context.Context, msg *mailer.Message) (string, error)

	mu   sync.Mutex
	sent []mailer.Message
}

func (s *Sender) Send(ctx context.Context, msg *mailer.Message) (string, error) {
	s.mu.Lock()
	s.sent = append(s.sent, *msg)
	n := len(s.sent)
	s.mu.Unlock()

	if s.SendFunc != nil {
		return s.SendFunc(ctx, msg)
	}
	return fmt.Sprintf("email-%d", n), nil
}

// Calls returns the number of Send calls so far.
func (s *Sender) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

// Sent returns a copy of the recorded messages.
func (s *Sender) Sent() []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]mailer.Message, len(s.sent))
	copy(out, s.sent)
	return out
}
