package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendConfig configures the Resend provider
type ResendConfig struct {
	APIKey string
	// BaseURL overrides the API endpoint, empty means the Resend default.
	BaseURL string
	Timeout time.Duration
}

// ResendSender sends email through the Resend API.
type ResendSender struct {
	client *resend.Client
}

// NewResendSender creates a Resend-backed sender
func NewResendSender(cfg ResendConfig) (*ResendSender, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("resend: %w", ErrNotConfigured)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resend.NewCustomClient(&http.Client{Timeout: timeout}, cfg.APIKey)

	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("resend: invalid base url: %w", err)
		}
		client.BaseURL = u
	}

	return &ResendSender{client: client}, nil
}

// Send delivers msg and returns the Resend email id
func (s *ResendSender) Send(ctx context.Context, msg *Message) (string, error) {
	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		if isTimeout(ctx, err) {
			return "", fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return "", fmt.Errorf("resend: failed to send email: %w", err)
	}

	if sent == nil || sent.Id == "" {
		return "", ErrEmptyID
	}

	return sent.Id, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
