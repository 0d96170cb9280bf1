package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/osa911/contactrelay/internal/contact"
	"github.com/osa911/contactrelay/internal/logging"
	"github.com/osa911/contactrelay/internal/mailer"
)

// DeliveryKind classifies why an outbound send failed
type DeliveryKind string

const (
	DeliveryKindProvider DeliveryKind = "provider"
	DeliveryKindTimeout  DeliveryKind = "timeout"
)

// DeliveryError wraps a failure of the email provider.
// Its details are for logs only and must never reach the submitter.
type DeliveryError struct {
	Kind DeliveryKind
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("email delivery failed (%s): %v", e.Kind, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// ContactConfig holds the envelope and limits used for contact notifications
type ContactConfig struct {
	From        string
	To          string
	SiteName    string
	SendTimeout time.Duration
}

// SubmitResult is returned for a delivered submission
type SubmitResult struct {
	EmailID string
}

// ContactService validates submissions and relays them to the email provider
type ContactService struct {
	sender mailer.Sender
	config ContactConfig
	logger *logging.Logger
	tracer trace.Tracer
}

// NewContactService creates a new contact service
func NewContactService(sender mailer.Sender, config ContactConfig, logger *logging.Logger) *ContactService {
	if config.SendTimeout <= 0 {
		config.SendTimeout = 10 * time.Second
	}
	return &ContactService{
		sender: sender,
		config: config,
		logger: logger,
		tracer: otel.Tracer("github.com/osa911/contactrelay/internal/service"),
	}
}

// Submit validates sub and sends exactly one notification for it.
// It returns a *contact.ValidationError for bad input and a *DeliveryError
// when the provider fails. Submissions are not deduplicated.
func (s *ContactService) Submit(ctx context.Context, sub contact.Submission) (*SubmitResult, error) {
	if err := contact.Validate(sub); err != nil {
		return nil, err
	}

	msg, err := mailer.BuildNotification(mailer.NotificationConfig{
		From: s.config.From,
		To:   s.config.To,
		Site: s.config.SiteName,
	}, sub)
	if err != nil {
		return nil, logging.WrapError(err, "building contact notification")
	}

	ctx, span := s.tracer.Start(ctx, "contact.send_email")
	defer span.End()

	sendCtx, cancel := context.WithTimeout(ctx, s.config.SendTimeout)
	defer cancel()

	id, err := s.sender.Send(sendCtx, msg)
	if err != nil {
		kind := DeliveryKindProvider
		if errors.Is(err, mailer.ErrUpstreamTimeout) || errors.Is(err, context.DeadlineExceeded) {
			kind = DeliveryKindTimeout
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, string(kind))
		return nil, &DeliveryError{Kind: kind, Err: err}
	}

	span.SetAttributes(attribute.String("email.id", id))
	s.logger.Info("Contact email sent successfully: id=%s", id)

	return &SubmitResult{EmailID: id}, nil
}
