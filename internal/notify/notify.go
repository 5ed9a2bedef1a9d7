// Package notify defines the outbound access-code delivery collaborator.
// Actual SMS/email transport lives outside this process; the default
// implementation only logs the delivery.
package notify

import (
	"context"

	"github.com/modestry/userkeeper/internal/logging"
)

// CodeSender delivers a one-time access code to a phone number.
//
// Delivery is fire-and-forget: callers do not retry and do not surface
// delivery failures to the user.
type CodeSender interface {
	SendAccessCode(ctx context.Context, phone string, code string) error
}

// SlogSender is a CodeSender that writes the delivery to a structured log
// instead of an SMS gateway.
type SlogSender struct {
	logger logging.Logger
}

func NewSlogSender(logger logging.Logger) *SlogSender {
	return &SlogSender{logger: logger}
}

func (s *SlogSender) SendAccessCode(ctx context.Context, phone string, code string) error {
	s.logger.Info(ctx, "sending access code", "phone", phone, "code", code)
	return nil
}
