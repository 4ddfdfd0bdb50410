package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/installment-tracker/backend/internal/application/adapter"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
)

// ResendClient implements the adapter.EmailSender interface using Resend.
type ResendClient struct {
	client *resend.Client
	from   string
}

// NewResendClient creates a new Resend client. An empty baseURL keeps the
// provider default.
func NewResendClient(apiKey, fromName, fromEmail, baseURL string) (*ResendClient, error) {
	client := resend.NewClient(apiKey)
	if baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid resend base url: %w", err)
		}
		client.BaseURL = u
	}

	return &ResendClient{
		client: client,
		from:   fmt.Sprintf("%s <%s>", fromName, fromEmail),
	}, nil
}

// Send sends an email via Resend.
func (c *ResendClient) Send(ctx context.Context, input adapter.OutgoingEmail) (*adapter.SentEmail, error) {
	resp, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{input.To},
		Subject: input.Subject,
		Html:    input.HTML,
		Text:    input.Text,
	})
	if err != nil {
		return nil, classifySendError(err)
	}

	return &adapter.SentEmail{ResendID: resp.Id}, nil
}

// classifySendError wraps a provider error as permanent or temporary.
// Rate limits and server errors are retried; auth and validation errors are not.
func classifySendError(err error) error {
	msg := strings.ToLower(err.Error())

	for _, pattern := range []string{"429", "rate limit", "timeout", "500", "502", "503"} {
		if strings.Contains(msg, pattern) {
			return domainerror.NewEmailError(domainerror.ErrCodeTemporaryEmailFailure, "temporary email failure", err)
		}
	}

	for _, pattern := range []string{"401", "403", "422", "unauthorized", "forbidden", "validation", "invalid", "bad request"} {
		if strings.Contains(msg, pattern) {
			return domainerror.NewEmailError(domainerror.ErrCodePermanentEmailFailure, "permanent email failure", err)
		}
	}

	return domainerror.NewEmailError(domainerror.ErrCodeTemporaryEmailFailure, "temporary email failure", err)
}

// LogSender is used when no Resend API key is configured. It logs the
// message instead of delivering it.
type LogSender struct{}

// Send logs the email and reports success.
func (LogSender) Send(_ context.Context, input adapter.OutgoingEmail) (*adapter.SentEmail, error) {
	slog.Info("Email delivery disabled, logging message",
		"to", input.To,
		"subject", input.Subject,
	)
	return &adapter.SentEmail{ResendID: "log"}, nil
}

var (
	_ adapter.EmailSender = (*ResendClient)(nil)
	_ adapter.EmailSender = LogSender{}
)
