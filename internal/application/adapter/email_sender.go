package adapter

import "context"

// OutgoingEmail is a rendered message ready for the provider.
type OutgoingEmail struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SentEmail carries the provider's message id.
type SentEmail struct {
	ResendID string
}

// EmailSender delivers one rendered message. Errors coded
// EMAIL-020002 are permanent and are not retried.
type EmailSender interface {
	Send(ctx context.Context, email OutgoingEmail) (*SentEmail, error)
}

// EmailService queues templated emails for the background worker. Queueing
// never waits on the provider.
type EmailService interface {
	QueuePasswordResetEmail(ctx context.Context, input QueuePasswordResetInput) error
	QueueInstallmentReminderEmail(ctx context.Context, input QueueInstallmentReminderInput) error
}

type QueuePasswordResetInput struct {
	UserEmail string
	UserName  string
	ResetURL  string
	ExpiresIn string
}

// QueueInstallmentReminderInput is one user's daily digest. Amounts are
// preformatted two-decimal strings and dates are YYYY-MM-DD.
type QueueInstallmentReminderInput struct {
	UserEmail    string
	UserName     string
	Items        []ReminderItem
	TotalDue     string
	OverdueCount int
	CalendarURL  string
}

// ReminderItem is one unpaid installment in a digest.
type ReminderItem struct {
	Description       string
	CardName          string
	InstallmentNumber int
	TotalInstallments int
	Amount            string
	DueDate           string
	Overdue           bool
}
