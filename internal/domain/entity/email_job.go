package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmailStatus is the delivery state of a queued email.
type EmailStatus string

const (
	EmailStatusPending    EmailStatus = "pending"
	EmailStatusProcessing EmailStatus = "processing"
	EmailStatusSent       EmailStatus = "sent"
	EmailStatusFailed     EmailStatus = "failed"
)

// EmailTemplateType names the template a job is rendered with.
type EmailTemplateType string

const (
	TemplatePasswordReset       EmailTemplateType = "password_reset"
	TemplateInstallmentReminder EmailTemplateType = "installment_reminder"
)

// emailRetryDelays is the backoff after the 1st, 2nd and 3rd failed attempt.
// Its length plus one is the attempt budget of a job.
var emailRetryDelays = []time.Duration{time.Minute, 5 * time.Minute, 15 * time.Minute}

// EmailJob is one row of the outgoing email queue. TemplateData is the JSON
// object the template is rendered from.
type EmailJob struct {
	ID             uuid.UUID
	TemplateType   EmailTemplateType
	RecipientEmail string
	RecipientName  string
	Subject        string
	TemplateData   map[string]interface{}
	Status         EmailStatus
	Attempts       int
	MaxAttempts    int
	LastError      string
	ResendID       string
	CreatedAt      time.Time
	ScheduledAt    time.Time
	ProcessedAt    *time.Time
}

// NewEmailJob creates a pending job that is due immediately.
func NewEmailJob(templateType EmailTemplateType, recipientEmail, recipientName, subject string, data map[string]interface{}) *EmailJob {
	now := time.Now().UTC()
	return &EmailJob{
		ID:             uuid.New(),
		TemplateType:   templateType,
		RecipientEmail: recipientEmail,
		RecipientName:  recipientName,
		Subject:        subject,
		TemplateData:   data,
		Status:         EmailStatusPending,
		MaxAttempts:    len(emailRetryDelays) + 1,
		CreatedAt:      now,
		ScheduledAt:    now,
	}
}

// MarkProcessing claims the job for the current worker pass.
func (e *EmailJob) MarkProcessing() {
	e.Status = EmailStatusProcessing
}

// MarkSent records a successful delivery and the provider's message id.
func (e *EmailJob) MarkSent(resendID string) {
	now := time.Now().UTC()
	e.Status = EmailStatusSent
	e.ResendID = resendID
	e.ProcessedAt = &now
}

// MarkFailed counts a failed attempt. The job goes back to pending with a
// backoff unless the failure is permanent or the attempt budget is spent. It
// reports whether another attempt is scheduled.
func (e *EmailJob) MarkFailed(err error, permanent bool) bool {
	now := time.Now().UTC()
	e.Attempts++
	e.LastError = err.Error()

	if permanent || e.Attempts >= e.MaxAttempts {
		e.Status = EmailStatusFailed
		e.ProcessedAt = &now
		return false
	}

	delay := emailRetryDelays[len(emailRetryDelays)-1]
	if e.Attempts-1 < len(emailRetryDelays) {
		delay = emailRetryDelays[e.Attempts-1]
	}
	e.Status = EmailStatusPending
	e.ScheduledAt = now.Add(delay)
	return true
}
