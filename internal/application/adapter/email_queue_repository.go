package adapter

import (
	"context"
	"time"

	"github.com/installment-tracker/backend/internal/domain/entity"
)

// EmailQueueRepository persists the outgoing email queue. The email
// service writes it and the email worker drains it.
type EmailQueueRepository interface {
	// Create adds a new email job to the queue.
	Create(ctx context.Context, job *entity.EmailJob) error

	// GetPendingJobs retrieves jobs ready to be processed, ordered by scheduled_at.
	GetPendingJobs(ctx context.Context, limit int) ([]*entity.EmailJob, error)

	// Update saves changes to an email job.
	Update(ctx context.Context, job *entity.EmailJob) error

	// HasJobSince reports whether a job of the given template was queued for the
	// recipient at or after since. The reminder job uses it to send at most one
	// digest per day.
	HasJobSince(ctx context.Context, email string, template entity.EmailTemplateType, since time.Time) (bool, error)

	// DeleteOldSentJobs removes sent jobs processed more than olderThanDays ago.
	DeleteOldSentJobs(ctx context.Context, olderThanDays int) (int64, error)
}
