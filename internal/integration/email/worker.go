package email

import (
	"context"
	"log/slog"
	"time"

	"github.com/installment-tracker/backend/internal/application/adapter"
	"github.com/installment-tracker/backend/internal/domain/entity"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
	"github.com/installment-tracker/backend/internal/integration/email/templates"
)

// templateData returns an empty value to decode a job's stored fields into,
// one per template the worker can render.
var templateData = map[entity.EmailTemplateType]func() any{
	entity.TemplatePasswordReset:       func() any { return &templates.PasswordResetData{} },
	entity.TemplateInstallmentReminder: func() any { return &templates.InstallmentReminderData{} },
}

// WorkerConfig holds configuration for the email worker. Zero values select
// the defaults.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    10,
	}
}

// Worker drains the email queue: it renders each due job and hands it to the
// sender. Temporary failures go back to the queue with a backoff.
type Worker struct {
	queue    adapter.EmailQueueRepository
	sender   adapter.EmailSender
	renderer *templates.Renderer
	config   WorkerConfig
}

// BatchResult counts the outcome of one pass over the queue.
type BatchResult struct {
	Sent    int
	Retried int
	Failed  int
}

// NewWorker creates a new email worker.
func NewWorker(queue adapter.EmailQueueRepository, sender adapter.EmailSender, renderer *templates.Renderer, config WorkerConfig) *Worker {
	defaults := DefaultWorkerConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	return &Worker{
		queue:    queue,
		sender:   sender,
		renderer: renderer,
		config:   config,
	}
}

// Start polls the queue until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Email worker started",
		"pollInterval", w.config.PollInterval,
		"batchSize", w.config.BatchSize,
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		w.ProcessNow(ctx)

		select {
		case <-ctx.Done():
			slog.Info("Email worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// ProcessNow runs one pass over the due jobs, at most one batch.
func (w *Worker) ProcessNow(ctx context.Context) BatchResult {
	var result BatchResult

	jobs, err := w.queue.GetPendingJobs(ctx, w.config.BatchSize)
	if err != nil {
		slog.Error("Failed to load pending email jobs", "error", err)
		return result
	}

	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		switch w.deliver(ctx, job) {
		case entity.EmailStatusSent:
			result.Sent++
		case entity.EmailStatusPending:
			result.Retried++
		case entity.EmailStatusFailed:
			result.Failed++
		}
	}

	if len(jobs) > 0 {
		slog.Debug("Email batch processed",
			"sent", result.Sent,
			"retried", result.Retried,
			"failed", result.Failed,
		)
	}
	return result
}

// deliver moves one job to its next state and returns that state.
func (w *Worker) deliver(ctx context.Context, job *entity.EmailJob) entity.EmailStatus {
	logger := slog.With("jobID", job.ID, "template", job.TemplateType)

	job.MarkProcessing()
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to claim email job", "error", err)
		return job.Status
	}

	html, text, err := w.render(job)
	if err == nil {
		var sent *adapter.SentEmail
		sent, err = w.sender.Send(ctx, adapter.OutgoingEmail{
			To:      job.RecipientEmail,
			Name:    job.RecipientName,
			Subject: job.Subject,
			HTML:    html,
			Text:    text,
		})
		if err == nil {
			job.MarkSent(sent.ResendID)
		}
	}

	if err != nil {
		if job.MarkFailed(err, domainerror.IsPermanentEmailFailure(err)) {
			logger.Warn("Email delivery failed, will retry",
				"error", err,
				"attempts", job.Attempts,
				"nextAttempt", job.ScheduledAt,
			)
		} else {
			logger.Error("Email delivery failed permanently", "error", err, "attempts", job.Attempts)
		}
	}

	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to save email job", "error", err, "status", job.Status)
	}
	if job.Status == entity.EmailStatusSent {
		logger.Info("Email sent", "resendID", job.ResendID)
	}
	return job.Status
}

func (w *Worker) render(job *entity.EmailJob) (string, string, error) {
	newData, ok := templateData[job.TemplateType]
	if !ok {
		return "", "", domainerror.NewEmailError(
			domainerror.ErrCodeInvalidTemplate,
			"unknown template "+string(job.TemplateType),
			domainerror.ErrInvalidTemplate,
		)
	}

	data := newData()
	if err := fromTemplateFields(job.TemplateData, data); err != nil {
		return "", "", domainerror.NewEmailError(domainerror.ErrCodeTemplateRenderFailed, "invalid template data", err)
	}

	html, text, err := w.renderer.Render(string(job.TemplateType), data)
	if err != nil {
		return "", "", domainerror.NewEmailError(domainerror.ErrCodeTemplateRenderFailed, "failed to render email", err)
	}
	return html, text, nil
}
