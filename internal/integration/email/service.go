// Package email queues, renders and delivers the service's emails.
package email

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/installment-tracker/backend/internal/application/adapter"
	"github.com/installment-tracker/backend/internal/domain/entity"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
	"github.com/installment-tracker/backend/internal/integration/email/templates"
)

const subjectSuffix = " - Installment Tracker"

// Service turns email requests into queue rows. Delivery happens later in
// the Worker.
type Service struct {
	queue adapter.EmailQueueRepository
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository) *Service {
	return &Service{queue: queue}
}

var _ adapter.EmailService = (*Service)(nil)

// QueuePasswordResetEmail queues a password reset email.
func (s *Service) QueuePasswordResetEmail(ctx context.Context, input adapter.QueuePasswordResetInput) error {
	return s.enqueue(ctx, entity.TemplatePasswordReset, input.UserEmail, input.UserName,
		"Reset your password"+subjectSuffix,
		templates.PasswordResetData{
			UserName:  input.UserName,
			ResetURL:  input.ResetURL,
			ExpiresIn: input.ExpiresIn,
		},
	)
}

// QueueInstallmentReminderEmail queues a digest of due and overdue
// installments. The subject leads with the overdue count when there is one.
func (s *Service) QueueInstallmentReminderEmail(ctx context.Context, input adapter.QueueInstallmentReminderInput) error {
	lines := make([]templates.ReminderLine, len(input.Items))
	for i, item := range input.Items {
		lines[i] = templates.ReminderLine(item)
	}

	subject := fmt.Sprintf("%d installment(s) due soon", len(input.Items))
	if input.OverdueCount > 0 {
		subject = fmt.Sprintf("%d overdue installment(s)", input.OverdueCount)
	}

	return s.enqueue(ctx, entity.TemplateInstallmentReminder, input.UserEmail, input.UserName,
		subject+subjectSuffix,
		templates.InstallmentReminderData{
			UserName:     input.UserName,
			Items:        lines,
			TotalDue:     input.TotalDue,
			OverdueCount: input.OverdueCount,
			CalendarURL:  input.CalendarURL,
		},
	)
}

func (s *Service) enqueue(ctx context.Context, template entity.EmailTemplateType, to, name, subject string, data any) error {
	fields, err := toTemplateFields(data)
	if err != nil {
		return domainerror.NewEmailError(domainerror.ErrCodeEmailQueueFailed, "failed to encode "+string(template)+" data", err)
	}

	if err := s.queue.Create(ctx, entity.NewEmailJob(template, to, name, subject, fields)); err != nil {
		return domainerror.NewEmailError(domainerror.ErrCodeEmailQueueFailed, "failed to queue "+string(template)+" email", err)
	}
	return nil
}

// toTemplateFields flattens typed template data into the JSON object stored
// on the job. fromTemplateFields is its inverse.
func toTemplateFields(data any) (map[string]interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func fromTemplateFields(fields map[string]interface{}, target any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}
