// Package reminder emails users about installments that are due soon or overdue.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/installment-tracker/backend/internal/application/adapter"
	"github.com/installment-tracker/backend/internal/application/usecase/calendar"
	"github.com/installment-tracker/backend/internal/domain/entity"
)

// SendRemindersOutput reports one run of the reminder job.
type SendRemindersOutput struct {
	UsersNotified int
	UsersSkipped  int
	UsersFailed   int
}

// SendRemindersUseCase queues at most one reminder digest per user per day,
// listing every unpaid installment that is overdue or due within the lookahead.
type SendRemindersUseCase struct {
	userRepo     adapter.UserRepository
	purchaseRepo adapter.PurchaseRepository
	emailQueue   adapter.EmailQueueRepository
	emailService adapter.EmailService
	daysAhead    int
	appBaseURL   string
	now          func() time.Time
}

// NewSendRemindersUseCase creates a new SendRemindersUseCase instance.
func NewSendRemindersUseCase(
	userRepo adapter.UserRepository,
	purchaseRepo adapter.PurchaseRepository,
	emailQueue adapter.EmailQueueRepository,
	emailService adapter.EmailService,
	daysAhead int,
	appBaseURL string,
) *SendRemindersUseCase {
	return &SendRemindersUseCase{
		userRepo:     userRepo,
		purchaseRepo: purchaseRepo,
		emailQueue:   emailQueue,
		emailService: emailService,
		daysAhead:    daysAhead,
		appBaseURL:   appBaseURL,
		now:          time.Now,
	}
}

// Execute runs the job for every user that opted in. A failure for one user
// is logged and does not stop the others.
func (uc *SendRemindersUseCase) Execute(ctx context.Context) (*SendRemindersOutput, error) {
	users, err := uc.userRepo.FindReminderRecipients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminder recipients: %w", err)
	}

	now := uc.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	horizon := startOfDay.AddDate(0, 0, uc.daysAhead+1)

	out := &SendRemindersOutput{}
	for _, user := range users {
		notified, err := uc.remindUser(ctx, user, now, startOfDay, horizon)
		switch {
		case err != nil:
			out.UsersFailed++
			slog.Error("Failed to queue installment reminder", "error", err, "userID", user.ID)
		case notified:
			out.UsersNotified++
		default:
			out.UsersSkipped++
		}
	}

	slog.Info("Installment reminders processed",
		"notified", out.UsersNotified,
		"skipped", out.UsersSkipped,
		"failed", out.UsersFailed,
	)

	return out, nil
}

func (uc *SendRemindersUseCase) remindUser(ctx context.Context, user *entity.User, now, startOfDay, horizon time.Time) (bool, error) {
	sent, err := uc.emailQueue.HasJobSince(ctx, user.Email, entity.TemplateInstallmentReminder, startOfDay)
	if err != nil {
		return false, fmt.Errorf("failed to check previous reminders: %w", err)
	}
	if sent {
		return false, nil
	}

	purchases, err := uc.purchaseRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		return false, fmt.Errorf("failed to list purchases: %w", err)
	}

	events := DueEvents(purchases, now, horizon)
	if len(events) == 0 {
		return false, nil
	}

	total := decimal.Zero
	overdue := 0
	items := make([]adapter.ReminderItem, 0, len(events))
	for _, e := range events {
		total = total.Add(e.Amount)
		if e.IsOverdue {
			overdue++
		}
		items = append(items, adapter.ReminderItem{
			Description:       e.Description,
			CardName:          e.CardName,
			InstallmentNumber: e.InstallmentNumber,
			TotalInstallments: e.TotalInstallments,
			Amount:            e.Amount.StringFixed(2),
			DueDate:           e.DueDate.Format(time.DateOnly),
			Overdue:           e.IsOverdue,
		})
	}

	err = uc.emailService.QueueInstallmentReminderEmail(ctx, adapter.QueueInstallmentReminderInput{
		UserEmail:    user.Email,
		UserName:     user.Name,
		Items:        items,
		TotalDue:     total.StringFixed(2),
		OverdueCount: overdue,
		CalendarURL:  fmt.Sprintf("%s/calendar?year=%d&month=%d", uc.appBaseURL, now.Year(), int(now.Month())),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// DueEvents returns the unpaid installments due before horizon, oldest first.
// It walks the calendar month by month from the oldest unpaid installment so
// that paid/overdue classification matches the monthly calendar exactly.
// Purchases with no remaining balance are never reminded about.
func DueEvents(purchases []*entity.Purchase, now, horizon time.Time) []calendar.PaymentEvent {
	open := make([]*entity.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if !p.IsPaidOff() {
			open = append(open, p)
		}
	}
	purchases = open

	var earliest time.Time
	for _, p := range purchases {
		if p.InstallmentsPaid >= p.Installments {
			continue
		}
		due := p.DueDate(p.InstallmentsPaid + 1)
		if earliest.IsZero() || due.Before(earliest) {
			earliest = due
		}
	}
	if earliest.IsZero() || !earliest.Before(horizon) {
		return nil
	}

	events := []calendar.PaymentEvent{}
	month := time.Date(earliest.Year(), earliest.Month(), 1, 0, 0, 0, 0, time.UTC)
	for month.Before(horizon) {
		monthEvents, _ := calendar.ProjectMonth(purchases, month.Year(), month.Month(), now)
		for _, e := range monthEvents {
			if !e.IsPaid && e.DueDate.Before(horizon) {
				events = append(events, e)
			}
		}
		month = month.AddDate(0, 1, 0)
	}
	return events
}
