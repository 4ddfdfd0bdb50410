package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/installment-tracker/backend/internal/application/adapter"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
)

const (
	minYear = 1970
	maxYear = 9999
)

// GetCalendarInput represents the input for a monthly calendar query.
type GetCalendarInput struct {
	UserID uuid.UUID
	Year   int
	Month  int
}

// GetCalendarOutput represents the projected month.
type GetCalendarOutput struct {
	Year     int
	Month    int
	Payments []PaymentEvent
	Summary  Summary
}

// GetCalendarUseCase projects all purchases of a user onto one month.
type GetCalendarUseCase struct {
	purchaseRepo adapter.PurchaseRepository
	now          func() time.Time
}

// NewGetCalendarUseCase creates a new GetCalendarUseCase instance.
func NewGetCalendarUseCase(purchaseRepo adapter.PurchaseRepository) *GetCalendarUseCase {
	return &GetCalendarUseCase{
		purchaseRepo: purchaseRepo,
		now:          time.Now,
	}
}

// Execute validates the period and projects the month.
func (uc *GetCalendarUseCase) Execute(ctx context.Context, input GetCalendarInput) (*GetCalendarOutput, error) {
	if err := ValidatePeriod(input.Year, input.Month); err != nil {
		return nil, err
	}

	purchases, err := uc.purchaseRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}

	payments, summary := ProjectMonth(purchases, input.Year, time.Month(input.Month), uc.now())

	return &GetCalendarOutput{
		Year:     input.Year,
		Month:    input.Month,
		Payments: payments,
		Summary:  summary,
	}, nil
}

// ValidatePeriod checks that year and month name a real calendar month.
func ValidatePeriod(year, month int) error {
	if year < minYear || year > maxYear {
		return domainerror.NewCalendarError(
			domainerror.ErrCodeInvalidYear,
			fmt.Sprintf("year must be between %d and %d", minYear, maxYear),
			domainerror.ErrInvalidCalendarPeriod,
		)
	}
	if month < 1 || month > 12 {
		return domainerror.NewCalendarError(
			domainerror.ErrCodeInvalidMonth,
			"month must be between 1 and 12",
			domainerror.ErrInvalidCalendarPeriod,
		)
	}
	return nil
}
