package purchase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/installment-tracker/backend/internal/application/adapter"
	"github.com/installment-tracker/backend/internal/domain/entity"
)

// CreatePurchaseInput represents the input for purchase creation.
type CreatePurchaseInput struct {
	UserID    uuid.UUID
	StartDate time.Time // Zero means today
	Terms
}

// CreatePurchaseOutput represents the output of purchase creation.
type CreatePurchaseOutput struct {
	Purchase *entity.Purchase
}

// CreatePurchaseUseCase handles purchase creation logic.
type CreatePurchaseUseCase struct {
	purchaseRepo adapter.PurchaseRepository
}

// NewCreatePurchaseUseCase creates a new CreatePurchaseUseCase instance.
func NewCreatePurchaseUseCase(purchaseRepo adapter.PurchaseRepository) *CreatePurchaseUseCase {
	return &CreatePurchaseUseCase{
		purchaseRepo: purchaseRepo,
	}
}

// Execute validates the terms, derives the schedule fields and stores the purchase.
func (uc *CreatePurchaseUseCase) Execute(ctx context.Context, input CreatePurchaseInput) (*CreatePurchaseOutput, error) {
	if err := validateTerms(input.Terms); err != nil {
		return nil, err
	}

	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = today()
	}

	purchase := entity.NewPurchase(
		input.UserID,
		input.Description,
		input.Category,
		input.CardName,
		input.Amount,
		input.Installments,
		input.InterestRate,
		startDate,
		input.BillingCycleDay,
		input.PaymentDueDay,
	)

	if err := uc.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	slog.Info("Purchase created",
		"purchaseID", purchase.ID,
		"userID", input.UserID,
		"installments", purchase.Installments,
		"endDate", purchase.EndDate.Format(time.DateOnly),
	)

	return &CreatePurchaseOutput{Purchase: purchase}, nil
}

// today returns the current UTC date at midnight.
func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
