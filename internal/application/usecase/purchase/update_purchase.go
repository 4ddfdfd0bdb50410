package purchase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/installment-tracker/backend/internal/application/adapter"
	"github.com/installment-tracker/backend/internal/domain/entity"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
)

// UpdatePurchaseInput represents the input for replacing a purchase's editable fields.
type UpdatePurchaseInput struct {
	PurchaseID uuid.UUID
	UserID     uuid.UUID
	StartDate  time.Time // Zero keeps the stored date
	Terms

	// Direct overrides of the ledger totals. Nil keeps the stored value.
	TotalPaid        *decimal.Decimal
	InstallmentsPaid *int
}

// UpdatePurchaseOutput represents the output of purchase update.
type UpdatePurchaseOutput struct {
	Purchase *entity.Purchase
}

// UpdatePurchaseUseCase handles purchase update logic.
type UpdatePurchaseUseCase struct {
	purchaseRepo adapter.PurchaseRepository
}

// NewUpdatePurchaseUseCase creates a new UpdatePurchaseUseCase instance.
func NewUpdatePurchaseUseCase(purchaseRepo adapter.PurchaseRepository) *UpdatePurchaseUseCase {
	return &UpdatePurchaseUseCase{
		purchaseRepo: purchaseRepo,
	}
}

// Execute applies the new terms and recomputes the monthly payment, payoff date
// and remaining balance.
func (uc *UpdatePurchaseUseCase) Execute(ctx context.Context, input UpdatePurchaseInput) (*UpdatePurchaseOutput, error) {
	if err := validateTerms(input.Terms); err != nil {
		return nil, err
	}

	if input.TotalPaid != nil && input.TotalPaid.IsNegative() {
		return nil, domainerror.NewPurchaseError(
			domainerror.ErrCodeInvalidTotalPaid,
			"total paid cannot be negative",
			domainerror.ErrInvalidTotalPaid,
		)
	}
	if input.InstallmentsPaid != nil && *input.InstallmentsPaid < 0 {
		return nil, domainerror.NewPurchaseError(
			domainerror.ErrCodeInvalidInstallments,
			"installments paid cannot be negative",
			domainerror.ErrInvalidInstallments,
		)
	}

	purchase, err := findOwned(ctx, uc.purchaseRepo, input.PurchaseID, input.UserID)
	if err != nil {
		return nil, err
	}

	purchase.Description = input.Description
	purchase.Category = input.Category
	if purchase.Category == "" {
		purchase.Category = entity.DefaultCategory
	}
	purchase.CardName = input.CardName
	purchase.Amount = input.Amount
	purchase.Installments = input.Installments
	purchase.InterestRate = input.InterestRate
	purchase.BillingCycleDay = input.BillingCycleDay
	purchase.PaymentDueDay = input.PaymentDueDay
	if !input.StartDate.IsZero() {
		purchase.StartDate = input.StartDate
	}
	if input.TotalPaid != nil {
		purchase.TotalPaid = *input.TotalPaid
	}
	if input.InstallmentsPaid != nil {
		purchase.InstallmentsPaid = *input.InstallmentsPaid
	}
	purchase.UpdatedAt = time.Now().UTC()

	purchase.Recalculate()

	if err := uc.purchaseRepo.Update(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to update purchase: %w", err)
	}

	slog.Info("Purchase updated", "purchaseID", purchase.ID, "userID", input.UserID)

	return &UpdatePurchaseOutput{Purchase: purchase}, nil
}
