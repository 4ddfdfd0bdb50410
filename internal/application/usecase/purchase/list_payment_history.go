package purchase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/installment-tracker/backend/internal/application/adapter"
	"github.com/installment-tracker/backend/internal/domain/entity"
)

// ListPaymentHistoryInput represents the input for listing payments of a purchase.
type ListPaymentHistoryInput struct {
	PurchaseID uuid.UUID
	UserID     uuid.UUID
}

// ListPaymentHistoryOutput represents the output of listing payments.
type ListPaymentHistoryOutput struct {
	Payments []*entity.PaymentHistory
}

// ListPaymentHistoryUseCase lists the payment history of an owned purchase.
type ListPaymentHistoryUseCase struct {
	purchaseRepo adapter.PurchaseRepository
}

// NewListPaymentHistoryUseCase creates a new ListPaymentHistoryUseCase instance.
func NewListPaymentHistoryUseCase(purchaseRepo adapter.PurchaseRepository) *ListPaymentHistoryUseCase {
	return &ListPaymentHistoryUseCase{
		purchaseRepo: purchaseRepo,
	}
}

// Execute returns the history, most recent payment first.
func (uc *ListPaymentHistoryUseCase) Execute(ctx context.Context, input ListPaymentHistoryInput) (*ListPaymentHistoryOutput, error) {
	if _, err := findOwned(ctx, uc.purchaseRepo, input.PurchaseID, input.UserID); err != nil {
		return nil, err
	}

	payments, err := uc.purchaseRepo.ListHistory(ctx, input.PurchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment history: %w", err)
	}

	return &ListPaymentHistoryOutput{Payments: payments}, nil
}
