package purchase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/installment-tracker/backend/internal/application/adapter"
	"github.com/installment-tracker/backend/internal/domain/entity"
)

// ListPurchasesInput represents the input for listing purchases.
type ListPurchasesInput struct {
	UserID uuid.UUID
}

// ListPurchasesOutput represents the output of listing purchases.
type ListPurchasesOutput struct {
	Purchases []*entity.Purchase
}

// ListPurchasesUseCase handles listing of a user's purchases.
type ListPurchasesUseCase struct {
	purchaseRepo adapter.PurchaseRepository
}

// NewListPurchasesUseCase creates a new ListPurchasesUseCase instance.
func NewListPurchasesUseCase(purchaseRepo adapter.PurchaseRepository) *ListPurchasesUseCase {
	return &ListPurchasesUseCase{
		purchaseRepo: purchaseRepo,
	}
}

// Execute lists purchases ordered by start date, newest first.
func (uc *ListPurchasesUseCase) Execute(ctx context.Context, input ListPurchasesInput) (*ListPurchasesOutput, error) {
	purchases, err := uc.purchaseRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return &ListPurchasesOutput{Purchases: purchases}, nil
}
