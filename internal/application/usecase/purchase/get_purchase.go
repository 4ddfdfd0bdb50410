package purchase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/installment-tracker/backend/internal/application/adapter"
	"github.com/installment-tracker/backend/internal/domain/entity"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
)

// GetPurchaseInput represents the input for retrieving a purchase.
type GetPurchaseInput struct {
	PurchaseID uuid.UUID
	UserID     uuid.UUID
}

// GetPurchaseOutput represents the output of retrieving a purchase.
type GetPurchaseOutput struct {
	Purchase *entity.Purchase
}

// GetPurchaseUseCase handles retrieval of a single owned purchase.
type GetPurchaseUseCase struct {
	purchaseRepo adapter.PurchaseRepository
}

// NewGetPurchaseUseCase creates a new GetPurchaseUseCase instance.
func NewGetPurchaseUseCase(purchaseRepo adapter.PurchaseRepository) *GetPurchaseUseCase {
	return &GetPurchaseUseCase{
		purchaseRepo: purchaseRepo,
	}
}

// Execute retrieves the purchase.
func (uc *GetPurchaseUseCase) Execute(ctx context.Context, input GetPurchaseInput) (*GetPurchaseOutput, error) {
	purchase, err := findOwned(ctx, uc.purchaseRepo, input.PurchaseID, input.UserID)
	if err != nil {
		return nil, err
	}
	return &GetPurchaseOutput{Purchase: purchase}, nil
}

// findOwned loads a purchase and maps a miss to a coded not-found error.
func findOwned(ctx context.Context, repo adapter.PurchaseRepository, id, userID uuid.UUID) (*entity.Purchase, error) {
	purchase, err := repo.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, domainerror.ErrPurchaseNotFound) {
			return nil, domainerror.NewPurchaseError(
				domainerror.ErrCodePurchaseNotFound,
				"purchase not found",
				domainerror.ErrPurchaseNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find purchase: %w", err)
	}
	return purchase, nil
}
