package purchase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/installment-tracker/backend/internal/application/adapter"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
)

// DeletePurchaseInput represents the input for purchase deletion.
type DeletePurchaseInput struct {
	PurchaseID uuid.UUID
	UserID     uuid.UUID
}

// DeletePurchaseUseCase handles purchase deletion. Payment history goes with it.
type DeletePurchaseUseCase struct {
	purchaseRepo adapter.PurchaseRepository
}

// NewDeletePurchaseUseCase creates a new DeletePurchaseUseCase instance.
func NewDeletePurchaseUseCase(purchaseRepo adapter.PurchaseRepository) *DeletePurchaseUseCase {
	return &DeletePurchaseUseCase{
		purchaseRepo: purchaseRepo,
	}
}

// Execute performs the deletion.
func (uc *DeletePurchaseUseCase) Execute(ctx context.Context, input DeletePurchaseInput) error {
	if err := uc.purchaseRepo.Delete(ctx, input.PurchaseID, input.UserID); err != nil {
		if errors.Is(err, domainerror.ErrPurchaseNotFound) {
			return domainerror.NewPurchaseError(
				domainerror.ErrCodePurchaseNotFound,
				"purchase not found",
				domainerror.ErrPurchaseNotFound,
			)
		}
		return fmt.Errorf("failed to delete purchase: %w", err)
	}

	slog.Info("Purchase deleted", "purchaseID", input.PurchaseID, "userID", input.UserID)
	return nil
}
