// Package adapter declares the ports the use cases depend on. Implementations
// live under internal/integration.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/installment-tracker/backend/internal/domain/entity"
)

// PurchaseRepository defines the interface for purchase persistence operations.
// Every lookup is scoped by owner: a purchase of another user is reported as
// domainerror.ErrPurchaseNotFound.
type PurchaseRepository interface {
	// Create inserts a new purchase.
	Create(ctx context.Context, purchase *entity.Purchase) error

	// FindByID retrieves a purchase owned by userID.
	FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Purchase, error)

	// FindByUserID lists all purchases of a user, newest start date first.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Purchase, error)

	// Update persists the mutable fields of a purchase.
	Update(ctx context.Context, purchase *entity.Purchase) error

	// Delete removes a purchase owned by userID together with its payment history.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// SavePayment persists the updated purchase totals and appends the history
	// entry in a single transaction.
	SavePayment(ctx context.Context, purchase *entity.Purchase, entry *entity.PaymentHistory) error

	// ListHistory returns the payment history of a purchase, most recent first.
	ListHistory(ctx context.Context, purchaseID uuid.UUID) ([]*entity.PaymentHistory, error)
}
