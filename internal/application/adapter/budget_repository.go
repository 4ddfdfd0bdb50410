package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/installment-tracker/backend/internal/domain/entity"
)

// BudgetRepository defines the interface for budget persistence operations.
type BudgetRepository interface {
	// FindCurrent returns the most recent budget of a user.
	FindCurrent(ctx context.Context, userID uuid.UUID) (*entity.Budget, error)

	// Replace deletes every budget of the owner and inserts the given one.
	Replace(ctx context.Context, budget *entity.Budget) error
}
