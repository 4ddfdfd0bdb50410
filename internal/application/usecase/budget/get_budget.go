// Package budget contains budget-related use cases.
package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/installment-tracker/backend/internal/application/adapter"
	"github.com/installment-tracker/backend/internal/domain/entity"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
)

// GetBudgetInput represents the input for retrieving the current budget.
type GetBudgetInput struct {
	UserID uuid.UUID
}

// GetBudgetOutput represents the output of retrieving the current budget.
type GetBudgetOutput struct {
	Budget *entity.Budget
	IsSet  bool
}

// GetBudgetUseCase returns the user's current budget. A user without a budget
// gets a zero budget.
type GetBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
}

// NewGetBudgetUseCase creates a new GetBudgetUseCase instance.
func NewGetBudgetUseCase(budgetRepo adapter.BudgetRepository) *GetBudgetUseCase {
	return &GetBudgetUseCase{
		budgetRepo: budgetRepo,
	}
}

// Execute retrieves the budget.
func (uc *GetBudgetUseCase) Execute(ctx context.Context, input GetBudgetInput) (*GetBudgetOutput, error) {
	budget, err := uc.budgetRepo.FindCurrent(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return &GetBudgetOutput{
				Budget: &entity.Budget{UserID: input.UserID, TotalBudget: decimal.Zero},
			}, nil
		}
		return nil, fmt.Errorf("failed to find budget: %w", err)
	}
	return &GetBudgetOutput{Budget: budget, IsSet: true}, nil
}
