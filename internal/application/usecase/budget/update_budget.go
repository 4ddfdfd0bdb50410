package budget

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/installment-tracker/backend/internal/application/adapter"
	"github.com/installment-tracker/backend/internal/domain/entity"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
)

// MaxDescriptionLength is the maximum allowed length for budget descriptions.
const MaxDescriptionLength = 255

// UpdateBudgetInput represents the input for setting the budget.
type UpdateBudgetInput struct {
	UserID      uuid.UUID
	TotalBudget decimal.Decimal
	Description string
}

// UpdateBudgetOutput represents the output of setting the budget.
type UpdateBudgetOutput struct {
	Budget *entity.Budget
}

// UpdateBudgetUseCase replaces the user's budget. Previous budgets are not kept.
type UpdateBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
}

// NewUpdateBudgetUseCase creates a new UpdateBudgetUseCase instance.
func NewUpdateBudgetUseCase(budgetRepo adapter.BudgetRepository) *UpdateBudgetUseCase {
	return &UpdateBudgetUseCase{
		budgetRepo: budgetRepo,
	}
}

// Execute validates and stores the new budget.
func (uc *UpdateBudgetUseCase) Execute(ctx context.Context, input UpdateBudgetInput) (*UpdateBudgetOutput, error) {
	if input.TotalBudget.IsNegative() {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetAmount,
			"total budget cannot be negative",
			domainerror.ErrInvalidBudgetAmount,
		)
	}
	if len(input.Description) > MaxDescriptionLength {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeBudgetDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			nil,
		)
	}

	budget := entity.NewBudget(input.UserID, input.TotalBudget, input.Description)

	if err := uc.budgetRepo.Replace(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to replace budget: %w", err)
	}

	slog.Info("Budget updated", "userID", input.UserID, "totalBudget", input.TotalBudget.StringFixed(2))

	return &UpdateBudgetOutput{Budget: budget}, nil
}
