// Package summary aggregates a user's purchases against their budget.
package summary

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/installment-tracker/backend/internal/application/adapter"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
)

// GetSummaryInput represents the input for the overall summary.
type GetSummaryInput struct {
	UserID uuid.UUID
}

// GetSummaryOutput holds totals across every purchase of a user.
// UsedBudget is the sum of purchase principals.
type GetSummaryOutput struct {
	TotalMonthlyPayment decimal.Decimal
	TotalRemaining      decimal.Decimal
	TotalPaid           decimal.Decimal
	TotalPurchases      int
	TotalBudget         decimal.Decimal
	UsedBudget          decimal.Decimal
	RemainingBudget     decimal.Decimal
}

// GetSummaryUseCase computes the overall summary.
type GetSummaryUseCase struct {
	purchaseRepo adapter.PurchaseRepository
	budgetRepo   adapter.BudgetRepository
}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance.
func NewGetSummaryUseCase(purchaseRepo adapter.PurchaseRepository, budgetRepo adapter.BudgetRepository) *GetSummaryUseCase {
	return &GetSummaryUseCase{
		purchaseRepo: purchaseRepo,
		budgetRepo:   budgetRepo,
	}
}

// Execute computes the summary.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input GetSummaryInput) (*GetSummaryOutput, error) {
	purchases, err := uc.purchaseRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}

	out := &GetSummaryOutput{
		TotalMonthlyPayment: decimal.Zero,
		TotalRemaining:      decimal.Zero,
		TotalPaid:           decimal.Zero,
		TotalPurchases:      len(purchases),
		TotalBudget:         decimal.Zero,
		UsedBudget:          decimal.Zero,
	}

	for _, p := range purchases {
		out.TotalMonthlyPayment = out.TotalMonthlyPayment.Add(p.MonthlyPayment)
		out.TotalRemaining = out.TotalRemaining.Add(p.RemainingBalance)
		out.TotalPaid = out.TotalPaid.Add(p.TotalPaid)
		out.UsedBudget = out.UsedBudget.Add(p.Amount)
	}

	budget, err := uc.budgetRepo.FindCurrent(ctx, input.UserID)
	switch {
	case err == nil:
		out.TotalBudget = budget.TotalBudget
	case errors.Is(err, domainerror.ErrBudgetNotFound):
	default:
		return nil, fmt.Errorf("failed to find budget: %w", err)
	}

	out.RemainingBudget = out.TotalBudget.Sub(out.UsedBudget)

	return out, nil
}
