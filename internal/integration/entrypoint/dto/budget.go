package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/installment-tracker/backend/internal/application/usecase/summary"
	"github.com/installment-tracker/backend/internal/domain/entity"
)

// UpdateBudgetRequest represents the request body for setting the budget.
type UpdateBudgetRequest struct {
	TotalBudget decimal.Decimal `json:"totalBudget"`
	Description string          `json:"description"`
}

// BudgetResponse represents the budget in API responses.
type BudgetResponse struct {
	ID          *string    `json:"id,omitempty"`
	TotalBudget string     `json:"totalBudget"`
	Description string     `json:"description"`
	IsSet       bool       `json:"isSet"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// SummaryResponse represents the overall spending summary.
type SummaryResponse struct {
	TotalMonthlyPayment string `json:"totalMonthlyPayment"`
	TotalRemaining      string `json:"totalRemaining"`
	TotalPaid           string `json:"totalPaid"`
	TotalPurchases      int    `json:"totalPurchases"`
	TotalBudget         string `json:"totalBudget"`
	UsedBudget          string `json:"usedBudget"`
	RemainingBudget     string `json:"remainingBudget"`
}

// ToBudgetResponse converts a domain Budget entity to a DTO. An unset budget
// has no id or creation time.
func ToBudgetResponse(budget *entity.Budget, isSet bool) BudgetResponse {
	resp := BudgetResponse{
		TotalBudget: budget.TotalBudget.StringFixed(2),
		Description: budget.Description,
		IsSet:       isSet,
	}
	if isSet {
		id := budget.ID.String()
		createdAt := budget.CreatedAt
		resp.ID = &id
		resp.CreatedAt = &createdAt
	}
	return resp
}

// ToSummaryResponse converts a summary output to a DTO.
func ToSummaryResponse(output *summary.GetSummaryOutput) SummaryResponse {
	return SummaryResponse{
		TotalMonthlyPayment: output.TotalMonthlyPayment.StringFixed(2),
		TotalRemaining:      output.TotalRemaining.StringFixed(2),
		TotalPaid:           output.TotalPaid.StringFixed(2),
		TotalPurchases:      output.TotalPurchases,
		TotalBudget:         output.TotalBudget.StringFixed(2),
		UsedBudget:          output.UsedBudget.StringFixed(2),
		RemainingBudget:     output.RemainingBudget.StringFixed(2),
	}
}
