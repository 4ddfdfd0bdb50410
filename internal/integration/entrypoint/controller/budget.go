package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/installment-tracker/backend/internal/application/usecase/budget"
	"github.com/installment-tracker/backend/internal/application/usecase/summary"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
	"github.com/installment-tracker/backend/internal/integration/entrypoint/dto"
)

// BudgetController handles the budget and summary endpoints.
type BudgetController struct {
	getUseCase     *budget.GetBudgetUseCase
	updateUseCase  *budget.UpdateBudgetUseCase
	summaryUseCase *summary.GetSummaryUseCase
}

// NewBudgetController creates a new budget controller instance.
func NewBudgetController(
	getUseCase *budget.GetBudgetUseCase,
	updateUseCase *budget.UpdateBudgetUseCase,
	summaryUseCase *summary.GetSummaryUseCase,
) *BudgetController {
	return &BudgetController{
		getUseCase:     getUseCase,
		updateUseCase:  updateUseCase,
		summaryUseCase: summaryUseCase,
	}
}

// Get handles GET /budget requests.
func (c *BudgetController) Get(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), budget.GetBudgetInput{UserID: userID})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetResponse(output.Budget, output.IsSet))
}

// Update handles PUT /budget requests.
func (c *BudgetController) Update(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateBudgetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeInvalidBudgetAmount),
			Details: err.Error(),
		})
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), budget.UpdateBudgetInput{
		UserID:      userID,
		TotalBudget: req.TotalBudget,
		Description: req.Description,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetResponse(output.Budget, true))
}

// Summary handles GET /summary requests.
func (c *BudgetController) Summary(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.summaryUseCase.Execute(ctx.Request.Context(), summary.GetSummaryInput{UserID: userID})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSummaryResponse(output))
}
