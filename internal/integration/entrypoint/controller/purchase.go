package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/installment-tracker/backend/internal/application/usecase/purchase"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
	"github.com/installment-tracker/backend/internal/integration/entrypoint/dto"
)

// PurchaseController handles purchase endpoints.
type PurchaseController struct {
	listUseCase    *purchase.ListPurchasesUseCase
	createUseCase  *purchase.CreatePurchaseUseCase
	getUseCase     *purchase.GetPurchaseUseCase
	updateUseCase  *purchase.UpdatePurchaseUseCase
	deleteUseCase  *purchase.DeletePurchaseUseCase
	historyUseCase *purchase.ListPaymentHistoryUseCase
}

// NewPurchaseController creates a new purchase controller instance.
func NewPurchaseController(
	listUseCase *purchase.ListPurchasesUseCase,
	createUseCase *purchase.CreatePurchaseUseCase,
	getUseCase *purchase.GetPurchaseUseCase,
	updateUseCase *purchase.UpdatePurchaseUseCase,
	deleteUseCase *purchase.DeletePurchaseUseCase,
	historyUseCase *purchase.ListPaymentHistoryUseCase,
) *PurchaseController {
	return &PurchaseController{
		listUseCase:    listUseCase,
		createUseCase:  createUseCase,
		getUseCase:     getUseCase,
		updateUseCase:  updateUseCase,
		deleteUseCase:  deleteUseCase,
		historyUseCase: historyUseCase,
	}
}

// List handles GET /purchases requests.
func (c *PurchaseController) List(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), purchase.ListPurchasesInput{UserID: userID})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPurchaseListResponse(output.Purchases))
}

// Create handles POST /purchases requests.
func (c *PurchaseController) Create(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreatePurchaseRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeMissingPurchaseFields)) {
		return
	}

	startDate, ok := parseStartDate(ctx, req.StartDate)
	if !ok {
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), purchase.CreatePurchaseInput{
		UserID:    userID,
		StartDate: startDate,
		Terms:     toTerms(req),
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToPurchaseResponse(output.Purchase))
}

// Get handles GET /purchases/:id requests.
func (c *PurchaseController) Get(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	purchaseID, ok := parsePurchaseID(ctx)
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), purchase.GetPurchaseInput{
		PurchaseID: purchaseID,
		UserID:     userID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPurchaseResponse(output.Purchase))
}

// Update handles PUT /purchases/:id requests.
func (c *PurchaseController) Update(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	purchaseID, ok := parsePurchaseID(ctx)
	if !ok {
		return
	}

	var req dto.UpdatePurchaseRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeMissingPurchaseFields)) {
		return
	}

	startDate, ok := parseStartDate(ctx, req.StartDate)
	if !ok {
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), purchase.UpdatePurchaseInput{
		PurchaseID:       purchaseID,
		UserID:           userID,
		StartDate:        startDate,
		Terms:            toTerms(req.CreatePurchaseRequest),
		TotalPaid:        req.TotalPaid,
		InstallmentsPaid: req.InstallmentsPaid,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPurchaseResponse(output.Purchase))
}

// Delete handles DELETE /purchases/:id requests.
func (c *PurchaseController) Delete(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	purchaseID, ok := parsePurchaseID(ctx)
	if !ok {
		return
	}

	err := c.deleteUseCase.Execute(ctx.Request.Context(), purchase.DeletePurchaseInput{
		PurchaseID: purchaseID,
		UserID:     userID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// History handles GET /purchases/:id/payments requests.
func (c *PurchaseController) History(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	purchaseID, ok := parsePurchaseID(ctx)
	if !ok {
		return
	}

	output, err := c.historyUseCase.Execute(ctx.Request.Context(), purchase.ListPaymentHistoryInput{
		PurchaseID: purchaseID,
		UserID:     userID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPaymentHistoryListResponse(output.Payments))
}

func parseStartDate(ctx *gin.Context, value string) (time.Time, bool) {
	date, err := parseDate(value)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: domainerror.ErrInvalidStartDate.Error(),
			Code:  string(domainerror.ErrCodeInvalidStartDate),
		})
		return time.Time{}, false
	}
	return date, true
}

// parseDate parses a YYYY-MM-DD date. An empty value yields the zero time.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(dto.DateLayout, value, time.UTC)
}

func toTerms(req dto.CreatePurchaseRequest) purchase.Terms {
	return purchase.Terms{
		Description:     req.Description,
		Category:        req.Category,
		CardName:        req.CardName,
		Amount:          req.Amount,
		Installments:    req.Installments,
		InterestRate:    req.InterestRate,
		BillingCycleDay: req.BillingCycleDay,
		PaymentDueDay:   req.PaymentDueDay,
	}
}
