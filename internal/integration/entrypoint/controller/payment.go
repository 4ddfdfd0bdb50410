package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/installment-tracker/backend/internal/application/usecase/payment"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
	"github.com/installment-tracker/backend/internal/integration/entrypoint/dto"
)

// PaymentController handles payment endpoints.
type PaymentController struct {
	recordUseCase *payment.RecordPaymentUseCase
	bulkUseCase   *payment.BulkPaymentUseCase
}

// NewPaymentController creates a new payment controller instance.
func NewPaymentController(recordUseCase *payment.RecordPaymentUseCase, bulkUseCase *payment.BulkPaymentUseCase) *PaymentController {
	return &PaymentController{
		recordUseCase: recordUseCase,
		bulkUseCase:   bulkUseCase,
	}
}

// Record handles POST /purchases/:id/payments requests.
func (c *PaymentController) Record(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	purchaseID, ok := parsePurchaseID(ctx)
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeInvalidPaymentAmount),
			Details: err.Error(),
		})
		return
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		writeInvalidPaymentDate(ctx)
		return
	}

	output, err := c.recordUseCase.Execute(ctx.Request.Context(), payment.RecordPaymentInput{
		PurchaseID:  purchaseID,
		UserID:      userID,
		Amount:      req.Amount,
		PaymentDate: paymentDate,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.RecordPaymentResponse{
		Purchase: dto.ToPurchaseResponse(output.Purchase),
		Payment:  dto.ToPaymentHistoryResponse(output.Payment),
	})
}

// Bulk handles POST /payments/bulk requests. Item failures are reported in
// the body; the request itself succeeds.
func (c *PaymentController) Bulk(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.BulkPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   domainerror.ErrEmptyBulkPayment.Error(),
			Code:    string(domainerror.ErrCodeEmptyBulkPayment),
			Details: err.Error(),
		})
		return
	}

	var rejected []dto.RejectedBulkItem
	reject := func(i int, purchaseID string, err error) {
		rejected = append(rejected, dto.RejectedBulkItem{
			Index:                    i,
			BulkPaymentErrorResponse: dto.BulkPaymentErrorResponse{PurchaseID: purchaseID, Error: err.Error()},
		})
	}

	items := make([]payment.BulkPaymentItem, 0, len(req.Payments))
	positions := make([]int, 0, len(req.Payments))
	for i, p := range req.Payments {
		// An empty or malformed id cannot name a purchase of this user.
		purchaseID, err := uuid.Parse(p.PurchaseID)
		if err != nil {
			reject(i, p.PurchaseID, domainerror.ErrPurchaseNotFound)
			continue
		}
		paymentDate, err := parseDate(p.PaymentDate)
		if err != nil {
			reject(i, p.PurchaseID, domainerror.ErrInvalidPaymentDate)
			continue
		}
		items = append(items, payment.BulkPaymentItem{
			PurchaseID:        purchaseID,
			InstallmentNumber: p.InstallmentNumber,
			Amount:            p.Amount,
			PaymentDate:       paymentDate,
		})
		positions = append(positions, i)
	}

	var output *payment.BulkPaymentOutput
	if len(items) > 0 {
		var err error
		output, err = c.bulkUseCase.Execute(ctx.Request.Context(), payment.BulkPaymentInput{
			UserID:   userID,
			Payments: items,
		})
		if err != nil {
			handleDomainError(ctx, err)
			return
		}
	}

	ctx.JSON(http.StatusOK, dto.ToBulkPaymentResponse(output, rejected, positions))
}

func writeInvalidPaymentDate(ctx *gin.Context) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: domainerror.ErrInvalidPaymentDate.Error(),
		Code:  string(domainerror.ErrCodeInvalidPaymentDate),
	})
}
