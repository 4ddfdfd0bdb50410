package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/installment-tracker/backend/internal/domain/error"
	"github.com/installment-tracker/backend/internal/integration/entrypoint/dto"
	"github.com/installment-tracker/backend/internal/integration/entrypoint/middleware"
)

// handleDomainError maps a coded domain error to its HTTP status. Codes with
// category 02 are lookups and map to 404; every other coded error is a
// validation failure. Uncoded errors are logged and reported as 500.
func handleDomainError(ctx *gin.Context, err error) {
	var (
		purchaseErr *domainerror.PurchaseError
		paymentErr  *domainerror.PaymentError
		calendarErr *domainerror.CalendarError
		budgetErr   *domainerror.BudgetError
	)

	switch {
	case errors.As(err, &purchaseErr):
		writeCodedError(ctx, string(purchaseErr.Code), purchaseErr.Message)
	case errors.As(err, &paymentErr):
		writeCodedError(ctx, string(paymentErr.Code), paymentErr.Message)
	case errors.As(err, &calendarErr):
		writeCodedError(ctx, string(calendarErr.Code), calendarErr.Message)
	case errors.As(err, &budgetErr):
		writeCodedError(ctx, string(budgetErr.Code), budgetErr.Message)
	default:
		slog.Error("Request failed", "error", err, "method", ctx.Request.Method, "path", ctx.FullPath())
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
		})
	}
}

func writeCodedError(ctx *gin.Context, code, message string) {
	status := http.StatusBadRequest
	if isLookupCode(code) {
		status = http.StatusNotFound
	}
	ctx.JSON(status, dto.ErrorResponse{Error: message, Code: code})
}

// isLookupCode reports whether a PREFIX-XXYYYY code is in category 02.
func isLookupCode(code string) bool {
	_, rest, ok := strings.Cut(code, "-")
	return ok && strings.HasPrefix(rest, "02")
}

// bindJSON decodes the request body into req, answering 400 with code when
// binding fails.
func bindJSON(ctx *gin.Context, req any, code string) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    code,
			Details: err.Error(),
		})
		return false
	}
	return true
}

// requireUserID returns the authenticated user or writes a 401.
func requireUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// parsePurchaseID reads the :id path parameter. A malformed id cannot name an
// existing purchase, so it is reported as not found.
func parsePurchaseID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: domainerror.ErrPurchaseNotFound.Error(),
			Code:  string(domainerror.ErrCodePurchaseNotFound),
		})
		return uuid.Nil, false
	}
	return id, true
}
