package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/installment-tracker/backend/internal/application/adapter"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
)

// BulkPaymentItem is one installment being marked paid.
type BulkPaymentItem struct {
	PurchaseID        uuid.UUID
	InstallmentNumber int // Informational; the ledger always advances by one
	Amount            decimal.Decimal
	PaymentDate       time.Time // Zero means today
}

// BulkPaymentInput represents the input for a bulk payment.
type BulkPaymentInput struct {
	UserID   uuid.UUID
	Payments []BulkPaymentItem
}

// BulkPaymentError describes why one item of the batch was not applied.
// Index is the item's position in BulkPaymentInput.Payments.
type BulkPaymentError struct {
	Index      int
	PurchaseID uuid.UUID
	Error      string
}

// BulkPaymentOutput represents the output of a bulk payment.
type BulkPaymentOutput struct {
	SuccessCount int
	ErrorCount   int
	Errors       []BulkPaymentError
}

// BulkPaymentUseCase applies a batch of "pay this installment" items. Each item
// is independent: a failed item is reported and the batch moves on.
type BulkPaymentUseCase struct {
	purchaseRepo adapter.PurchaseRepository
	locks        *KeyedMutex
}

// NewBulkPaymentUseCase creates a new BulkPaymentUseCase instance.
func NewBulkPaymentUseCase(purchaseRepo adapter.PurchaseRepository, locks *KeyedMutex) *BulkPaymentUseCase {
	return &BulkPaymentUseCase{
		purchaseRepo: purchaseRepo,
		locks:        locks,
	}
}

// Execute applies every item in order and reports per-item failures.
func (uc *BulkPaymentUseCase) Execute(ctx context.Context, input BulkPaymentInput) (*BulkPaymentOutput, error) {
	if len(input.Payments) == 0 {
		return nil, domainerror.NewPaymentError(
			domainerror.ErrCodeEmptyBulkPayment,
			"payments must not be empty",
			domainerror.ErrEmptyBulkPayment,
		)
	}

	output := &BulkPaymentOutput{Errors: []BulkPaymentError{}}

	for i, item := range input.Payments {
		if err := uc.applyItem(ctx, input.UserID, item); err != nil {
			output.ErrorCount++
			output.Errors = append(output.Errors, BulkPaymentError{
				Index:      i,
				PurchaseID: item.PurchaseID,
				Error:      itemErrorMessage(err),
			})
			slog.Warn("Bulk payment item failed",
				"error", err,
				"purchaseID", item.PurchaseID,
				"installmentNumber", item.InstallmentNumber,
			)
			continue
		}
		output.SuccessCount++
	}

	slog.Info("Bulk payment processed",
		"userID", input.UserID,
		"successCount", output.SuccessCount,
		"errorCount", output.ErrorCount,
	)

	return output, nil
}

func (uc *BulkPaymentUseCase) applyItem(ctx context.Context, userID uuid.UUID, item BulkPaymentItem) error {
	if !item.Amount.IsPositive() {
		return domainerror.NewPaymentError(
			domainerror.ErrCodeInvalidPaymentAmount,
			"payment amount must be greater than zero",
			domainerror.ErrInvalidPaymentAmount,
		)
	}

	unlock := uc.locks.Lock(item.PurchaseID)
	defer unlock()

	purchase, err := loadPurchase(ctx, uc.purchaseRepo, item.PurchaseID, userID)
	if err != nil {
		return err
	}

	entry := purchase.ApplyBulkPayment(item.Amount, paymentDateOrToday(item.PaymentDate))

	if err := uc.purchaseRepo.SavePayment(ctx, purchase, entry); err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

// itemErrorMessage keeps domain messages and hides persistence details.
func itemErrorMessage(err error) string {
	var paymentErr *domainerror.PaymentError
	if errors.As(err, &paymentErr) {
		return paymentErr.Message
	}
	return "failed to apply payment"
}
