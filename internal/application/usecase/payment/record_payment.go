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
	"github.com/installment-tracker/backend/internal/domain/entity"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
)

// RecordPaymentInput represents the input for a single payment.
type RecordPaymentInput struct {
	PurchaseID  uuid.UUID
	UserID      uuid.UUID
	Amount      decimal.Decimal
	PaymentDate time.Time // Zero means today
}

// RecordPaymentOutput represents the output of a single payment.
type RecordPaymentOutput struct {
	Purchase *entity.Purchase
	Payment  *entity.PaymentHistory
}

// RecordPaymentUseCase applies one payment to a purchase. The number of paid
// installments is recomputed from the cumulative total.
type RecordPaymentUseCase struct {
	purchaseRepo adapter.PurchaseRepository
	locks        *KeyedMutex
}

// NewRecordPaymentUseCase creates a new RecordPaymentUseCase instance.
// locks must be shared with BulkPaymentUseCase.
func NewRecordPaymentUseCase(purchaseRepo adapter.PurchaseRepository, locks *KeyedMutex) *RecordPaymentUseCase {
	return &RecordPaymentUseCase{
		purchaseRepo: purchaseRepo,
		locks:        locks,
	}
}

// Execute records the payment. The purchase update and the history entry are
// committed together or not at all.
func (uc *RecordPaymentUseCase) Execute(ctx context.Context, input RecordPaymentInput) (*RecordPaymentOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerror.NewPaymentError(
			domainerror.ErrCodeInvalidPaymentAmount,
			"payment amount must be greater than zero",
			domainerror.ErrInvalidPaymentAmount,
		)
	}

	unlock := uc.locks.Lock(input.PurchaseID)
	defer unlock()

	purchase, err := loadPurchase(ctx, uc.purchaseRepo, input.PurchaseID, input.UserID)
	if err != nil {
		return nil, err
	}

	entry := purchase.ApplyPayment(input.Amount, paymentDateOrToday(input.PaymentDate))

	if err := uc.purchaseRepo.SavePayment(ctx, purchase, entry); err != nil {
		slog.Error("Failed to save payment", "error", err, "purchaseID", purchase.ID)
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	slog.Info("Payment recorded",
		"purchaseID", purchase.ID,
		"amount", input.Amount.StringFixed(2),
		"installmentsPaid", purchase.InstallmentsPaid,
	)

	return &RecordPaymentOutput{Purchase: purchase, Payment: entry}, nil
}

func loadPurchase(ctx context.Context, repo adapter.PurchaseRepository, id, userID uuid.UUID) (*entity.Purchase, error) {
	purchase, err := repo.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, domainerror.ErrPurchaseNotFound) {
			return nil, domainerror.NewPaymentError(
				domainerror.ErrCodePaymentPurchaseNotFound,
				"purchase not found",
				domainerror.ErrPurchaseNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find purchase: %w", err)
	}
	return purchase, nil
}

func paymentDateOrToday(date time.Time) time.Time {
	if !date.IsZero() {
		return date
	}
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
