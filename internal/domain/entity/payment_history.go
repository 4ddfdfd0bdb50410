package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentHistory is an immutable record of one payment applied to a purchase.
type PaymentHistory struct {
	ID                uuid.UUID
	PurchaseID        uuid.UUID
	Amount            decimal.Decimal
	InstallmentNumber int
	PaymentDate       time.Time
	CreatedAt         time.Time
}

// NewPaymentHistory creates a new PaymentHistory entry.
func NewPaymentHistory(purchaseID uuid.UUID, amount decimal.Decimal, installmentNumber int, paymentDate time.Time) *PaymentHistory {
	return &PaymentHistory{
		ID:                uuid.New(),
		PurchaseID:        purchaseID,
		Amount:            amount,
		InstallmentNumber: installmentNumber,
		PaymentDate:       paymentDate,
		CreatedAt:         time.Now().UTC(),
	}
}
