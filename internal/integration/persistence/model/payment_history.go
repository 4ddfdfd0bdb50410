package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/installment-tracker/backend/internal/domain/entity"
)

// PaymentHistoryModel represents the payment_history table in the database.
type PaymentHistoryModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PurchaseID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	InstallmentNumber int             `gorm:"not null"`
	PaymentDate       time.Time       `gorm:"type:date;not null"`
	CreatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for the PaymentHistoryModel.
func (PaymentHistoryModel) TableName() string {
	return "payment_history"
}

// ToEntity converts a PaymentHistoryModel to a domain PaymentHistory entity.
func (m *PaymentHistoryModel) ToEntity() *entity.PaymentHistory {
	return &entity.PaymentHistory{
		ID:                m.ID,
		PurchaseID:        m.PurchaseID,
		Amount:            m.Amount,
		InstallmentNumber: m.InstallmentNumber,
		PaymentDate:       civilDate(m.PaymentDate),
		CreatedAt:         m.CreatedAt,
	}
}

// PaymentHistoryFromEntity creates a PaymentHistoryModel from a domain PaymentHistory entity.
func PaymentHistoryFromEntity(h *entity.PaymentHistory) *PaymentHistoryModel {
	return &PaymentHistoryModel{
		ID:                h.ID,
		PurchaseID:        h.PurchaseID,
		Amount:            h.Amount,
		InstallmentNumber: h.InstallmentNumber,
		PaymentDate:       civilDate(h.PaymentDate),
		CreatedAt:         h.CreatedAt,
	}
}
