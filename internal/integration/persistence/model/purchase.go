// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/installment-tracker/backend/internal/domain/entity"
)

// PurchaseModel represents the purchases table in the database.
type PurchaseModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_purchases_user_start,priority:1"`
	Description      string          `gorm:"type:varchar(255);not null"`
	Category         string          `gorm:"type:varchar(50);not null;default:'other'"`
	CardName         string          `gorm:"type:varchar(100);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Installments     int             `gorm:"not null"`
	InterestRate     decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	MonthlyPayment   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalPaid        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	RemainingBalance decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	InstallmentsPaid int             `gorm:"not null;default:0"`
	StartDate        time.Time       `gorm:"type:date;not null;index:idx_purchases_user_start,priority:2"`
	EndDate          time.Time       `gorm:"type:date;not null"`
	BillingCycleDay  int             `gorm:"not null;default:16"`
	PaymentDueDay    int             `gorm:"not null;default:5"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`

	Payments []PaymentHistoryModel `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the PurchaseModel.
func (PurchaseModel) TableName() string {
	return "purchases"
}

// ToEntity converts a PurchaseModel to a domain Purchase entity.
func (m *PurchaseModel) ToEntity() *entity.Purchase {
	return &entity.Purchase{
		ID:               m.ID,
		UserID:           m.UserID,
		Description:      m.Description,
		Category:         m.Category,
		CardName:         m.CardName,
		Amount:           m.Amount,
		Installments:     m.Installments,
		InterestRate:     m.InterestRate,
		MonthlyPayment:   m.MonthlyPayment,
		TotalPaid:        m.TotalPaid,
		RemainingBalance: m.RemainingBalance,
		InstallmentsPaid: m.InstallmentsPaid,
		StartDate:        civilDate(m.StartDate),
		EndDate:          civilDate(m.EndDate),
		BillingCycleDay:  m.BillingCycleDay,
		PaymentDueDay:    m.PaymentDueDay,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// PurchaseFromEntity creates a PurchaseModel from a domain Purchase entity.
func PurchaseFromEntity(p *entity.Purchase) *PurchaseModel {
	return &PurchaseModel{
		ID:               p.ID,
		UserID:           p.UserID,
		Description:      p.Description,
		Category:         p.Category,
		CardName:         p.CardName,
		Amount:           p.Amount,
		Installments:     p.Installments,
		InterestRate:     p.InterestRate,
		MonthlyPayment:   p.MonthlyPayment,
		TotalPaid:        p.TotalPaid,
		RemainingBalance: p.RemainingBalance,
		InstallmentsPaid: p.InstallmentsPaid,
		StartDate:        civilDate(p.StartDate),
		EndDate:          civilDate(p.EndDate),
		BillingCycleDay:  p.BillingCycleDay,
		PaymentDueDay:    p.PaymentDueDay,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// civilDate drops the clock and zone a driver may attach to a date column.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
