// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/installment-tracker/backend/internal/domain/schedule"
)

// DefaultCategory is assigned to purchases created without a category.
const DefaultCategory = "other"

// Purchase represents a credit purchase paid in monthly installments.
type Purchase struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Description      string
	Category         string
	CardName         string
	Amount           decimal.Decimal
	Installments     int
	InterestRate     decimal.Decimal // Flat rate, percent per installment
	MonthlyPayment   decimal.Decimal
	TotalPaid        decimal.Decimal
	RemainingBalance decimal.Decimal // May go negative on overpayment
	InstallmentsPaid int
	StartDate        time.Time
	EndDate          time.Time // Payoff date, derived from the schedule
	BillingCycleDay  int
	PaymentDueDay    int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewPurchase creates a new Purchase with no payments applied and its derived
// fields computed.
func NewPurchase(
	userID uuid.UUID,
	description string,
	category string,
	cardName string,
	amount decimal.Decimal,
	installments int,
	interestRate decimal.Decimal,
	startDate time.Time,
	billingCycleDay int,
	paymentDueDay int,
) *Purchase {
	now := time.Now().UTC()

	if category == "" {
		category = DefaultCategory
	}

	p := &Purchase{
		ID:              uuid.New(),
		UserID:          userID,
		Description:     description,
		Category:        category,
		CardName:        cardName,
		Amount:          amount,
		Installments:    installments,
		InterestRate:    interestRate,
		TotalPaid:       decimal.Zero,
		StartDate:       startDate,
		BillingCycleDay: billingCycleDay,
		PaymentDueDay:   paymentDueDay,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	p.Recalculate()

	return p
}

// Terms returns the schedule inputs of the purchase with card defaults applied.
func (p *Purchase) Terms() schedule.Terms {
	return schedule.Terms{
		PurchaseDate:    p.StartDate,
		BillingCycleDay: p.BillingCycleDay,
		PaymentDueDay:   p.PaymentDueDay,
	}.Normalize()
}

// Recalculate refreshes every field derived from the purchase terms.
// It must run after any change to amount, installments, rate, start date or
// cycle days.
func (p *Purchase) Recalculate() {
	terms := p.Terms()
	p.BillingCycleDay = terms.BillingCycleDay
	p.PaymentDueDay = terms.PaymentDueDay
	p.MonthlyPayment = schedule.MonthlyPayment(p.Amount, p.Installments, p.InterestRate)
	p.EndDate = schedule.PayoffDate(terms, p.Installments)
	p.RemainingBalance = p.Amount.Sub(p.TotalPaid)
}

// DueDate returns the due date of installment n.
func (p *Purchase) DueDate(n int) time.Time {
	return schedule.InstallmentDueDate(p.Terms(), n)
}

// ApplyPayment adds amount to the paid total and recomputes the number of
// installments covered from the new cumulative total.
func (p *Purchase) ApplyPayment(amount decimal.Decimal, paymentDate time.Time) *PaymentHistory {
	p.addPaid(amount)
	p.InstallmentsPaid = p.installmentsCovered()
	return NewPaymentHistory(p.ID, amount, p.InstallmentsPaid, paymentDate)
}

// ApplyBulkPayment adds amount to the paid total and marks exactly one more
// installment as paid, regardless of the amount.
func (p *Purchase) ApplyBulkPayment(amount decimal.Decimal, paymentDate time.Time) *PaymentHistory {
	p.addPaid(amount)
	p.InstallmentsPaid++
	return NewPaymentHistory(p.ID, amount, p.InstallmentsPaid, paymentDate)
}

// IsPaidOff reports whether nothing remains to be paid.
func (p *Purchase) IsPaidOff() bool {
	return !p.RemainingBalance.IsPositive()
}

func (p *Purchase) addPaid(amount decimal.Decimal) {
	p.TotalPaid = p.TotalPaid.Add(amount)
	p.RemainingBalance = p.Amount.Sub(p.TotalPaid)
	p.UpdatedAt = time.Now().UTC()
}

func (p *Purchase) installmentsCovered() int {
	total := schedule.TotalCost(p.Amount, p.Installments, p.InterestRate)
	return schedule.InstallmentsCovered(p.TotalPaid, total, p.Installments)
}
