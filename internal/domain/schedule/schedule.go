// Package schedule derives the installment calendar of a credit purchase.
//
// Every function here is pure. The same inputs always produce the same dates,
// which is what lets purchase writes, calendar projections and reminders agree
// on when an installment is due without storing the schedule.
package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultBillingCycleDay is the day-of-month the card statement closes.
	DefaultBillingCycleDay = 16
	// DefaultPaymentDueDay is the day-of-month a statement must be paid.
	DefaultPaymentDueDay = 5
)

var hundred = decimal.NewFromInt(100)

// Terms holds the card parameters that place a purchase on the calendar.
type Terms struct {
	PurchaseDate    time.Time
	BillingCycleDay int
	PaymentDueDay   int
}

// Normalize fills zero cycle days with the card defaults.
func (t Terms) Normalize() Terms {
	if t.BillingCycleDay == 0 {
		t.BillingCycleDay = DefaultBillingCycleDay
	}
	if t.PaymentDueDay == 0 {
		t.PaymentDueDay = DefaultPaymentDueDay
	}
	return t
}

// monthOffset is how many months after the purchase month the first
// installment falls due. Purchases on or after the cutoff day roll into the
// next statement.
func (t Terms) monthOffset() int {
	if t.PurchaseDate.Day() >= t.BillingCycleDay {
		return 2
	}
	return 1
}

// FirstDueDate returns the due date of installment 1.
func FirstDueDate(t Terms) time.Time {
	return InstallmentDueDate(t, 1)
}

// InstallmentDueDate returns the due date of installment n (1-based).
//
// The month is counted from the purchase month, and the day is always
// PaymentDueDay. Overflow such as day 31 in a 30-day month rolls into the next
// month following time.Date normalization. A rollover of one installment never
// shifts the day of the following ones.
func InstallmentDueDate(t Terms, n int) time.Time {
	t = t.Normalize()
	y, m, _ := t.PurchaseDate.Date()
	return time.Date(y, m+time.Month(t.monthOffset()+n-1), t.PaymentDueDay, 0, 0, 0, 0, t.PurchaseDate.Location())
}

// DueDates returns the due dates of installments 1..installments in order.
func DueDates(t Terms, installments int) []time.Time {
	if installments <= 0 {
		return nil
	}
	dates := make([]time.Time, installments)
	for i := range dates {
		dates[i] = InstallmentDueDate(t, i+1)
	}
	return dates
}

// PayoffDate returns the due date of the final installment.
func PayoffDate(t Terms, installments int) time.Time {
	return InstallmentDueDate(t, installments)
}

// TotalCost returns the full amount owed over the life of the purchase.
//
// Interest is flat: it is charged on the full principal once per installment,
// so the total interest is amount * rate/100 * installments.
func TotalCost(amount decimal.Decimal, installments int, ratePercent decimal.Decimal) decimal.Decimal {
	if installments <= 0 || ratePercent.IsZero() {
		return amount
	}
	n := decimal.NewFromInt(int64(installments))
	return amount.Add(amount.Mul(ratePercent.Div(hundred)).Mul(n))
}

// MonthlyPayment returns the installment amount rounded to cents. The rounded
// value is for display; use InstallmentsCovered to count paid installments.
func MonthlyPayment(amount decimal.Decimal, installments int, ratePercent decimal.Decimal) decimal.Decimal {
	if installments <= 0 {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(installments))
	return TotalCost(amount, installments, ratePercent).Div(n).Round(2)
}

// InstallmentsCovered returns floor(paid / (totalCost / installments)),
// computed as floor(paid * installments / totalCost) so that rounding the
// monthly payment up never leaves a fully paid purchase one installment short.
func InstallmentsCovered(paid, totalCost decimal.Decimal, installments int) int {
	if installments <= 0 || !totalCost.IsPositive() || !paid.IsPositive() {
		return 0
	}
	n := decimal.NewFromInt(int64(installments))
	return int(paid.Mul(n).Div(totalCost).Floor().IntPart())
}
