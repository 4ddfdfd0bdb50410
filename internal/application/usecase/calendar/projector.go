// Package calendar projects purchases onto a monthly installment calendar.
package calendar

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/installment-tracker/backend/internal/domain/entity"
)

// PaymentEvent is one installment falling due in the projected month.
// It is derived on every call and never stored.
type PaymentEvent struct {
	PurchaseID        uuid.UUID
	Description       string
	Category          string
	CardName          string
	InstallmentNumber int
	TotalInstallments int
	Amount            decimal.Decimal
	DueDate           time.Time
	IsPaid            bool
	IsOverdue         bool
}

// Summary aggregates the events of a month.
type Summary struct {
	TotalAmount   decimal.Decimal
	PaidAmount    decimal.Decimal
	UnpaidAmount  decimal.Decimal
	OverdueAmount decimal.Decimal
	TotalCount    int
	PaidCount     int
	UnpaidCount   int
	OverdueCount  int
}

// ProjectMonth expands purchases into the installments due in (year, month).
// Fully paid purchases are included. Events are sorted by due date; purchases
// keep their input order on ties.
func ProjectMonth(purchases []*entity.Purchase, year int, month time.Month, now time.Time) ([]PaymentEvent, Summary) {
	events := []PaymentEvent{}

	for _, p := range purchases {
		for n := 1; n <= p.Installments; n++ {
			due := p.DueDate(n)
			if due.Year() != year || due.Month() != month {
				// Due dates strictly increase with n.
				if due.Year() > year || (due.Year() == year && due.Month() > month) {
					break
				}
				continue
			}

			isPaid := n <= p.InstallmentsPaid
			events = append(events, PaymentEvent{
				PurchaseID:        p.ID,
				Description:       p.Description,
				Category:          p.Category,
				CardName:          p.CardName,
				InstallmentNumber: n,
				TotalInstallments: p.Installments,
				Amount:            p.MonthlyPayment,
				DueDate:           due,
				IsPaid:            isPaid,
				IsOverdue:         now.After(due) && !isPaid,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].DueDate.Before(events[j].DueDate)
	})

	return events, Summarize(events)
}

// Summarize totals the amounts and counts of events by status.
func Summarize(events []PaymentEvent) Summary {
	s := Summary{
		TotalAmount:   decimal.Zero,
		PaidAmount:    decimal.Zero,
		UnpaidAmount:  decimal.Zero,
		OverdueAmount: decimal.Zero,
	}

	for _, e := range events {
		s.TotalAmount = s.TotalAmount.Add(e.Amount)
		s.TotalCount++

		if e.IsPaid {
			s.PaidAmount = s.PaidAmount.Add(e.Amount)
			s.PaidCount++
		} else {
			s.UnpaidAmount = s.UnpaidAmount.Add(e.Amount)
			s.UnpaidCount++
		}

		if e.IsOverdue {
			s.OverdueAmount = s.OverdueAmount.Add(e.Amount)
			s.OverdueCount++
		}
	}

	return s
}
