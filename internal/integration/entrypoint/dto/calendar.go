package dto

import (
	"github.com/installment-tracker/backend/internal/application/usecase/calendar"
)

// CalendarEventResponse represents one installment in the calendar response.
type CalendarEventResponse struct {
	PurchaseID        string `json:"purchaseId"`
	Description       string `json:"description"`
	Category          string `json:"category"`
	CardName          string `json:"cardName"`
	InstallmentNumber int    `json:"installmentNumber"`
	TotalInstallments int    `json:"totalInstallments"`
	Amount            string `json:"amount"`
	DueDate           string `json:"dueDate"`
	IsPaid            bool   `json:"isPaid"`
	IsOverdue         bool   `json:"isOverdue"`
}

// CalendarSummaryResponse represents the month totals.
type CalendarSummaryResponse struct {
	TotalAmount   string `json:"totalAmount"`
	PaidAmount    string `json:"paidAmount"`
	UnpaidAmount  string `json:"unpaidAmount"`
	OverdueAmount string `json:"overdueAmount"`
	TotalCount    int    `json:"totalCount"`
	PaidCount     int    `json:"paidCount"`
	UnpaidCount   int    `json:"unpaidCount"`
	OverdueCount  int    `json:"overdueCount"`
}

// CalendarResponse represents the monthly calendar response.
type CalendarResponse struct {
	Year     int                     `json:"year"`
	Month    int                     `json:"month"`
	Payments []CalendarEventResponse `json:"payments"`
	Summary  CalendarSummaryResponse `json:"summary"`
}

// ToCalendarResponse converts a calendar output to a DTO.
func ToCalendarResponse(output *calendar.GetCalendarOutput) CalendarResponse {
	events := make([]CalendarEventResponse, len(output.Payments))
	for i, e := range output.Payments {
		events[i] = CalendarEventResponse{
			PurchaseID:        e.PurchaseID.String(),
			Description:       e.Description,
			Category:          e.Category,
			CardName:          e.CardName,
			InstallmentNumber: e.InstallmentNumber,
			TotalInstallments: e.TotalInstallments,
			Amount:            e.Amount.StringFixed(2),
			DueDate:           e.DueDate.Format(DateLayout),
			IsPaid:            e.IsPaid,
			IsOverdue:         e.IsOverdue,
		}
	}

	s := output.Summary
	return CalendarResponse{
		Year:     output.Year,
		Month:    output.Month,
		Payments: events,
		Summary: CalendarSummaryResponse{
			TotalAmount:   s.TotalAmount.StringFixed(2),
			PaidAmount:    s.PaidAmount.StringFixed(2),
			UnpaidAmount:  s.UnpaidAmount.StringFixed(2),
			OverdueAmount: s.OverdueAmount.StringFixed(2),
			TotalCount:    s.TotalCount,
			PaidCount:     s.PaidCount,
			UnpaidCount:   s.UnpaidCount,
			OverdueCount:  s.OverdueCount,
		},
	}
}
