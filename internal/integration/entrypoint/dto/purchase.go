package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/installment-tracker/backend/internal/domain/entity"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = time.DateOnly

// CreatePurchaseRequest represents the request body for purchase creation.
// Amounts accept JSON numbers or strings.
type CreatePurchaseRequest struct {
	Description     string          `json:"description" binding:"required,min=1,max=255"`
	Category        string          `json:"category" binding:"max=50"`
	CardName        string          `json:"cardName" binding:"required,min=1,max=100"`
	Amount          decimal.Decimal `json:"amount"`
	Installments    int             `json:"installments"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	StartDate       string          `json:"startDate,omitempty"`
	BillingCycleDay int             `json:"billingCycleDay,omitempty"`
	PaymentDueDay   int             `json:"paymentDueDay,omitempty"`
}

// UpdatePurchaseRequest represents the request body for purchase update.
// TotalPaid and InstallmentsPaid are optional ledger overrides.
type UpdatePurchaseRequest struct {
	CreatePurchaseRequest
	TotalPaid        *decimal.Decimal `json:"totalPaid,omitempty"`
	InstallmentsPaid *int             `json:"installmentsPaid,omitempty"`
}

// PurchaseResponse represents a purchase in API responses.
type PurchaseResponse struct {
	ID               string    `json:"id"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	CardName         string    `json:"cardName"`
	Amount           string    `json:"amount"`
	Installments     int       `json:"installments"`
	InterestRate     string    `json:"interestRate"`
	MonthlyPayment   string    `json:"monthlyPayment"`
	TotalPaid        string    `json:"totalPaid"`
	RemainingBalance string    `json:"remainingBalance"`
	InstallmentsPaid int       `json:"installmentsPaid"`
	StartDate        string    `json:"startDate"`
	EndDate          string    `json:"endDate"`
	NextDueDate      *string   `json:"nextDueDate,omitempty"`
	BillingCycleDay  int       `json:"billingCycleDay"`
	PaymentDueDay    int       `json:"paymentDueDay"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// PurchaseListResponse represents the purchase list response.
type PurchaseListResponse struct {
	Purchases []PurchaseResponse `json:"purchases"`
}

// ToPurchaseResponse converts a domain Purchase entity to a PurchaseResponse DTO.
func ToPurchaseResponse(p *entity.Purchase) PurchaseResponse {
	resp := PurchaseResponse{
		ID:               p.ID.String(),
		Description:      p.Description,
		Category:         p.Category,
		CardName:         p.CardName,
		Amount:           p.Amount.StringFixed(2),
		Installments:     p.Installments,
		InterestRate:     p.InterestRate.String(),
		MonthlyPayment:   p.MonthlyPayment.StringFixed(2),
		TotalPaid:        p.TotalPaid.StringFixed(2),
		RemainingBalance: p.RemainingBalance.StringFixed(2),
		InstallmentsPaid: p.InstallmentsPaid,
		StartDate:        p.StartDate.Format(DateLayout),
		EndDate:          p.EndDate.Format(DateLayout),
		BillingCycleDay:  p.BillingCycleDay,
		PaymentDueDay:    p.PaymentDueDay,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if p.InstallmentsPaid < p.Installments {
		next := p.DueDate(p.InstallmentsPaid + 1).Format(DateLayout)
		resp.NextDueDate = &next
	}
	return resp
}

// ToPurchaseListResponse converts purchases to a PurchaseListResponse DTO.
func ToPurchaseListResponse(purchases []*entity.Purchase) PurchaseListResponse {
	items := make([]PurchaseResponse, len(purchases))
	for i, p := range purchases {
		items[i] = ToPurchaseResponse(p)
	}
	return PurchaseListResponse{Purchases: items}
}
