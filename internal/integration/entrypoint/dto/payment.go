package dto

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/installment-tracker/backend/internal/application/usecase/payment"
	"github.com/installment-tracker/backend/internal/domain/entity"
)

// RecordPaymentRequest represents the request body for a single payment.
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"paymentDate,omitempty"`
}

// BulkPaymentItemRequest is one entry of a bulk payment request. Items are
// not validated at binding time: a bad item fails on its own.
type BulkPaymentItemRequest struct {
	PurchaseID        string          `json:"purchaseId"`
	InstallmentNumber int             `json:"installmentNumber"`
	Amount            decimal.Decimal `json:"amount"`
	PaymentDate       string          `json:"paymentDate,omitempty"`
}

// BulkPaymentRequest represents the request body for bulk payments.
type BulkPaymentRequest struct {
	Payments []BulkPaymentItemRequest `json:"payments" binding:"required,min=1"`
}

// PaymentHistoryResponse represents a payment history entry in API responses.
type PaymentHistoryResponse struct {
	ID                string    `json:"id"`
	PurchaseID        string    `json:"purchaseId"`
	Amount            string    `json:"amount"`
	InstallmentNumber int       `json:"installmentNumber"`
	PaymentDate       string    `json:"paymentDate"`
	CreatedAt         time.Time `json:"createdAt"`
}

// RecordPaymentResponse represents the response of a single payment.
type RecordPaymentResponse struct {
	Purchase PurchaseResponse       `json:"purchase"`
	Payment  PaymentHistoryResponse `json:"payment"`
}

// PaymentHistoryListResponse represents the payment history list response.
type PaymentHistoryListResponse struct {
	Payments []PaymentHistoryResponse `json:"payments"`
}

// BulkPaymentErrorResponse is the failure of one bulk item.
type BulkPaymentErrorResponse struct {
	PurchaseID string `json:"purchaseId"`
	Error      string `json:"error"`
}

// BulkPaymentResponse represents the response of a bulk payment.
type BulkPaymentResponse struct {
	SuccessCount int                        `json:"successCount"`
	ErrorCount   int                        `json:"errorCount"`
	Errors       []BulkPaymentErrorResponse `json:"errors"`
}

// ToPaymentHistoryResponse converts a domain PaymentHistory entity to a DTO.
func ToPaymentHistoryResponse(h *entity.PaymentHistory) PaymentHistoryResponse {
	return PaymentHistoryResponse{
		ID:                h.ID.String(),
		PurchaseID:        h.PurchaseID.String(),
		Amount:            h.Amount.StringFixed(2),
		InstallmentNumber: h.InstallmentNumber,
		PaymentDate:       h.PaymentDate.Format(DateLayout),
		CreatedAt:         h.CreatedAt,
	}
}

// ToPaymentHistoryListResponse converts history entries to a list DTO.
func ToPaymentHistoryListResponse(history []*entity.PaymentHistory) PaymentHistoryListResponse {
	items := make([]PaymentHistoryResponse, len(history))
	for i, h := range history {
		items[i] = ToPaymentHistoryResponse(h)
	}
	return PaymentHistoryListResponse{Payments: items}
}

// RejectedBulkItem is a bulk item refused before reaching the ledger, keyed by
// its position in the request.
type RejectedBulkItem struct {
	Index int
	BulkPaymentErrorResponse
}

// ToBulkPaymentResponse merges items rejected at the boundary with the ledger
// output. positions maps each item sent to the use case back to its request
// index, so Errors follow request order.
func ToBulkPaymentResponse(output *payment.BulkPaymentOutput, rejected []RejectedBulkItem, positions []int) BulkPaymentResponse {
	all := append([]RejectedBulkItem{}, rejected...)
	resp := BulkPaymentResponse{ErrorCount: len(rejected)}
	if output != nil {
		resp.SuccessCount = output.SuccessCount
		resp.ErrorCount += output.ErrorCount
		for _, e := range output.Errors {
			all = append(all, RejectedBulkItem{
				Index:                    positions[e.Index],
				BulkPaymentErrorResponse: BulkPaymentErrorResponse{PurchaseID: e.PurchaseID.String(), Error: e.Error},
			})
		}
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Index < all[j].Index })
	resp.Errors = make([]BulkPaymentErrorResponse, len(all))
	for i, r := range all {
		resp.Errors[i] = r.BulkPaymentErrorResponse
	}
	return resp
}
