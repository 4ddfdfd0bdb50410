// Package purchase contains purchase-related use cases.
package purchase

import (
	"fmt"

	"github.com/shopspring/decimal"

	domainerror "github.com/installment-tracker/backend/internal/domain/error"
)

const (
	// MaxDescriptionLength is the maximum allowed length for purchase descriptions.
	MaxDescriptionLength = 255
	// MaxCategoryLength is the maximum allowed length for the category tag.
	MaxCategoryLength = 50
	// MaxCardNameLength is the maximum allowed length for the card label.
	MaxCardNameLength = 100
	// MaxInstallments bounds the schedule length.
	MaxInstallments = 360
)

var (
	// MaxInterestRate is the highest flat rate, in percent per installment.
	// The stored column holds rates below 1000.
	MaxInterestRate = decimal.NewFromInt(100)
	// MaxAmount keeps the principal and its derived money columns within
	// decimal(15,2).
	MaxAmount = decimal.NewFromInt(100_000_000_000)
)

// Terms carries the user-editable fields shared by create and update.
// Zero cycle days select the card defaults.
type Terms struct {
	Description     string
	Category        string
	CardName        string
	Amount          decimal.Decimal
	Installments    int
	InterestRate    decimal.Decimal
	BillingCycleDay int
	PaymentDueDay   int
}

func validateTerms(t Terms) error {
	if !t.Amount.IsPositive() {
		return domainerror.NewPurchaseError(
			domainerror.ErrCodeInvalidPurchaseAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidPurchaseAmount,
		)
	}
	if t.Amount.GreaterThan(MaxAmount) {
		return domainerror.NewPurchaseError(
			domainerror.ErrCodeInvalidPurchaseAmount,
			fmt.Sprintf("amount cannot exceed %s", MaxAmount),
			domainerror.ErrInvalidPurchaseAmount,
		)
	}

	if t.Installments < 1 || t.Installments > MaxInstallments {
		return domainerror.NewPurchaseError(
			domainerror.ErrCodeInvalidInstallments,
			fmt.Sprintf("installments must be between 1 and %d", MaxInstallments),
			domainerror.ErrInvalidInstallments,
		)
	}

	if t.InterestRate.IsNegative() || t.InterestRate.GreaterThan(MaxInterestRate) {
		return domainerror.NewPurchaseError(
			domainerror.ErrCodeInvalidInterestRate,
			fmt.Sprintf("interest rate must be between 0 and %s", MaxInterestRate),
			domainerror.ErrInvalidInterestRate,
		)
	}

	if !validDay(t.BillingCycleDay) || !validDay(t.PaymentDueDay) {
		return domainerror.NewPurchaseError(
			domainerror.ErrCodeInvalidCycleDay,
			"billing cycle day and payment due day must be between 1 and 31",
			domainerror.ErrInvalidCycleDay,
		)
	}

	if len(t.Description) > MaxDescriptionLength ||
		len(t.Category) > MaxCategoryLength ||
		len(t.CardName) > MaxCardNameLength {
		return domainerror.NewPurchaseError(
			domainerror.ErrCodeMissingPurchaseFields,
			fmt.Sprintf("description, category or card name too long (max %d, %d, %d)",
				MaxDescriptionLength, MaxCategoryLength, MaxCardNameLength),
			nil,
		)
	}

	return nil
}

// validDay accepts 0 as "use the card default".
func validDay(day int) bool {
	return day >= 0 && day <= 31
}
