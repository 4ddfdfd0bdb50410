package error

import "errors"

// Purchase domain errors.
var (
	// ErrPurchaseNotFound is returned when a purchase does not exist or is owned by another user.
	ErrPurchaseNotFound = errors.New("purchase not found")

	// ErrInvalidPurchaseAmount is returned when the principal is not positive or too large.
	ErrInvalidPurchaseAmount = errors.New("amount must be greater than zero")

	// ErrInvalidInstallments is returned when the installment count is below one.
	ErrInvalidInstallments = errors.New("installments must be at least 1")

	// ErrInvalidInterestRate is returned when the interest rate is negative or above the cap.
	ErrInvalidInterestRate = errors.New("interest rate out of range")

	// ErrInvalidCycleDay is returned when a billing cycle or payment due day is outside 1-31.
	ErrInvalidCycleDay = errors.New("day of month must be between 1 and 31")

	// ErrInvalidStartDate is returned when the purchase date cannot be parsed.
	ErrInvalidStartDate = errors.New("start date must be YYYY-MM-DD")

	// ErrInvalidTotalPaid is returned when an edit sets a negative paid total.
	ErrInvalidTotalPaid = errors.New("total paid cannot be negative")
)

// PurchaseErrorCode defines error codes for purchase errors.
// Format: PUR-XXYYYY where XX is category and YYYY is specific error.
type PurchaseErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidPurchaseAmount PurchaseErrorCode = "PUR-010001"
	ErrCodeInvalidInstallments   PurchaseErrorCode = "PUR-010002"
	ErrCodeInvalidInterestRate   PurchaseErrorCode = "PUR-010003"
	ErrCodeInvalidCycleDay       PurchaseErrorCode = "PUR-010004"
	ErrCodeInvalidStartDate      PurchaseErrorCode = "PUR-010005"
	ErrCodeInvalidTotalPaid      PurchaseErrorCode = "PUR-010006"
	ErrCodeMissingPurchaseFields PurchaseErrorCode = "PUR-010007"

	// Lookup errors (02XXXX)
	ErrCodePurchaseNotFound PurchaseErrorCode = "PUR-020001"
)

// PurchaseError represents a purchase error with code and message.
type PurchaseError struct {
	Code    PurchaseErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PurchaseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *PurchaseError) Unwrap() error {
	return e.Err
}

// NewPurchaseError creates a new PurchaseError with the given code and message.
func NewPurchaseError(code PurchaseErrorCode, message string, err error) *PurchaseError {
	return &PurchaseError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
