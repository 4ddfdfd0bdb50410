package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget is the single current spending budget of a user.
type Budget struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	TotalBudget decimal.Decimal
	Description string
	CreatedAt   time.Time
}

// NewBudget creates a new Budget entity.
func NewBudget(userID uuid.UUID, totalBudget decimal.Decimal, description string) *Budget {
	return &Budget{
		ID:          uuid.New(),
		UserID:      userID,
		TotalBudget: totalBudget,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
}
