package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account owning purchases and a budget.
type User struct {
	ID             uuid.UUID
	Email          string
	Name           string
	PasswordHash   string
	EmailReminders bool // Receive due and overdue installment reminders
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewUser creates a new User with reminders enabled.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:             uuid.New(),
		Email:          email,
		Name:           name,
		PasswordHash:   passwordHash,
		EmailReminders: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
