package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/installment-tracker/backend/internal/domain/entity"
)

// UserRepository stores account owners. Emails are stored normalized, so
// lookups by email are exact matches.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// FindByID and FindByEmail return domain ErrUserNotFound on a miss.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Update saves the profile fields and password hash.
	Update(ctx context.Context, user *entity.User) error
	// FindReminderRecipients lists users with EmailReminders enabled,
	// ordered by email.
	FindReminderRecipients(ctx context.Context) ([]*entity.User, error)
}
