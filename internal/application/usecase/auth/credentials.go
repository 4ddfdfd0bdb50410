// Package auth contains authentication and account use cases.
package auth

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/installment-tracker/backend/internal/application/adapter"
	"github.com/installment-tracker/backend/internal/domain/entity"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Session is the token pair handed to a client after authentication.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// normalizeEmail lowercases and trims an address so lookups are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return domainerror.NewAuthError(
			domainerror.ErrCodeInvalidEmail,
			"invalid email format",
			domainerror.ErrInvalidEmail,
		)
	}
	return nil
}

func validatePassword(passwords adapter.PasswordService, password string) error {
	if err := passwords.ValidatePasswordStrength(password); err != nil {
		return domainerror.NewAuthError(
			domainerror.ErrCodeWeakPassword,
			err.Error(),
			domainerror.ErrWeakPassword,
		)
	}
	return nil
}

func invalidCredentials() error {
	return domainerror.NewAuthError(
		domainerror.ErrCodeInvalidCredentials,
		"invalid email or password",
		domainerror.ErrInvalidCredentials,
	)
}

func issueSession(ctx context.Context, tokens adapter.TokenService, user *entity.User) (*Session, error) {
	pair, err := tokens.GenerateTokenPair(ctx, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return &Session{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	}, nil
}

func findUser(ctx context.Context, users adapter.UserRepository, id uuid.UUID) (*entity.User, error) {
	user, err := users.FindByID(ctx, id)
	if err != nil {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeUserNotFound,
			"user not found",
			domainerror.ErrUserNotFound,
		)
	}
	return user, nil
}
