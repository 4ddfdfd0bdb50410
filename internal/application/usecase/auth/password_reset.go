package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/installment-tracker/backend/internal/application/adapter"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
)

const forgotPasswordMessage = "If an account with that email exists, we have sent a password reset link"

// ForgotPasswordInput represents the input for a password reset request.
type ForgotPasswordInput struct {
	Email string
}

// ForgotPasswordUseCase queues a reset link. It answers the same way whether
// or not the account exists.
type ForgotPasswordUseCase struct {
	userRepo          adapter.UserRepository
	resetTokenService adapter.PasswordResetTokenService
	emailService      adapter.EmailService
	appBaseURL        string
	expiresIn         time.Duration
}

// NewForgotPasswordUseCase creates a new ForgotPasswordUseCase instance.
func NewForgotPasswordUseCase(
	userRepo adapter.UserRepository,
	resetTokenService adapter.PasswordResetTokenService,
	emailService adapter.EmailService,
	appBaseURL string,
	expiresIn time.Duration,
) *ForgotPasswordUseCase {
	return &ForgotPasswordUseCase{
		userRepo:          userRepo,
		resetTokenService: resetTokenService,
		emailService:      emailService,
		appBaseURL:        appBaseURL,
		expiresIn:         expiresIn,
	}
}

// Execute performs the request and returns the message to show the user.
func (uc *ForgotPasswordUseCase) Execute(ctx context.Context, input ForgotPasswordInput) (string, error) {
	email := normalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return "", err
	}

	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		slog.Debug("Password reset requested for unknown email")
		return forgotPasswordMessage, nil
	}

	token, err := uc.resetTokenService.GenerateResetToken(ctx, user.ID, user.Email)
	if err != nil {
		slog.Error("Failed to generate reset token", "error", err, "userID", user.ID)
		return forgotPasswordMessage, nil
	}

	err = uc.emailService.QueuePasswordResetEmail(ctx, adapter.QueuePasswordResetInput{
		UserEmail: user.Email,
		UserName:  user.Name,
		ResetURL:  fmt.Sprintf("%s/reset-password?token=%s", uc.appBaseURL, token.Token),
		ExpiresIn: uc.expiresIn.String(),
	})
	if err != nil {
		slog.Error("Failed to queue password reset email", "error", err, "userID", user.ID)
	}

	return forgotPasswordMessage, nil
}

// ResetPasswordInput represents the input for setting a new password.
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// ResetPasswordUseCase consumes a reset token and sets a new password.
// Every refresh token of the user is revoked.
type ResetPasswordUseCase struct {
	userRepo          adapter.UserRepository
	passwordService   adapter.PasswordService
	resetTokenService adapter.PasswordResetTokenService
	tokenService      adapter.TokenService
}

// NewResetPasswordUseCase creates a new ResetPasswordUseCase instance.
func NewResetPasswordUseCase(
	userRepo adapter.UserRepository,
	passwordService adapter.PasswordService,
	resetTokenService adapter.PasswordResetTokenService,
	tokenService adapter.TokenService,
) *ResetPasswordUseCase {
	return &ResetPasswordUseCase{
		userRepo:          userRepo,
		passwordService:   passwordService,
		resetTokenService: resetTokenService,
		tokenService:      tokenService,
	}
}

// Execute performs the reset.
func (uc *ResetPasswordUseCase) Execute(ctx context.Context, input ResetPasswordInput) error {
	token, err := uc.resetTokenService.ValidateResetToken(ctx, input.Token)
	if err != nil && !errors.Is(err, domainerror.ErrInvalidResetToken) {
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if err != nil {
		return domainerror.NewAuthError(
			domainerror.ErrCodeInvalidResetToken,
			"invalid or expired password reset token",
			domainerror.ErrInvalidResetToken,
		)
	}
	if time.Now().UTC().After(token.ExpiresAt) {
		return domainerror.NewAuthError(
			domainerror.ErrCodeExpiredResetToken,
			"password reset token has expired",
			domainerror.ErrInvalidResetToken,
		)
	}

	if err := validatePassword(uc.passwordService, input.NewPassword); err != nil {
		return err
	}

	user, err := findUser(ctx, uc.userRepo, token.UserID)
	if err != nil {
		return err
	}

	hash, err := uc.passwordService.HashPassword(input.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user password: %w", err)
	}

	if err := uc.resetTokenService.InvalidateResetToken(ctx, input.Token); err != nil {
		slog.Warn("Failed to invalidate reset token", "error", err, "userID", user.ID)
	}
	if err := uc.tokenService.InvalidateAllUserTokens(ctx, user.ID); err != nil {
		slog.Warn("Failed to revoke sessions after password reset", "error", err, "userID", user.ID)
	}

	slog.Info("Password reset", "userID", user.ID)
	return nil
}
