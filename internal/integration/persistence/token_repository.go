package persistence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/installment-tracker/backend/internal/application/adapter"
	"github.com/installment-tracker/backend/internal/integration/persistence/model"
)

// TokenRepository persists refresh and password reset tokens. Tokens are
// looked up by their SHA-256, so a leaked table cannot be replayed.
type TokenRepository interface {
	adapter.RefreshTokenStore
	adapter.ResetTokenStore
	// DeleteExpiredTokens removes refresh and reset tokens past their expiry.
	DeleteExpiredTokens(ctx context.Context) (int64, error)
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository instance.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (r *tokenRepository) SaveRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Create(&model.RefreshTokenModel{
		ID:        uuid.New(),
		TokenHash: hashToken(token),
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}).Error
}

// IsRefreshTokenValid reports whether the token was issued here, is not
// revoked and has not expired.
func (r *tokenRepository) IsRefreshTokenValid(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", hashToken(token), time.Now().UTC()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *tokenRepository) InvalidateRefreshToken(ctx context.Context, token string) error {
	return r.revoke(ctx, "token_hash = ?", hashToken(token))
}

func (r *tokenRepository) InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	return r.revoke(ctx, "user_id = ?", userID)
}

func (r *tokenRepository) revoke(ctx context.Context, query string, arg any) error {
	return r.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where(query, arg).
		Where("revoked_at IS NULL").
		Update("revoked_at", time.Now().UTC()).Error
}

func (r *tokenRepository) SavePasswordResetToken(ctx context.Context, token *adapter.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(&model.PasswordResetTokenModel{
		ID:        uuid.New(),
		TokenHash: hashToken(token.Token),
		UserID:    token.UserID,
		Email:     token.Email,
		ExpiresAt: token.ExpiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}).Error
}

// GetPasswordResetToken returns nil when the token is unknown or already used.
// Expired tokens are returned so the caller can report them distinctly.
func (r *tokenRepository) GetPasswordResetToken(ctx context.Context, token string) (*adapter.PasswordResetToken, error) {
	var row model.PasswordResetTokenModel
	err := r.db.WithContext(ctx).
		Where("token_hash = ? AND used_at IS NULL", hashToken(token)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &adapter.PasswordResetToken{
		Token:     token,
		UserID:    row.UserID,
		Email:     row.Email,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

func (r *tokenRepository) InvalidatePasswordResetToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Model(&model.PasswordResetTokenModel{}).
		Where("token_hash = ? AND used_at IS NULL", hashToken(token)).
		Update("used_at", time.Now().UTC()).Error
}

func (r *tokenRepository) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&model.RefreshTokenModel{}, &model.PasswordResetTokenModel{}} {
			result := tx.Where("expires_at < ?", now).Delete(m)
			if result.Error != nil {
				return fmt.Errorf("failed to delete expired tokens: %w", result.Error)
			}
			deleted += result.RowsAffected
		}
		return nil
	})
	return deleted, err
}
