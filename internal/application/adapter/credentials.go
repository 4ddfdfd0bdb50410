package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PasswordService hashes and checks account passwords.
type PasswordService interface {
	HashPassword(password string) (string, error)
	// VerifyPassword returns nil only when password matches the stored hash.
	VerifyPassword(hashedPassword, password string) error
	// ValidatePasswordStrength returns a user-facing reason when a new
	// password is not acceptable.
	ValidatePasswordStrength(password string) error
}

// TokenPair is the session handed to a client: a short-lived access token for
// the API and a single-use refresh token to obtain the next pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenClaims identifies the account a token was issued to.
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// TokenService issues and checks session tokens. Validation errors wrap
// domain ErrExpiredToken or ErrInvalidToken.
type TokenService interface {
	GenerateTokenPair(ctx context.Context, userID uuid.UUID, email string) (*TokenPair, error)
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)
	// ValidateRefreshToken checks signature and expiry only. Use
	// IsRefreshTokenValid for revocation.
	ValidateRefreshToken(ctx context.Context, token string) (*TokenClaims, error)
	IsRefreshTokenValid(ctx context.Context, token string) (bool, error)
	InvalidateRefreshToken(ctx context.Context, token string) error
	// InvalidateAllUserTokens ends every session of the user, e.g. after a
	// password reset.
	InvalidateAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// RefreshTokenStore keeps a record of issued refresh tokens so they can be
// revoked before they expire.
type RefreshTokenStore interface {
	SaveRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error
	IsRefreshTokenValid(ctx context.Context, token string) (bool, error)
	InvalidateRefreshToken(ctx context.Context, token string) error
	InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

// PasswordResetToken is a single-use credential mailed to the account owner.
type PasswordResetToken struct {
	Token     string
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// ResetTokenStore persists password reset tokens.
type ResetTokenStore interface {
	SavePasswordResetToken(ctx context.Context, token *PasswordResetToken) error
	// GetPasswordResetToken returns nil when the token is unknown or already used.
	GetPasswordResetToken(ctx context.Context, token string) (*PasswordResetToken, error)
	InvalidatePasswordResetToken(ctx context.Context, token string) error
}

// PasswordResetTokenService issues and redeems password reset tokens.
type PasswordResetTokenService interface {
	GenerateResetToken(ctx context.Context, userID uuid.UUID, email string) (*PasswordResetToken, error)
	// ValidateResetToken fails for unknown and used tokens. Expiry is left to
	// the caller.
	ValidateResetToken(ctx context.Context, token string) (*PasswordResetToken, error)
	InvalidateResetToken(ctx context.Context, token string) error
}
