package mock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/installment-tracker/backend/internal/application/adapter"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
)

// PasswordService stores passwords with a reversible prefix. Passwords shorter
// than eight characters are rejected.
type PasswordService struct{}

func (PasswordService) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (PasswordService) VerifyPassword(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

func (PasswordService) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// TokenService issues opaque sequential tokens and tracks revocation.
type TokenService struct {
	mu      sync.Mutex
	seq     int
	refresh map[string]adapter.TokenClaims
	revoked map[string]bool
}

// NewTokenService creates an empty TokenService.
func NewTokenService() *TokenService {
	return &TokenService{
		refresh: make(map[string]adapter.TokenClaims),
		revoked: make(map[string]bool),
	}
}

func (s *TokenService) GenerateTokenPair(_ context.Context, userID uuid.UUID, email string) (*adapter.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	refresh := fmt.Sprintf("refresh-%d", s.seq)
	s.refresh[refresh] = adapter.TokenClaims{UserID: userID, Email: email, ExpiresAt: time.Now().Add(time.Hour)}
	return &adapter.TokenPair{AccessToken: fmt.Sprintf("access-%d", s.seq), RefreshToken: refresh}, nil
}

func (s *TokenService) ValidateAccessToken(_ context.Context, _ string) (*adapter.TokenClaims, error) {
	return nil, errors.New("not supported")
}

func (s *TokenService) ValidateRefreshToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	claims, ok := s.refresh[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &claims, nil
}

func (s *TokenService) InvalidateRefreshToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = true
	return nil
}

func (s *TokenService) InvalidateAllUserTokens(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, claims := range s.refresh {
		if claims.UserID == userID {
			s.revoked[token] = true
		}
	}
	return nil
}

func (s *TokenService) IsRefreshTokenValid(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.refresh[token]
	return ok && !s.revoked[token], nil
}

// ResetTokenService keeps reset tokens in memory.
type ResetTokenService struct {
	mu     sync.Mutex
	tokens map[string]adapter.PasswordResetToken
	TTL    time.Duration
}

// NewResetTokenService creates a ResetTokenService with a one hour TTL.
func NewResetTokenService() *ResetTokenService {
	return &ResetTokenService{tokens: make(map[string]adapter.PasswordResetToken), TTL: time.Hour}
}

func (s *ResetTokenService) GenerateResetToken(_ context.Context, userID uuid.UUID, email string) (*adapter.PasswordResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := adapter.PasswordResetToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		Email:     email,
		ExpiresAt: time.Now().UTC().Add(s.TTL),
	}
	s.tokens[t.Token] = t
	return &t, nil
}

func (s *ResetTokenService) ValidateResetToken(_ context.Context, token string) (*adapter.PasswordResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok {
		return nil, domainerror.ErrInvalidResetToken
	}
	return &t, nil
}

func (s *ResetTokenService) InvalidateResetToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

// Latest returns the most recently issued token for an email.
func (s *ResetTokenService) Latest(email string) (adapter.PasswordResetToken, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest adapter.PasswordResetToken
	found := false
	for _, t := range s.tokens {
		if t.Email == email && (!found || t.ExpiresAt.After(latest.ExpiresAt)) {
			latest, found = t, true
		}
	}
	return latest, found
}

// EmailService records queued emails.
type EmailService struct {
	mu             sync.Mutex
	PasswordResets []adapter.QueuePasswordResetInput
	Reminders      []adapter.QueueInstallmentReminderInput
	Err            error
}

func (s *EmailService) QueuePasswordResetEmail(_ context.Context, input adapter.QueuePasswordResetInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.PasswordResets = append(s.PasswordResets, input)
	return nil
}

func (s *EmailService) QueueInstallmentReminderEmail(_ context.Context, input adapter.QueueInstallmentReminderInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Reminders = append(s.Reminders, input)
	return nil
}

// EmailSender records delivered emails and can be told to fail.
type EmailSender struct {
	mu   sync.Mutex
	Sent []adapter.OutgoingEmail
	Err  error
}

func (s *EmailSender) Send(_ context.Context, input adapter.OutgoingEmail) (*adapter.SentEmail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.Sent = append(s.Sent, input)
	return &adapter.SentEmail{ResendID: fmt.Sprintf("mock-%d", len(s.Sent))}, nil
}

var (
	_ adapter.EmailSender               = (*EmailSender)(nil)
	_ adapter.PasswordService           = PasswordService{}
	_ adapter.TokenService              = (*TokenService)(nil)
	_ adapter.PasswordResetTokenService = (*ResetTokenService)(nil)
	_ adapter.EmailService              = (*EmailService)(nil)
)
