// Package dto holds the JSON shapes of the HTTP API. Field names are
// camelCase, money is a two-decimal string and dates are YYYY-MM-DD.
package dto

import (
	"time"

	"github.com/installment-tracker/backend/internal/domain/entity"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest is the body of both refresh and logout.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// UpdateProfileRequest is a partial update; nil fields are left untouched.
type UpdateProfileRequest struct {
	Name           *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	EmailReminders *bool   `json:"emailReminders,omitempty"`
}

// TokenResponse is the rotated pair returned by /auth/refresh.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	TokenResponse
	User UserResponse `json:"user"`
}

type UserResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	EmailReminders bool      `json:"emailReminders"`
	CreatedAt      time.Time `json:"createdAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx answer. Code is the domain error
// code when one applies.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func ToAuthResponse(accessToken, refreshToken string, user *entity.User) AuthResponse {
	return AuthResponse{
		TokenResponse: TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken},
		User:          ToUserResponse(user),
	}
}

func ToUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:             user.ID.String(),
		Email:          user.Email,
		Name:           user.Name,
		EmailReminders: user.EmailReminders,
		CreatedAt:      user.CreatedAt,
	}
}
