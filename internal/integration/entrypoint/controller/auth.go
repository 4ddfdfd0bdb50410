// Package controller holds the gin handlers of the HTTP API.
package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/installment-tracker/backend/internal/application/usecase/auth"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
	"github.com/installment-tracker/backend/internal/integration/entrypoint/dto"
)

// AuthUseCases groups the account flows served under /auth.
type AuthUseCases struct {
	Register       *auth.RegisterUserUseCase
	Login          *auth.LoginUserUseCase
	Refresh        *auth.RefreshTokenUseCase
	Logout         *auth.LogoutUserUseCase
	ForgotPassword *auth.ForgotPasswordUseCase
	ResetPassword  *auth.ResetPasswordUseCase
	CurrentUser    *auth.GetCurrentUserUseCase
	UpdateProfile  *auth.UpdateProfileUseCase
}

// AuthController serves sign-up, sessions, password reset and the profile.
type AuthController struct {
	uc AuthUseCases
}

func NewAuthController(uc AuthUseCases) *AuthController {
	return &AuthController{uc: uc}
}

// Register handles POST /auth/register.
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeMissingFields)) {
		return
	}

	session, err := c.uc.Register.Execute(ctx.Request.Context(), auth.RegisterUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		writeAuthError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.ToAuthResponse(session.AccessToken, session.RefreshToken, session.User))
}

// Login handles POST /auth/login.
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeMissingFields)) {
		return
	}

	session, err := c.uc.Login.Execute(ctx.Request.Context(), auth.LoginUserInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeAuthError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToAuthResponse(session.AccessToken, session.RefreshToken, session.User))
}

// RefreshToken handles POST /auth/refresh. The presented refresh token is
// rotated.
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeMissingToken)) {
		return
	}

	pair, err := c.uc.Refresh.Execute(ctx.Request.Context(), auth.RefreshTokenInput{RefreshToken: req.RefreshToken})
	if err != nil {
		writeAuthError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.TokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// Logout handles POST /auth/logout. A missing or unknown token still logs out.
func (c *AuthController) Logout(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if ctx.ShouldBindJSON(&req) == nil {
		if err := c.uc.Logout.Execute(ctx.Request.Context(), auth.LogoutUserInput{RefreshToken: req.RefreshToken}); err != nil {
			slog.Warn("Failed to revoke refresh token on logout", "error", err)
		}
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Successfully logged out"})
}

// ForgotPassword handles POST /auth/forgot-password. The answer is the same
// whether or not the address is registered.
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeInvalidEmail)) {
		return
	}

	message, err := c.uc.ForgotPassword.Execute(ctx.Request.Context(), auth.ForgotPasswordInput{Email: req.Email})
	if err != nil {
		writeAuthError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: message})
}

// ResetPassword handles POST /auth/reset-password.
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeMissingFields)) {
		return
	}

	err := c.uc.ResetPassword.Execute(ctx.Request.Context(), auth.ResetPasswordInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		writeAuthError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Password has been reset successfully"})
}

// Me handles GET /auth/me.
func (c *AuthController) Me(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	user, err := c.uc.CurrentUser.Execute(ctx.Request.Context(), userID)
	if err != nil {
		writeAuthError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// UpdateMe handles PATCH /auth/me.
func (c *AuthController) UpdateMe(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(ctx, &req, string(domainerror.ErrCodeMissingFields)) {
		return
	}

	user, err := c.uc.UpdateProfile.Execute(ctx.Request.Context(), auth.UpdateProfileInput{
		UserID:         userID,
		Name:           req.Name,
		EmailReminders: req.EmailReminders,
	})
	if err != nil {
		writeAuthError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func writeAuthError(ctx *gin.Context, err error) {
	var authErr *domainerror.AuthError
	if !errors.As(err, &authErr) {
		slog.Error("Auth request failed", "error", err, "path", ctx.FullPath())
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "An internal error occurred"})
		return
	}
	ctx.JSON(authStatus(authErr.Code), dto.ErrorResponse{Error: authErr.Message, Code: string(authErr.Code)})
}

// authStatus maps an AUTH code to a status by category. Sign-in and token
// failures are 401; sign-up and reset failures are 400.
func authStatus(code domainerror.AuthErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmailExists:
		return http.StatusConflict
	case domainerror.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	}

	category := strings.TrimPrefix(string(code), "AUTH-")
	switch {
	case strings.HasPrefix(category, "02"), strings.HasPrefix(category, "03"):
		return http.StatusUnauthorized
	case strings.HasPrefix(category, "01"), strings.HasPrefix(category, "04"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
