// Package handler provides the HTTP handlers of the auth feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"auratrack_backend/internal/feature/auth/domain/entity"
	"auratrack_backend/internal/feature/auth/transport/http/dto"
	"auratrack_backend/internal/feature/auth/usecase"
	jwtmw "auratrack_backend/internal/platform/jwt"
)

// invalidCredentials is the only message a failed login reveals.
const invalidCredentials = "invalid username or password"

// AuthUsecase defines the authentication operations the handler needs.
// Following Go convention, the interface is defined by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	Signup(ctx context.Context, username, password string) (*entity.User, error)
	Login(ctx context.Context, username, password string, meta usecase.SessionMeta) (*usecase.Tokens, error)
	Refresh(ctx context.Context, refreshToken string, meta usecase.SessionMeta) (*usecase.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	Session(ctx context.Context, userID string) (*entity.User, error)
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func sessionMeta(c *gin.Context) usecase.SessionMeta {
	return usecase.SessionMeta{UserAgent: c.Request.UserAgent(), IPAddress: c.ClientIP()}
}

func tokenRes(t *usecase.Tokens) dto.TokenRes {
	return dto.TokenRes{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken, ExpiresIn: t.ExpiresIn}
}

// Signup handles POST /auth/signup.
// - 400 on binding or input validation errors
// - 409 when the username already exists
// - 201 with the new user's id on success
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}
	user, err := h.auth.Signup(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrUsernameTaken):
		slog.Warn("signup rejected", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, usecase.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	default:
		slog.Error("signup failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "signup failed"})
		return
	}
	slog.Info("user signup successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.UserRes{ID: user.ID, Username: user.Username})
}

// Login handles POST /auth/login.
// Every failure is a 401 with the same message so callers cannot discover which usernames exist.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}
	tokens, err := h.auth.Login(c.Request.Context(), req.Username, req.Password, sessionMeta(c))
	if err != nil {
		slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: invalidCredentials})
		return
	}
	slog.Info("user login successful", "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, tokenRes(tokens))
}

// Refresh handles POST /auth/refresh and rotates the refresh token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}
	tokens, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, sessionMeta(c))
	if err != nil {
		slog.Warn("token refresh failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, tokenRes(tokens))
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}
	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		slog.Warn("logout failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid refresh token"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Session handles GET /auth/session behind jwtmw.AuthRequired.
func (h *AuthHandler) Session(c *gin.Context) {
	user, err := h.auth.Session(c.Request.Context(), c.GetString(jwtmw.ContextUserID))
	if err != nil {
		slog.Warn("session lookup failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, dto.SessionRes{UserID: user.ID, Username: user.Username, IsAuthenticated: true})
}
