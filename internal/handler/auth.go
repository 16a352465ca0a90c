package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/propertyvision/api/internal/config"
	"github.com/propertyvision/api/internal/mailer"
	"github.com/propertyvision/api/internal/repository"
	"github.com/propertyvision/api/internal/utils"
)

// AuthHandler bundles dependencies for admin account endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Admins *repository.AdminRepo
	Tokens *repository.ResetTokenRepo
	Mailer *mailer.Mailer
	Log    *zap.Logger
}

func NewAuthHandler(cfg config.Config, admins *repository.AdminRepo, tokens *repository.ResetTokenRepo, m *mailer.Mailer, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{Cfg: cfg, Admins: admins, Tokens: tokens, Mailer: m, Log: log}
}

// ----- DTOs -----

type registerReq struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	MobileNumber string `json:"mobileNumber"`
	Address      string `json:"address"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a subadmin account and returns a token immediately.
// Self-registration never grants the admin role; promotion goes through
// UpdateAdmin by an existing admin.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" || req.MobileNumber == "" || req.Address == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "all fields are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a := &repository.Admin{
		Username:     req.Username,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Address:      req.Address,
		Role:         repository.RoleSubadmin,
	}
	if _, err := h.Admins.Create(ctx, a, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "user already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "create account failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.ID, a.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "issue token failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "token": access.Token, "user": a})
}

// Login verifies credentials and returns a fresh one-day token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	if !utils.VerifyPassword(a.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.ID, a.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "issue token failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "token": access.Token, "user": a})
}

// ForgotPassword issues a reset token and emails the reset link. The
// response is identical whether or not the email exists, so the endpoint
// cannot be used to enumerate accounts.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "email required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	const accepted = "if the email exists, a reset link has been sent"

	a, err := h.Admins.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"success": true, "message": accepted})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}

	tok, err := utils.NewResetToken(h.Cfg.ResetTokenTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "issue reset token failed"})
	}
	// Void older links first so only the most recent email works.
	_ = h.Tokens.InvalidateForAdmin(ctx, a.ID)
	if err := h.Tokens.Store(ctx, a.ID, utils.HashResetRaw(tok.Raw), tok.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "save reset token failed"})
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(h.Cfg.AppBaseURL, "/"), tok.Raw)
	if err := h.Mailer.SendResetEmail(ctx, a.Email, a.Username, resetURL); err != nil {
		h.Log.Error("reset email delivery failed", zap.String("email", a.Email), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "email could not be sent"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": accepted})
}

// ResetPassword consumes a reset token and sets the new password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "token and password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	hash := utils.HashResetRaw(strings.TrimSpace(req.Token))
	adminID, err := h.Tokens.Validate(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenInvalid) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid or expired reset token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	if err := h.Admins.UpdatePassword(ctx, adminID, req.Password, h.Cfg.BcryptCost); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "update password failed"})
	}
	_ = h.Tokens.MarkUsed(ctx, hash)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "password updated successfully"})
}

// ChangePassword verifies the current password before setting a new one.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	adminID, err := getAdminID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "all fields are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Admins.GetByID(ctx, adminID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "load account failed"})
	}
	if !utils.VerifyPassword(a.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "current password is incorrect"})
	}
	if err := h.Admins.UpdatePassword(ctx, adminID, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "update password failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "password updated successfully"})
}

// Profile returns the authenticated admin's account.
func (h *AuthHandler) Profile(c echo.Context) error {
	adminID, err := getAdminID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": a})
}

// ListAdmins returns every account. Admin-only.
func (h *AuthHandler) ListAdmins(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	admins, err := h.Admins.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": admins})
}

// UpdateAdmin overwrites an account's profile fields, including role. Admin-only.
func (h *AuthHandler) UpdateAdmin(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	var req struct {
		Username     string `json:"username"`
		MobileNumber string `json:"mobileNumber"`
		Address      string `json:"address"`
		Role         string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != repository.RoleAdmin && role != repository.RoleSubadmin {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "role must be admin or subadmin"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Admins.Update(ctx, id, req.Username, req.MobileNumber, req.Address, role); err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "update failed"})
	}
	a, _ := h.Admins.GetByID(ctx, id)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": a})
}

// DeleteAdmin removes an account permanently. Admin-only.
func (h *AuthHandler) DeleteAdmin(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Admins.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "admin deleted successfully"})
}
