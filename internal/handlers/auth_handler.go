package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"wavemedia/internal/middleware"
	"wavemedia/internal/models"
	"wavemedia/internal/services"
)

const refreshCookieName = "refreshToken"

type AuthHandler struct {
	auth       services.AuthService
	refreshTTL time.Duration
	production bool
}

func NewAuthHandler(auth services.AuthService, refreshTTL time.Duration, production bool) *AuthHandler {
	return &AuthHandler{auth: auth, refreshTTL: refreshTTL, production: production}
}

// authError maps a domain failure to status + message; anything unknown is
// logged and becomes a generic 500.
func (h *AuthHandler) authError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, services.ErrAccountLocked):
		c.JSON(http.StatusForbidden, gin.H{"error": "account locked"})
	case errors.Is(err, services.ErrNotVerified):
		c.JSON(http.StatusForbidden, gin.H{"error": "Please verify your email before logging in"})
	case errors.Is(err, services.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
	case errors.Is(err, services.ErrInvalidInvite):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired invitation code"})
	case errors.Is(err, services.ErrBadAdminSecret):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, services.ErrRefreshMismatch),
		errors.Is(err, services.ErrTokenInvalid):
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid refresh token"})
	case errors.Is(err, services.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired"})
	case errors.Is(err, services.ErrNotManager):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only managers can be promoted"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		log.Errorf("[auth][%s] unexpected: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, token, int(h.refreshTTL.Seconds()), "/", "", h.production, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, "", -1, "/", "", h.production, true)
}

// @Summary      Self-registration
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.RegisterRequest  true  "Registration data"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/register-user [post]
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.auth.RegisterUser(req)
	if err != nil {
		h.authError(c, "register-user", err)
		return
	}
	log.Infof("[auth][register-user] created userID=%d", user.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered. Please verify your email.",
		"user":    user,
	})
}

func (h *AuthHandler) RegisterManager(c *gin.Context) {
	var req models.RegisterManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.auth.RegisterManager(req)
	if err != nil {
		h.authError(c, "register-manager", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Manager registered. Please verify your email.",
		"user":    user,
	})
}

func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	var req models.RegisterAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.auth.RegisterAdmin(req)
	if err != nil {
		h.authError(c, "register-admin", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Admin registered", "user": user})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	if err := h.auth.VerifyEmail(c.Query("token")); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired verification token"})
			return
		}
		h.authError(c, "verify-email", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.auth.ResendVerification(req.Email); err != nil {
		h.authError(c, "resend-verification", err)
		return
	}
	// same reply whether or not the account exists
	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a verification email was sent"})
}

// @Summary      Login
// @Description  Authenticates a user and returns access + refresh tokens
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.LoginRequest  true  "Credentials"
// @Success      200   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		h.authError(c, "login", err)
		return
	}
	h.setRefreshCookie(c, res.RefreshToken)
	log.Infof("[auth][login] success userID=%d role=%s", res.User.ID, res.User.Role)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    res.User,
		"tokens": gin.H{
			"access_token":  res.AccessToken,
			"refresh_token": res.RefreshToken,
		},
	})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&req)
	token := req.RefreshToken
	if token == "" {
		// fall back to the cookie set at login
		token, _ = c.Cookie(refreshCookieName)
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refresh token required"})
		return
	}
	access, err := h.auth.Refresh(token)
	if err != nil {
		h.authError(c, "refresh", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if err := h.auth.Logout(id); err != nil {
		h.authError(c, "logout", err)
		return
	}
	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.auth.ForgotPassword(req.Email); err != nil {
		h.authError(c, "forgot-password", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset email was sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.auth.ResetPassword(c.Query("token"), req.Password); err != nil {
		h.authError(c, "reset-password", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (h *AuthHandler) InviteManager(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	code, err := h.auth.InviteManager(req.Email)
	if err != nil {
		h.authError(c, "invite-manager", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Invitation sent", "invite_code": code})
}

func (h *AuthHandler) Promote(c *gin.Context) {
	id, ok := parseIDParam(c, "userId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	user, err := h.auth.Promote(id)
	if err != nil {
		h.authError(c, "promote", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User promoted to admin", "user": user})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	id, _ := middleware.UserID(c)
	user, err := h.auth.GetProfile(id)
	if err != nil {
		h.authError(c, "profile", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	id, _ := middleware.UserID(c)
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.auth.UpdateProfile(id, req)
	if err != nil {
		h.authError(c, "update-profile", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Deactivate(c *gin.Context) {
	id, _ := middleware.UserID(c)
	if err := h.auth.Deactivate(id); err != nil {
		h.authError(c, "deactivate", err)
		return
	}
	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Account deactivated"})
}
