// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/satyamraj1643/pine/internal/application/services"
	"github.com/satyamraj1643/pine/internal/infrastructure/messaging"
	"github.com/satyamraj1643/pine/internal/infrastructure/observability/logging"
	"github.com/satyamraj1643/pine/internal/presentation/http/middleware"
	"github.com/satyamraj1643/pine/pkg/config"
	"github.com/gin-gonic/gin"
)

// IdentityHandlers contains all identity-related HTTP handlers
type IdentityHandlers struct {
	identity    *services.IdentityService
	broadcaster *messaging.SessionBroadcaster
	logger      *logging.ChanneledLogger
}

// NewIdentityHandlers creates identity handlers with injected dependencies
func NewIdentityHandlers(identity *services.IdentityService, broadcaster *messaging.SessionBroadcaster, logger *logging.ChanneledLogger) *IdentityHandlers {
	return &IdentityHandlers{
		identity:    identity,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// PostSignup handles POST /signup - account creation with pending verification
func (h *IdentityHandlers) PostSignup(c *gin.Context) {
	start := time.Now()
	h.logger.Auth().Debug("Received signup request", "requestId", middleware.GetRequestID(c))

	var req struct {
		Name           string `json:"name" binding:"required"`
		Email          string `json:"email" binding:"required,email"`
		Password       string `json:"password" binding:"required,min=8"`
		RePassword     string `json:"re_password"`
		ProfilePicture string `json:"profile_picture"`
		Phone          string `json:"phone"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.identity.Signup(services.SignupRequest{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		RePassword:     req.RePassword,
		ProfilePicture: req.ProfilePicture,
		Phone:          req.Phone,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create account"})
		return
	}

	if !result.Success {
		h.logger.Auth().Warn("Signup rejected", "detail", result.Error, "duration", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{"detail": result.Error})
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.RecordSignup()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     true,
		"user_id":    result.User.ID,
		"email":      result.User.Email,
		"name":       result.User.Name,
		"isVerified": false,
	})
}

// PostVerifyOTP handles POST /verify-otp - one-time code verification
func (h *IdentityHandlers) PostVerifyOTP(c *gin.Context) {
	h.logger.Auth().Debug("Received verify-otp request", "requestId", middleware.GetRequestID(c))

	var req struct {
		Email string `json:"email" binding:"required,email"`
		OTP   string `json:"otp" binding:"required,len=6"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.identity.VerifyOTP(req.Email, req.OTP)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to verify code"})
		return
	}

	if !result.Success {
		c.JSON(http.StatusBadRequest, gin.H{"detail": result.Error})
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.RecordVerification()
	}

	h.setAuthCookie(c, result.Token)
	c.JSON(http.StatusOK, gin.H{
		"user_id":       result.User.ID,
		"name":          result.User.Name,
		"email":         result.User.Email,
		"isOtpVerified": true,
		"token":         result.Token,
	})
}

// PostLogin handles POST /login - credential authentication
func (h *IdentityHandlers) PostLogin(c *gin.Context) {
	h.logger.Auth().Debug("Received login request", "requestId", middleware.GetRequestID(c))

	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.identity.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create session"})
		return
	}

	if !result.Success {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": result.Error})
		return
	}

	if !result.OtpVerified {
		// Account exists but is not verified: the token is still issued so the
		// verify-otp call can be attributed, and the client routes into the
		// verification flow.
		h.setAuthCookie(c, result.Token)
		c.JSON(http.StatusOK, gin.H{
			"user_id":       result.User.ID,
			"message":       "account not verified",
			"isOtpVerified": false,
			"token":         result.Token,
			"name":          result.User.Name,
			"email":         result.User.Email,
		})
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.RecordLogin()
	}

	h.setAuthCookie(c, result.Token)
	c.JSON(http.StatusOK, gin.H{
		"user_id":       result.User.ID,
		"message":       "login successful",
		"isOtpVerified": true,
		"token":         result.Token,
		"name":          result.User.Name,
		"email":         result.User.Email,
	})
}

// GetValidate handles GET /auth/validate - session re-validation on boot
func (h *IdentityHandlers) GetValidate(c *gin.Context) {
	u, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "user context not found"})
		return
	}

	if !u.IsVerified {
		// Auto-send a fresh OTP when the account is not verified.
		if err := h.identity.ReissueOTP(u); err != nil {
			h.logger.Auth().Error("Failed to re-issue OTP during validate", "error", err, "userId", u.ID)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "token is valid",
		"user":    u.Public(),
	})
}

// PostLogout handles POST /auth/logout - best-effort session teardown
func (h *IdentityHandlers) PostLogout(c *gin.Context) {
	// Clear the auth cookie; the client drops any cached token on its own.
	c.SetCookie(config.AuthCookieName, "", -1, "/", "", false, true)

	if h.broadcaster != nil {
		h.broadcaster.RecordLogout()
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// PatchUpdateProfile handles PATCH /auth/update-profile
func (h *IdentityHandlers) PatchUpdateProfile(c *gin.Context) {
	u, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "user context not found"})
		return
	}

	var req struct {
		Name           string `json:"name" binding:"required"`
		ProfilePicture string `json:"profile_picture"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.identity.UpdateProfile(u, req.Name, req.ProfilePicture)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update profile"})
		return
	}

	if !result.Success {
		c.JSON(http.StatusBadRequest, gin.H{"detail": result.Error})
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": result.Name})
}

// GetIsActivated handles GET /auth/isActivated
func (h *IdentityHandlers) GetIsActivated(c *gin.Context) {
	u, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "user context not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"isActivated": u.IsVerified})
}

// setAuthCookie stores the session token in an HttpOnly cookie so browser
// clients keep working when localStorage is unavailable.
func (h *IdentityHandlers) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(config.AuthCookieName, token, config.CookieMaxAge, "/", "", true, true)
}
