package handlers

import (
	"net/http"
	"time"

	"astraguru/models"
	"astraguru/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginRequest struct {
	UserID   string               `json:"userId" binding:"required"`
	Email    string               `json:"email" binding:"required,email"`
	Settings *models.UserSettings `json:"settings,omitempty"`
}

// LoginHandler bootstraps the device session: it stores the user record,
// seeds settings from the login payload, then pulls the authoritative
// balance and settings from the backend. The payload settings are only a
// transient seed; the fetch path wins whenever it succeeds.
func (hb *HandlerBundle) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid login payload", err.Error())
		return
	}
	ctx := c.Request.Context()
	logger := utils.GetLogger()

	sess := models.UserSession{
		UserID: req.UserID,
		Email:  req.Email,
	}
	if err := hb.Sessions.Put(ctx, sess); err != nil {
		respondServiceError(c, req.UserID, err)
		return
	}

	if req.Settings != nil {
		if err := hb.Settings.Seed(ctx, req.UserID, *req.Settings); err != nil {
			logger.Warn("failed to seed settings from login", zap.String("userID", req.UserID), zap.Error(err))
		}
	}

	balance, err := hb.Ledger.Refresh(ctx, req.UserID)
	if err != nil {
		respondServiceError(c, req.UserID, err)
		return
	}
	if _, err := hb.Settings.Fetch(ctx, req.UserID); err != nil {
		// Seeded settings stay in place until the backend is reachable.
		logger.Warn("settings fetch failed on login, keeping seed",
			zap.String("userID", req.UserID), zap.Error(err))
	}

	token, err := utils.GenerateToken(req.UserID, req.Email, 72*time.Hour)
	if err != nil {
		respondServiceError(c, req.UserID, err)
		return
	}

	current, err := hb.Sessions.Get(ctx, req.UserID)
	if err != nil || current == nil {
		respondServiceError(c, req.UserID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"session": current,
		"balance": balance,
	})
}

// LogoutHandler destroys every per-user key on the device.
func (hb *HandlerBundle) LogoutHandler(c *gin.Context) {
	userID := currentUserID(c)
	if err := hb.Sessions.Logout(c.Request.Context(), userID); err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MeHandler returns the current session record.
func (hb *HandlerBundle) MeHandler(c *gin.Context) {
	userID := currentUserID(c)
	sess, err := hb.Sessions.Get(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "No active session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": sess})
}
