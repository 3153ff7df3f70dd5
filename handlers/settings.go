package handlers

import (
	"net/http"

	"astraguru/models"
	"astraguru/utils"

	"github.com/gin-gonic/gin"
)

// GetSettingsHandler fetches the authoritative settings and refreshes the
// local copy.
func (hb *HandlerBundle) GetSettingsHandler(c *gin.Context) {
	userID := currentUserID(c)
	settings, err := hb.Settings.Fetch(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": settings})
}

// UpdateSettingsHandler applies a preference change optimistically and
// synchronizes it with the backend. On a rejected update the response
// carries the authoritative settings the client must fall back to.
func (hb *HandlerBundle) UpdateSettingsHandler(c *gin.Context) {
	userID := currentUserID(c)

	var settings models.UserSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid settings payload", err.Error())
		return
	}

	applied, err := hb.Settings.Update(c.Request.Context(), userID, settings)
	if err != nil {
		if applied != (models.UserSettings{}) {
			c.JSON(http.StatusConflict, gin.H{
				"success":  false,
				"error":    "Settings update rejected, reverted to server values",
				"settings": applied,
			})
			return
		}
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": applied})
}
