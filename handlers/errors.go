package handlers

import (
	"errors"
	"net/http"

	"astraguru/backend"
	"astraguru/services/booking"
	"astraguru/services/chat"
	"astraguru/services/purchase"
	"astraguru/services/settings"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the coordinator error taxonomy onto HTTP
// responses. Every branch resolves to a recoverable UI state; nothing here
// is fatal.
func respondServiceError(c *gin.Context, userID string, err error) {
	var insufficient *backend.InsufficientCreditsError
	var conflict *backend.SlotConflictError
	var limit *backend.LimitExceededError
	var notFound *backend.UserNotFoundError
	var network *backend.NetworkError
	var flowState *booking.FlowStateError
	var tooShort *booking.SlotTooShortError
	var missing *booking.MissingFieldError
	var emptyMsg *chat.EmptyMessageError
	var badSetting *settings.InvalidSettingError

	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusPaymentRequired, gin.H{
			"success":         false,
			"error":           "Insufficient credits",
			"currentCredits":  insufficient.CurrentCredits,
			"requiredCredits": insufficient.RequiredCredits,
			"redirect":        "purchase",
		})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"success":  false,
			"error":    "Slot no longer available",
			"reselect": true,
		})
	case errors.As(err, &limit):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":        false,
			"error":          "Credit limit exceeded",
			"limitInfo":      limit.Limit,
			"packages":       limit.AvailablePackages,
			"contactInfo":    limit.ContactInfo,
			"supportMessage": purchase.EscalationMessage(userID, limit),
		})
	case errors.As(err, &notFound):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Session invalid, please sign in again"})
	case errors.Is(err, booking.ErrFlowNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Booking flow expired"})
	case errors.As(err, &flowState),
		errors.As(err, &tooShort),
		errors.As(err, &missing),
		errors.As(err, &emptyMsg),
		errors.As(err, &badSetting):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.As(err, &network):
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Please try again later"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Something went wrong"})
	}
}

// currentUserID reads the user id stored by the auth middleware.
func currentUserID(c *gin.Context) string {
	if val, ok := c.Get("userID"); ok {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}
