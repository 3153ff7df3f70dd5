package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BalanceHandler returns the last confirmed balance without a network call.
func (hb *HandlerBundle) BalanceHandler(c *gin.Context) {
	userID := currentUserID(c)
	balance, err := hb.Ledger.Balance(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "currentCredits": balance})
}

// RefreshBalanceHandler resynchronizes the balance with the backend. Used
// after any operation whose outcome was ambiguous.
func (hb *HandlerBundle) RefreshBalanceHandler(c *gin.Context) {
	userID := currentUserID(c)
	balance, err := hb.Ledger.Refresh(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "currentCredits": balance})
}

// TransactionHistoryHandler returns the locally journaled transactions.
func (hb *HandlerBundle) TransactionHistoryHandler(c *gin.Context) {
	userID := currentUserID(c)
	txs, err := hb.Journal.ListTransactions(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transactions": txs})
}

// FreeHoroscopeHandler applies the one-time free-horoscope credit grant.
func (hb *HandlerBundle) FreeHoroscopeHandler(c *gin.Context) {
	userID := currentUserID(c)
	change, granted, err := hb.Grants.GrantFreeHoroscope(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	if !granted {
		c.JSON(http.StatusOK, gin.H{"success": true, "granted": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "granted": true, "currentCredits": change.CurrentCredits})
}
