package handlers

import (
	"net/http"

	"astraguru/models"
	"astraguru/utils"

	"github.com/gin-gonic/gin"
)

// ListPackagesHandler returns the purchasable credit packages.
func (hb *HandlerBundle) ListPackagesHandler(c *gin.Context) {
	userID := currentUserID(c)
	packages, err := hb.Purchases.Packages(c.Request.Context())
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "packages": packages})
}

type purchaseRequest struct {
	PackageID     string `json:"packageId" binding:"required"`
	TransactionID string `json:"transactionId,omitempty"`
}

// PurchaseHandler buys a credit package. When TransactionID is present the
// request is a retry of an ambiguous earlier attempt and reuses the id, so
// the backend can detect a duplicate instead of charging twice.
func (hb *HandlerBundle) PurchaseHandler(c *gin.Context) {
	userID := currentUserID(c)

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid purchase payload", err.Error())
		return
	}

	ctx := c.Request.Context()
	var outcome *models.PurchaseOutcome
	var err error
	if req.TransactionID != "" {
		outcome, err = hb.Purchases.Retry(ctx, userID, req.PackageID, req.TransactionID)
	} else {
		outcome, err = hb.Purchases.Purchase(ctx, userID, req.PackageID)
	}
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "outcome": outcome})
}
