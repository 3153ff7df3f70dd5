package backend

import (
	"context"
	"fmt"
	"net/http"

	"astraguru/models"
)

// PurchaseLimitInfo mirrors the backend's limitInfo payload on a cap rejection.
type PurchaseLimitInfo struct {
	Limit     int `json:"limit"`
	Used      int `json:"used"`
	Requested int `json:"requested"`
}

// PackageSummary is the trimmed package shape the backend attaches to a
// limit rejection so the UI can offer smaller alternatives.
type PackageSummary struct {
	ID          string `json:"id"`
	BaseCredits int    `json:"baseCredits"`
}

// PurchaseRequest is the payload for POST /purchase. TransactionID is the
// client-generated idempotency key; a retried request with the same id must
// be detected by the backend as a duplicate, never double-charged.
type PurchaseRequest struct {
	UserID        string `json:"userId"`
	PackageID     string `json:"packageId"`
	TransactionID string `json:"transactionId"`
}

// PurchaseConfirmation is the backend's authoritative purchase record.
type PurchaseConfirmation struct {
	TransactionID   string `json:"transactionId"`
	BaseCredits     int    `json:"baseCredits"`
	BonusCredits    int    `json:"bonusCredits"`
	TotalCredits    int    `json:"totalCredits"`
	PreviousCredits int    `json:"previousCredits"`
	CurrentCredits  int    `json:"currentCredits"`
}

type purchaseEnvelope struct {
	Success  bool `json:"success"`
	Purchase struct {
		TransactionID string `json:"transactionId"`
		BaseCredits   int    `json:"baseCredits"`
		BonusCredits  int    `json:"bonusCredits"`
		TotalCredits  int    `json:"totalCredits"`
	} `json:"purchase"`
	Balance struct {
		PreviousCredits int `json:"previousCredits"`
		CurrentCredits  int `json:"currentCredits"`
	} `json:"balance"`
	Error             string            `json:"error,omitempty"`
	LimitInfo         PurchaseLimitInfo `json:"limitInfo,omitempty"`
	AvailablePackages []PackageSummary  `json:"availablePackages,omitempty"`
	ContactInfo       string            `json:"contactInfo,omitempty"`
}

// Purchase submits a credit-package purchase.
func (c *Client) Purchase(ctx context.Context, req PurchaseRequest) (PurchaseConfirmation, error) {
	status, data, err := c.do(ctx, http.MethodPost, "/purchase", req)
	if err != nil {
		return PurchaseConfirmation{}, err
	}

	switch status {
	case http.StatusConflict:
		return PurchaseConfirmation{}, &DuplicateTransactionError{TransactionID: req.TransactionID}
	case http.StatusNotFound:
		return PurchaseConfirmation{}, &UserNotFoundError{UserID: req.UserID}
	}

	var env purchaseEnvelope
	if err := decode(data, &env); err != nil {
		return PurchaseConfirmation{}, err
	}
	if !env.Success {
		if status == http.StatusBadRequest && env.Error == "Credit limit exceeded" {
			return PurchaseConfirmation{}, &LimitExceededError{
				Limit:             env.LimitInfo,
				AvailablePackages: env.AvailablePackages,
				ContactInfo:       env.ContactInfo,
			}
		}
		return PurchaseConfirmation{}, fmt.Errorf("purchase rejected: %s", env.Error)
	}

	return PurchaseConfirmation{
		TransactionID:   env.Purchase.TransactionID,
		BaseCredits:     env.Purchase.BaseCredits,
		BonusCredits:    env.Purchase.BonusCredits,
		TotalCredits:    env.Purchase.TotalCredits,
		PreviousCredits: env.Balance.PreviousCredits,
		CurrentCredits:  env.Balance.CurrentCredits,
	}, nil
}

// ListPackages fetches the purchasable credit packages.
func (c *Client) ListPackages(ctx context.Context) ([]models.CreditPackage, error) {
	status, data, err := c.do(ctx, http.MethodGet, "/purchase/packages", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("package listing failed with status %d", status)
	}
	var packages []models.CreditPackage
	if err := decode(data, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}
