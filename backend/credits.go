package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"astraguru/models"
)

type balanceEnvelope struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Balance models.Balance `json:"balance"`
}

// Balance is a pointer so an absent field is distinguishable from a zero
// balance; rejections are allowed to omit it.
type balanceChangeEnvelope struct {
	Success bool                  `json:"success"`
	Error   string                `json:"error,omitempty"`
	Balance *models.BalanceChange `json:"balance,omitempty"`
}

// GetCredits fetches the authoritative balance for a user.
func (c *Client) GetCredits(ctx context.Context, userID string) (models.Balance, error) {
	status, data, err := c.do(ctx, http.MethodGet, "/credits/"+userID, nil)
	if err != nil {
		return models.Balance{}, err
	}
	if status == http.StatusNotFound {
		return models.Balance{}, &UserNotFoundError{UserID: userID}
	}

	var env balanceEnvelope
	if err := decode(data, &env); err != nil {
		return models.Balance{}, err
	}
	if !env.Success {
		return models.Balance{}, fmt.Errorf("credit fetch rejected: %s", env.Error)
	}
	return env.Balance, nil
}

type deductRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

// Deduct asks the ledger to charge the user. The backend check is the
// authoritative one; any local pre-check was only a UX shortcut.
func (c *Client) Deduct(ctx context.Context, userID string, amount int, reason string) (models.BalanceChange, error) {
	status, data, err := c.do(ctx, http.MethodPost, "/credits/"+userID+"/deduct", deductRequest{
		Amount: amount,
		Reason: reason,
	})
	if err != nil {
		return models.BalanceChange{}, err
	}
	if status == http.StatusNotFound {
		return models.BalanceChange{}, &UserNotFoundError{UserID: userID}
	}

	var env balanceChangeEnvelope
	if err := decode(data, &env); err != nil {
		return models.BalanceChange{}, err
	}
	if env.Success {
		if env.Balance == nil {
			return models.BalanceChange{}, fmt.Errorf("deduct response missing balance")
		}
		return *env.Balance, nil
	}
	if status == http.StatusPaymentRequired || strings.Contains(env.Error, "Insufficient credits") {
		insufficient := &InsufficientCreditsError{RequiredCredits: amount}
		if env.Balance != nil {
			insufficient.CurrentCredits = env.Balance.CurrentCredits
			insufficient.HasBalance = true
		}
		return models.BalanceChange{}, insufficient
	}
	return models.BalanceChange{}, fmt.Errorf("deduct rejected: %s", env.Error)
}

type addRequest struct {
	Amount      int                 `json:"amount"`
	Reason      string              `json:"reason"`
	PackageInfo *models.PackageInfo `json:"packageInfo,omitempty"`
}

// Add credits the user, e.g. for referral grants or purchase fallbacks.
func (c *Client) Add(ctx context.Context, userID string, amount int, reason string, pkg *models.PackageInfo) (models.BalanceChange, error) {
	status, data, err := c.do(ctx, http.MethodPost, "/credits/"+userID+"/add", addRequest{
		Amount:      amount,
		Reason:      reason,
		PackageInfo: pkg,
	})
	if err != nil {
		return models.BalanceChange{}, err
	}
	if status == http.StatusNotFound {
		return models.BalanceChange{}, &UserNotFoundError{UserID: userID}
	}

	var env balanceChangeEnvelope
	if err := decode(data, &env); err != nil {
		return models.BalanceChange{}, err
	}
	if !env.Success {
		return models.BalanceChange{}, fmt.Errorf("credit add rejected: %s", env.Error)
	}
	if env.Balance == nil {
		return models.BalanceChange{}, fmt.Errorf("credit add response missing balance")
	}
	return *env.Balance, nil
}
