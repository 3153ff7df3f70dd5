package credit

import (
	"context"

	"astraguru/backend"
	"astraguru/models"
	"astraguru/utils"

	"go.uber.org/zap"
)

// Credit cost per answer tier. The mapping is a pure function of settings so
// retries and tests always compute the same cost.
const (
	costShort    = 10
	costNormal   = 15
	costDetailed = 20
)

// CostFor maps a response-length preference to its credit cost.
func CostFor(length models.ResponseLength) int {
	switch length {
	case models.ResponseShort:
		return costShort
	case models.ResponseDetailed:
		return costDetailed
	default:
		return costNormal
	}
}

// OptimisticCommand is the structured undo path for a spend-gated action.
// Apply runs the optimistic UI mutation before the deduct call, Confirm seals
// it with the backend's result, and Rollback undoes it so the user can retry
// without data loss.
type OptimisticCommand interface {
	Apply(ctx context.Context) error
	Confirm(ctx context.Context, change models.BalanceChange) error
	Rollback(ctx context.Context) error
}

// SpendAuthorizer gates user actions on the credit balance.
type SpendAuthorizer struct {
	Ledger   LedgerService
	Sessions SessionState
}

// AuthorizeSpend computes the action's cost from the user's current settings,
// pre-checks it against the last confirmed balance and, only when the check
// passes, applies the optimistic command and charges the ledger. An
// insufficient local balance blocks before any backend call or optimistic
// mutation happens.
func (a *SpendAuthorizer) AuthorizeSpend(ctx context.Context, userID, reason string, cmd OptimisticCommand) (models.BalanceChange, error) {
	sess, err := a.Sessions.Get(ctx, userID)
	if err != nil {
		return models.BalanceChange{}, err
	}
	if sess == nil {
		return models.BalanceChange{}, &backend.UserNotFoundError{UserID: userID}
	}

	cost := CostFor(sess.Settings.ResponseLength)
	if sess.CreditBalance < cost {
		return models.BalanceChange{}, &backend.InsufficientCreditsError{
			CurrentCredits:  sess.CreditBalance,
			RequiredCredits: cost,
			HasBalance:      true,
		}
	}

	if cmd != nil {
		if err := cmd.Apply(ctx); err != nil {
			return models.BalanceChange{}, err
		}
	}

	change, err := a.Ledger.Deduct(ctx, userID, cost, reason)
	if err != nil {
		if cmd != nil {
			// A failed rollback must not mask the deduct outcome; the caller
			// still needs the typed error to route the user.
			if rerr := cmd.Rollback(ctx); rerr != nil {
				utils.GetLogger().Error("rollback failed after rejected spend",
					zap.String("userID", userID), zap.Error(rerr))
			}
		}
		return models.BalanceChange{}, err
	}

	if cmd != nil {
		if err := cmd.Confirm(ctx, change); err != nil {
			return change, err
		}
	}
	return change, nil
}
