package credit

import (
	"context"

	"astraguru/models"
)

// FreeHoroscopeCredits is the one-time grant for the free daily horoscope.
const FreeHoroscopeCredits = 5

// GrantFlags is the slice of the session store tracking one-shot grants.
type GrantFlags interface {
	FreeHoroscopeGranted(ctx context.Context, userID string) (bool, error)
	MarkFreeHoroscopeGranted(ctx context.Context, userID string) error
}

// GrantService applies one-time promotional credit grants.
type GrantService struct {
	Ledger LedgerService
	Flags  GrantFlags
}

// GrantFreeHoroscope credits the user once per account. Repeated calls are
// no-ops guarded by the persisted flag, so the grant never stacks.
func (g *GrantService) GrantFreeHoroscope(ctx context.Context, userID string) (models.BalanceChange, bool, error) {
	granted, err := g.Flags.FreeHoroscopeGranted(ctx, userID)
	if err != nil {
		return models.BalanceChange{}, false, err
	}
	if granted {
		return models.BalanceChange{}, false, nil
	}

	change, err := g.Ledger.Add(ctx, userID, models.TransactionPurchase, FreeHoroscopeCredits, "free_horoscope_grant", nil)
	if err != nil {
		return models.BalanceChange{}, false, err
	}
	if err := g.Flags.MarkFreeHoroscopeGranted(ctx, userID); err != nil {
		return change, true, err
	}
	return change, true, nil
}
