package credit

import (
	"context"

	"astraguru/backend"
	"astraguru/database/repository/journal"
	"astraguru/models"
)

// SessionState is the slice of the session store the ledger needs.
type SessionState interface {
	Get(ctx context.Context, userID string) (*models.UserSession, error)
	Put(ctx context.Context, sess models.UserSession) error
	SetBalance(ctx context.Context, userID string, currentCredits int) error
}

// LedgerService mediates every credit mutation. The displayed balance is
// always the most recent backend-reported value, never a client-computed sum.
type LedgerService interface {
	Deduct(ctx context.Context, userID string, amount int, reason string) (models.BalanceChange, error)
	Add(ctx context.Context, userID string, kind models.TransactionKind, amount int, reason string, pkg *models.PackageInfo) (models.BalanceChange, error)
	Refresh(ctx context.Context, userID string) (int, error)
	Reconcile(ctx context.Context, userID string, currentCredits int) error
	Balance(ctx context.Context, userID string) (int, error)
	HasEnoughCredits(ctx context.Context, userID string, amount int) (bool, error)
}

// DefaultLedgerService implements LedgerService.
type DefaultLedgerService struct {
	API      backend.CreditAPI
	Sessions SessionState
	Journal  journal.JournalRepository

	locks userLocks
}
