package credit

import (
	"context"
	"errors"
	"sync"
	"time"

	"astraguru/backend"
	"astraguru/models"
	"astraguru/utils"

	"go.uber.org/zap"
)

// userLocks serializes operations per user: a second spend must not be
// authorized against a balance that has not been reconciled from the first
// spend's response yet.
type userLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (l *userLocks) forUser(userID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.m == nil {
		l.m = make(map[string]*sync.Mutex)
	}
	lock, ok := l.m[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.m[userID] = lock
	}
	return lock
}

// Deduct charges the user through the backend ledger. The caller should have
// pre-checked the local balance, but that check is a UX shortcut only: the
// backend's answer is authoritative and overwrites the stored balance either
// way. On a network failure the local state is left untouched.
func (s *DefaultLedgerService) Deduct(ctx context.Context, userID string, amount int, reason string) (models.BalanceChange, error) {
	lock := s.locks.forUser(userID)
	lock.Lock()
	defer lock.Unlock()

	logger := utils.GetLogger()

	tx := models.CreditTransaction{
		TransactionID: NewTransactionID(userID, reason),
		UserID:        userID,
		Kind:          models.TransactionSpend,
		Amount:        amount,
		Reason:        reason,
		Status:        models.TransactionPending,
		Timestamp:     time.Now(),
	}
	s.journalRecord(ctx, tx)

	change, err := s.API.Deduct(ctx, userID, amount, reason)
	if err != nil {
		var insufficient *backend.InsufficientCreditsError
		switch {
		case errors.As(err, &insufficient):
			// The ledger said no. When the rejection reported a balance it may
			// differ from ours (concurrent spend from another device); trust the
			// fresher value. A bare rejection reports nothing, so fetch the
			// balance instead of inventing one.
			if !insufficient.HasBalance {
				if fetched, ferr := s.API.GetCredits(ctx, userID); ferr == nil {
					insufficient.CurrentCredits = fetched.CurrentCredits
					insufficient.HasBalance = true
				} else {
					logger.Warn("failed to fetch balance after rejection",
						zap.String("userID", userID), zap.Error(ferr))
				}
			}
			if insufficient.HasBalance {
				if rerr := s.Sessions.SetBalance(ctx, userID, insufficient.CurrentCredits); rerr != nil {
					logger.Error("failed to reconcile balance after rejection",
						zap.String("userID", userID), zap.Error(rerr))
				}
			}
			s.journalStatus(ctx, tx.TransactionID, models.TransactionFailed)
		case isNetworkError(err):
			// No authoritative answer; leave balance and journal entry as-is
			// so a later refresh can resolve the ambiguity.
		default:
			s.journalStatus(ctx, tx.TransactionID, models.TransactionFailed)
		}
		return models.BalanceChange{}, err
	}

	if err := s.Sessions.SetBalance(ctx, userID, change.CurrentCredits); err != nil {
		logger.Error("failed to store deducted balance",
			zap.String("userID", userID), zap.Error(err))
	}
	s.journalStatus(ctx, tx.TransactionID, models.TransactionConfirmed)
	return change, nil
}

// Add credits the user (purchase fallback, referral grant, refund).
func (s *DefaultLedgerService) Add(ctx context.Context, userID string, kind models.TransactionKind, amount int, reason string, pkg *models.PackageInfo) (models.BalanceChange, error) {
	lock := s.locks.forUser(userID)
	lock.Lock()
	defer lock.Unlock()

	ref := reason
	if pkg != nil {
		ref = pkg.PackageID
	}
	tx := models.CreditTransaction{
		TransactionID: NewTransactionID(userID, ref),
		UserID:        userID,
		Kind:          kind,
		Amount:        amount,
		Reason:        reason,
		Status:        models.TransactionPending,
		Timestamp:     time.Now(),
	}
	s.journalRecord(ctx, tx)

	change, err := s.API.Add(ctx, userID, amount, reason, pkg)
	if err != nil {
		if !isNetworkError(err) {
			s.journalStatus(ctx, tx.TransactionID, models.TransactionFailed)
		}
		return models.BalanceChange{}, err
	}

	if err := s.Sessions.SetBalance(ctx, userID, change.CurrentCredits); err != nil {
		utils.GetLogger().Error("failed to store added balance",
			zap.String("userID", userID), zap.Error(err))
	}
	s.journalStatus(ctx, tx.TransactionID, models.TransactionConfirmed)
	return change, nil
}

// Refresh unconditionally replaces the local balance with the backend's.
// Used whenever an operation's outcome is ambiguous (e.g. a timeout).
func (s *DefaultLedgerService) Refresh(ctx context.Context, userID string) (int, error) {
	lock := s.locks.forUser(userID)
	lock.Lock()
	defer lock.Unlock()

	balance, err := s.API.GetCredits(ctx, userID)
	if err != nil {
		return 0, err
	}

	sess, err := s.Sessions.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	if sess == nil {
		return 0, &backend.UserNotFoundError{UserID: userID}
	}
	sess.CreditBalance = balance.CurrentCredits
	sess.CreditLimit = balance.CreditsLimit
	if err := s.Sessions.Put(ctx, *sess); err != nil {
		return 0, err
	}
	return balance.CurrentCredits, nil
}

// Reconcile overwrites the local balance with a backend-reported value that
// arrived embedded in another response (booking confirmation, purchase).
func (s *DefaultLedgerService) Reconcile(ctx context.Context, userID string, currentCredits int) error {
	return s.Sessions.SetBalance(ctx, userID, currentCredits)
}

// Balance returns the last confirmed balance without contacting the backend.
func (s *DefaultLedgerService) Balance(ctx context.Context, userID string) (int, error) {
	sess, err := s.Sessions.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	if sess == nil {
		return 0, &backend.UserNotFoundError{UserID: userID}
	}
	return sess.CreditBalance, nil
}

// HasEnoughCredits is a pure pre-flight check over the last confirmed
// balance. It gates UX only; the backend remains the final authorizer.
func (s *DefaultLedgerService) HasEnoughCredits(ctx context.Context, userID string, amount int) (bool, error) {
	sess, err := s.Sessions.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	if sess == nil {
		return false, &backend.UserNotFoundError{UserID: userID}
	}
	return sess.CreditBalance >= amount, nil
}

func (s *DefaultLedgerService) journalRecord(ctx context.Context, tx models.CreditTransaction) {
	if s.Journal == nil {
		return
	}
	if err := s.Journal.RecordTransaction(ctx, tx); err != nil {
		utils.GetLogger().Warn("failed to journal transaction",
			zap.String("transactionID", tx.TransactionID), zap.Error(err))
	}
}

func (s *DefaultLedgerService) journalStatus(ctx context.Context, transactionID, status string) {
	if s.Journal == nil {
		return
	}
	if err := s.Journal.SetTransactionStatus(ctx, transactionID, status); err != nil {
		utils.GetLogger().Warn("failed to update journal status",
			zap.String("transactionID", transactionID), zap.Error(err))
	}
}

func isNetworkError(err error) bool {
	var netErr *backend.NetworkError
	return errors.As(err, &netErr)
}
