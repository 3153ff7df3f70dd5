// Package purchase drives credit-package purchases with client-generated
// idempotent transaction ids, so a timed-out request can be retried without
// risk of a double charge.
package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"astraguru/backend"
	"astraguru/database/repository/journal"
	"astraguru/models"
	"astraguru/services/credit"
	"astraguru/utils"

	"go.uber.org/zap"
)

// PurchaseService drives the credit-package purchase flow.
type PurchaseService interface {
	Purchase(ctx context.Context, userID, packageID string) (*models.PurchaseOutcome, error)
	Retry(ctx context.Context, userID, packageID, transactionID string) (*models.PurchaseOutcome, error)
	Packages(ctx context.Context) ([]models.CreditPackage, error)
}

// DefaultPurchaseService implements PurchaseService.
type DefaultPurchaseService struct {
	API     backend.PurchaseAPI
	Ledger  credit.LedgerService
	Journal journal.JournalRepository
}

// Purchase submits a purchase under a fresh transaction id. The id is
// journaled before the network call; if the call times out, Retry with the
// same id resolves the ambiguity through the backend's duplicate detection.
func (s *DefaultPurchaseService) Purchase(ctx context.Context, userID, packageID string) (*models.PurchaseOutcome, error) {
	if packageID == "" {
		return nil, fmt.Errorf("packageId is required")
	}
	transactionID := credit.NewTransactionID(userID, packageID)
	s.journalRecord(ctx, models.CreditTransaction{
		TransactionID: transactionID,
		UserID:        userID,
		Kind:          models.TransactionPurchase,
		Reason:        "package:" + packageID,
		Status:        models.TransactionPending,
		Timestamp:     time.Now(),
	})
	return s.execute(ctx, userID, packageID, transactionID)
}

// Retry resubmits a purchase whose outcome was ambiguous, reusing the
// original transaction id.
func (s *DefaultPurchaseService) Retry(ctx context.Context, userID, packageID, transactionID string) (*models.PurchaseOutcome, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("transactionId is required")
	}
	return s.execute(ctx, userID, packageID, transactionID)
}

func (s *DefaultPurchaseService) execute(ctx context.Context, userID, packageID, transactionID string) (*models.PurchaseOutcome, error) {
	logger := utils.GetLogger()

	conf, err := s.API.Purchase(ctx, backend.PurchaseRequest{
		UserID:        userID,
		PackageID:     packageID,
		TransactionID: transactionID,
	})
	if err == nil {
		if rerr := s.Ledger.Reconcile(ctx, userID, conf.CurrentCredits); rerr != nil {
			logger.Error("failed to store post-purchase balance",
				zap.String("userID", userID), zap.Error(rerr))
		}
		s.journalStatus(ctx, transactionID, models.TransactionConfirmed)
		return &models.PurchaseOutcome{
			Success:        true,
			TransactionID:  conf.TransactionID,
			BaseCredits:    conf.BaseCredits,
			BonusCredits:   conf.BonusCredits,
			TotalCredits:   conf.TotalCredits,
			CurrentCredits: conf.CurrentCredits,
		}, nil
	}

	var duplicate *backend.DuplicateTransactionError
	var limit *backend.LimitExceededError
	switch {
	case errors.As(err, &duplicate):
		// The original request went through; this retry is a success the
		// user never needs to hear about. Refresh to pick up the balance.
		balance, rerr := s.Ledger.Refresh(ctx, userID)
		if rerr != nil {
			return nil, rerr
		}
		s.journalStatus(ctx, transactionID, models.TransactionConfirmed)
		return &models.PurchaseOutcome{
			Success:        true,
			Duplicate:      true,
			TransactionID:  transactionID,
			CurrentCredits: balance,
		}, nil
	case errors.As(err, &limit):
		s.journalStatus(ctx, transactionID, models.TransactionFailed)
		return nil, err
	default:
		// Network or unknown failure: the journal entry stays pending so
		// the same transaction id can be retried safely.
		return nil, err
	}
}

// Packages lists the purchasable credit packages.
func (s *DefaultPurchaseService) Packages(ctx context.Context) ([]models.CreditPackage, error) {
	return s.API.ListPackages(ctx)
}

// EscalationMessage builds the pre-filled support-contact message for a
// purchase-limit rejection. Exceeding the per-account cap requires manual
// approval; this is the escalation path, not an error to bury.
func EscalationMessage(userID string, e *backend.LimitExceededError) string {
	return fmt.Sprintf(
		"Hello, I am user %s. I have used %d of my %d credit purchase limit and would like approval to purchase %d more credits. Contact: %s",
		userID, e.Limit.Used, e.Limit.Limit, e.Limit.Requested, e.ContactInfo,
	)
}

func (s *DefaultPurchaseService) journalRecord(ctx context.Context, tx models.CreditTransaction) {
	if s.Journal == nil {
		return
	}
	if err := s.Journal.RecordTransaction(ctx, tx); err != nil {
		utils.GetLogger().Warn("failed to journal purchase",
			zap.String("transactionID", tx.TransactionID), zap.Error(err))
	}
}

func (s *DefaultPurchaseService) journalStatus(ctx context.Context, transactionID, status string) {
	if s.Journal == nil {
		return
	}
	if err := s.Journal.SetTransactionStatus(ctx, transactionID, status); err != nil {
		utils.GetLogger().Warn("failed to update purchase journal",
			zap.String("transactionID", transactionID), zap.Error(err))
	}
}
