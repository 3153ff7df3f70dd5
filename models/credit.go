// models/credit.go
package models

import "time"

// TransactionKind classifies a credit transaction.
type TransactionKind string

const (
	TransactionPurchase TransactionKind = "purchase"
	TransactionSpend    TransactionKind = "spend"
	TransactionRefund   TransactionKind = "refund"
)

// Transaction journal statuses.
const (
	TransactionPending   = "pending"
	TransactionConfirmed = "confirmed"
	TransactionFailed    = "failed"
)

// CreditTransaction is the client-generated record of an intended balance
// mutation. It is written to the journal before the network call and never
// mutated afterwards apart from its confirmation status; the backend's
// returned balance supersedes it as truth.
type CreditTransaction struct {
	TransactionID string          `bson:"transactionId" json:"transactionId"`
	UserID        string          `bson:"userId" json:"userId"`
	Kind          TransactionKind `bson:"kind" json:"kind"`
	Amount        int             `bson:"amount" json:"amount"`
	Reason        string          `bson:"reason" json:"reason"`
	Status        string          `bson:"status" json:"status"`
	Timestamp     time.Time       `bson:"timestamp" json:"timestamp"`
}

// Balance is the backend-reported credit balance snapshot.
type Balance struct {
	CurrentCredits int `json:"currentCredits"`
	CreditsLimit   int `json:"creditsLimit"`
}

// BalanceChange is the backend's authoritative account of a deduct/add.
// CurrentCredits always replaces the local balance, never merges with it.
type BalanceChange struct {
	PreviousCredits int `json:"previousCredits"`
	DeductedAmount  int `json:"deductedAmount,omitempty"`
	AddedAmount     int `json:"addedAmount,omitempty"`
	CurrentCredits  int `json:"currentCredits"`
}

// PackageInfo describes the credit package attached to an add operation.
type PackageInfo struct {
	PackageID    string `json:"packageId"`
	BaseCredits  int    `json:"baseCredits"`
	BonusCredits int    `json:"bonusCredits"`
}
