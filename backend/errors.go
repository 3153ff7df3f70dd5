package backend

import "fmt"

// NetworkError means the backend gave no usable reply. Local state must be
// left untouched; retry or a balance refresh is the caller's call.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("backend unreachable during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// InsufficientCreditsError means the ledger rejected a spend. HasBalance
// marks whether the rejection actually carried a balance: some endpoints
// report the fresher value, others send a bare 402. Only a reported balance
// may overwrite the local one.
type InsufficientCreditsError struct {
	CurrentCredits  int
	RequiredCredits int
	HasBalance      bool
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: have %d, need %d", e.CurrentCredits, e.RequiredCredits)
}

// UserNotFoundError means the backend no longer knows the user; the local
// session is likely invalid.
type UserNotFoundError struct {
	UserID string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user %s not found", e.UserID)
}

// LimitExceededError is the backend-enforced purchase cap. The limit and
// usage numbers come straight from the rejection payload so the user can be
// shown exactly why and pointed at the manual-approval path.
type LimitExceededError struct {
	Limit             PurchaseLimitInfo
	AvailablePackages []PackageSummary
	ContactInfo       string
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("credit limit exceeded: used %d of %d, requested %d",
		e.Limit.Used, e.Limit.Limit, e.Limit.Requested)
}

// DuplicateTransactionError means the backend already processed this
// transaction id. Callers treat it as a success-equivalent outcome.
type DuplicateTransactionError struct {
	TransactionID string
}

func (e *DuplicateTransactionError) Error() string {
	return fmt.Sprintf("transaction %s already processed", e.TransactionID)
}

// SlotConflictError means another booking consumed the slot first. The
// availability cache for (guru, date) must be invalidated and refetched.
type SlotConflictError struct {
	GuruID string
	Date   string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot already taken for guru %s on %s", e.GuruID, e.Date)
}
