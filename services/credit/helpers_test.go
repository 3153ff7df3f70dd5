package credit

import (
	"context"
	"sync"

	"astraguru/models"
)

// fakeSessions is an in-memory stand-in for the session store.
type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]models.UserSession
}

func newFakeSessions(sessions ...models.UserSession) *fakeSessions {
	f := &fakeSessions{sessions: make(map[string]models.UserSession)}
	for _, s := range sessions {
		f.sessions[s.UserID] = s
	}
	return f
}

func (f *fakeSessions) Get(_ context.Context, userID string) (*models.UserSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sess, ok := f.sessions[userID]
	if !ok {
		return nil, nil
	}
	copied := sess
	return &copied, nil
}

func (f *fakeSessions) Put(_ context.Context, sess models.UserSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[sess.UserID] = sess
	return nil
}

func (f *fakeSessions) SetBalance(_ context.Context, userID string, currentCredits int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sess := f.sessions[userID]
	sess.CreditBalance = currentCredits
	f.sessions[userID] = sess
	return nil
}

func (f *fakeSessions) balance(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[userID].CreditBalance
}

// fakeCreditAPI scripts the ledger endpoints and counts invocations.
type fakeCreditAPI struct {
	deductCalls int
	addCalls    int

	deductFn func(userID string, amount int, reason string) (models.BalanceChange, error)
	addFn    func(userID string, amount int, reason string, pkg *models.PackageInfo) (models.BalanceChange, error)
	creditsFn func(userID string) (models.Balance, error)
}

func (f *fakeCreditAPI) GetCredits(_ context.Context, userID string) (models.Balance, error) {
	return f.creditsFn(userID)
}

func (f *fakeCreditAPI) Deduct(_ context.Context, userID string, amount int, reason string) (models.BalanceChange, error) {
	f.deductCalls++
	return f.deductFn(userID, amount, reason)
}

func (f *fakeCreditAPI) Add(_ context.Context, userID string, amount int, reason string, pkg *models.PackageInfo) (models.BalanceChange, error) {
	f.addCalls++
	return f.addFn(userID, amount, reason, pkg)
}

// fakeJournal records journal writes in memory.
type fakeJournal struct {
	mu       sync.Mutex
	records  []models.CreditTransaction
	statuses map[string][]string
	bookings []models.Booking
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{statuses: make(map[string][]string)}
}

func (f *fakeJournal) RecordTransaction(_ context.Context, tx models.CreditTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, tx)
	return nil
}

func (f *fakeJournal) SetTransactionStatus(_ context.Context, transactionID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[transactionID] = append(f.statuses[transactionID], status)
	return nil
}

func (f *fakeJournal) ListTransactions(_ context.Context, userID string) ([]models.CreditTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CreditTransaction
	for _, tx := range f.records {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeJournal) RecordBooking(_ context.Context, booking models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings = append(f.bookings, booking)
	return nil
}

func (f *fakeJournal) SetBookingStatus(_ context.Context, _ string, _ models.BookingStatus) error {
	return nil
}

func (f *fakeJournal) ListBookings(_ context.Context, _ string) ([]models.Booking, error) {
	return nil, nil
}

func (f *fakeJournal) lastStatus(transactionID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	history := f.statuses[transactionID]
	if len(history) == 0 {
		return ""
	}
	return history[len(history)-1]
}
