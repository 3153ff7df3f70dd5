package booking

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"astraguru/backend"
	"astraguru/models"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/require"
)

// memFlowRepo keeps flows in a map so state-machine tests can inspect them.
type memFlowRepo struct {
	mu    sync.Mutex
	flows map[string]models.BookingFlow
}

func newMemFlowRepo() *memFlowRepo {
	return &memFlowRepo{flows: make(map[string]models.BookingFlow)}
}

func (r *memFlowRepo) Get(_ context.Context, flowID string) (*models.BookingFlow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	flow, ok := r.flows[flowID]
	if !ok {
		return nil, ErrFlowNotFound
	}
	copied := flow
	return &copied, nil
}

func (r *memFlowRepo) Put(_ context.Context, flow models.BookingFlow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows[flow.FlowID] = flow
	return nil
}

func (r *memFlowRepo) Delete(_ context.Context, flowID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.flows, flowID)
	return nil
}

func (r *memFlowRepo) stage(flowID string) models.BookingStage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flows[flowID].Stage
}

// fakeBookingAPI scripts the booking endpoints.
type fakeBookingAPI struct {
	createCalls int
	createFn    func(req backend.BookingRequest) (models.Booking, int, error)
	cancelFn    func(bookingID, userID, reason string) (models.Booking, int, error)
}

func (f *fakeBookingAPI) CreateBooking(_ context.Context, req backend.BookingRequest) (models.Booking, int, error) {
	f.createCalls++
	if f.createFn == nil {
		return models.Booking{}, 0, errors.New("unexpected CreateBooking call")
	}
	return f.createFn(req)
}

func (f *fakeBookingAPI) CancelBooking(_ context.Context, bookingID, userID, reason string) (models.Booking, int, error) {
	return f.cancelFn(bookingID, userID, reason)
}

// fakeAvailabilityAPI counts fetches so cache behavior is observable.
type fakeAvailabilityAPI struct {
	fetchCalls int
	slots      []models.TimeSlot
}

func (f *fakeAvailabilityAPI) GetAvailability(_ context.Context, _, _ string) ([]models.TimeSlot, error) {
	f.fetchCalls++
	return f.slots, nil
}

// fakeGuruAPI serves a fixed consultation-type catalogue.
type fakeGuruAPI struct {
	types []models.ConsultationType
}

func (f *fakeGuruAPI) ListGurus(_ context.Context) ([]models.Guru, error) {
	return nil, nil
}

func (f *fakeGuruAPI) GetConsultationTypes(_ context.Context, _ string) ([]models.ConsultationType, error) {
	return f.types, nil
}

// fakeLedger is a scripted credit ledger: balance moves only through
// Reconcile or Refresh, mirroring the authoritative-overwrite contract.
// refreshTo, when set, is the balance a Refresh pulls from the backend.
type fakeLedger struct {
	balance      int
	reconciled   []int
	refreshCalls int
	refreshTo    int
}

func (f *fakeLedger) Deduct(_ context.Context, _ string, _ int, _ string) (models.BalanceChange, error) {
	return models.BalanceChange{}, errors.New("unexpected Deduct call")
}

func (f *fakeLedger) Add(_ context.Context, _ string, _ models.TransactionKind, _ int, _ string, _ *models.PackageInfo) (models.BalanceChange, error) {
	return models.BalanceChange{}, errors.New("unexpected Add call")
}

func (f *fakeLedger) Refresh(_ context.Context, _ string) (int, error) {
	f.refreshCalls++
	if f.refreshTo != 0 {
		f.balance = f.refreshTo
	}
	return f.balance, nil
}

func (f *fakeLedger) Reconcile(_ context.Context, _ string, currentCredits int) error {
	f.reconciled = append(f.reconciled, currentCredits)
	f.balance = currentCredits
	return nil
}

func (f *fakeLedger) Balance(_ context.Context, _ string) (int, error) {
	return f.balance, nil
}

func (f *fakeLedger) HasEnoughCredits(_ context.Context, _ string, amount int) (bool, error) {
	return f.balance >= amount, nil
}

// fakeJournal records journal writes.
type fakeJournal struct {
	mu       sync.Mutex
	bookings []models.Booking
	statuses map[string]models.BookingStatus
	txs      []models.CreditTransaction
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{statuses: make(map[string]models.BookingStatus)}
}

func (f *fakeJournal) RecordTransaction(_ context.Context, tx models.CreditTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txs = append(f.txs, tx)
	return nil
}

func (f *fakeJournal) SetTransactionStatus(_ context.Context, _, _ string) error { return nil }

func (f *fakeJournal) ListTransactions(_ context.Context, _ string) ([]models.CreditTransaction, error) {
	return nil, nil
}

func (f *fakeJournal) RecordBooking(_ context.Context, booking models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings = append(f.bookings, booking)
	return nil
}

func (f *fakeJournal) SetBookingStatus(_ context.Context, bookingID string, status models.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[bookingID] = status
	return nil
}

func (f *fakeJournal) ListBookings(_ context.Context, _ string) ([]models.Booking, error) {
	return nil, nil
}

// flowFixture wires a DefaultBookingFlowService with observable fakes and a
// mocked cache client.
type flowFixture struct {
	svc       *DefaultBookingFlowService
	flows     *memFlowRepo
	bookings  *fakeBookingAPI
	avail     *fakeAvailabilityAPI
	gurus     *fakeGuruAPI
	ledger    *fakeLedger
	journal   *fakeJournal
	cacheMock redismock.ClientMock
}

const (
	testAvailabilityTTL = 5 * time.Minute
	testTypesTTL        = 10 * time.Minute
)

func newFlowFixture(t *testing.T) *flowFixture {
	t.Helper()
	cacheClient, cacheMock := redismock.NewClientMock()

	f := &flowFixture{
		flows:     newMemFlowRepo(),
		bookings:  &fakeBookingAPI{},
		avail:     &fakeAvailabilityAPI{},
		gurus:     &fakeGuruAPI{},
		ledger:    &fakeLedger{},
		journal:   newFakeJournal(),
		cacheMock: cacheMock,
	}
	f.svc = &DefaultBookingFlowService{
		API:          f.bookings,
		Availability: &AvailabilityCache{API: f.avail, Cache: cacheClient, TTL: testAvailabilityTTL},
		Types:        &ConsultationTypeCache{API: f.gurus, Cache: cacheClient, TTL: testTypesTTL},
		Ledger:       f.ledger,
		Journal:      f.journal,
		Flows:        f.flows,
	}
	return f
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

// expectCacheMiss scripts a read-through: miss, then the write-back.
func expectCacheMiss(mock redismock.ClientMock, key, storedJSON string, ttl time.Duration) {
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, storedJSON, ttl).SetVal("OK")
}
