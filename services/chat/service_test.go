package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"astraguru/backend"
	"astraguru/models"
	"astraguru/services/credit"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSessionState serves both the chat flow and the spend authorizer.
type fakeSessionState struct {
	sess              models.UserSession
	draft             string
	firstQuestionUsed bool
	draftWrites       []string
}

func (f *fakeSessionState) Get(_ context.Context, _ string) (*models.UserSession, error) {
	copied := f.sess
	return &copied, nil
}

func (f *fakeSessionState) Put(_ context.Context, sess models.UserSession) error {
	f.sess = sess
	return nil
}

func (f *fakeSessionState) SetBalance(_ context.Context, _ string, currentCredits int) error {
	f.sess.CreditBalance = currentCredits
	return nil
}

func (f *fakeSessionState) Draft(_ context.Context, _ string) (string, error) {
	return f.draft, nil
}

func (f *fakeSessionState) SetDraft(_ context.Context, _ string, text string) error {
	f.draft = text
	f.draftWrites = append(f.draftWrites, text)
	return nil
}

func (f *fakeSessionState) ClearDraft(_ context.Context, _ string) error {
	f.draft = ""
	return nil
}

func (f *fakeSessionState) FirstQuestionUsed(_ context.Context, _ string) (bool, error) {
	return f.firstQuestionUsed, nil
}

func (f *fakeSessionState) MarkFirstQuestionUsed(_ context.Context, _ string) error {
	f.firstQuestionUsed = true
	return nil
}

type fakeCreditAPI struct {
	deductCalls int
	deductFn    func(amount int) (models.BalanceChange, error)
}

func (f *fakeCreditAPI) GetCredits(_ context.Context, _ string) (models.Balance, error) {
	return models.Balance{}, errors.New("unexpected GetCredits call")
}

func (f *fakeCreditAPI) Deduct(_ context.Context, _ string, amount int, _ string) (models.BalanceChange, error) {
	f.deductCalls++
	return f.deductFn(amount)
}

func (f *fakeCreditAPI) Add(_ context.Context, _ string, _ int, _ string, _ *models.PackageInfo) (models.BalanceChange, error) {
	return models.BalanceChange{}, errors.New("unexpected Add call")
}

type chatFixture struct {
	svc      *DefaultChatService
	sessions *fakeSessionState
	api      *fakeCreditAPI
	mock     redismock.ClientMock
}

func chatClock() time.Time {
	return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
}

func newChatFixture(t *testing.T, sess models.UserSession) *chatFixture {
	t.Helper()
	client, mock := redismock.NewClientMock()
	sessions := &fakeSessionState{sess: sess}
	api := &fakeCreditAPI{}

	authorizer := &credit.SpendAuthorizer{
		Ledger:   &credit.DefaultLedgerService{API: api, Sessions: sessions},
		Sessions: sessions,
	}
	svc := NewChatService(authorizer, sessions, client)
	svc.now = chatClock
	svc.newID = func() string { return "msg-1" }

	return &chatFixture{svc: svc, sessions: sessions, api: api, mock: mock}
}

func messageJSON(t *testing.T, text string, pending bool) string {
	t.Helper()
	data, err := json.Marshal(models.ChatMessage{
		ID:        "msg-1",
		UserID:    "user-1",
		Text:      text,
		Pending:   pending,
		CreatedAt: chatClock(),
	})
	require.NoError(t, err)
	return string(data)
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	f := newChatFixture(t, models.UserSession{UserID: "user-1", CreditBalance: 50})

	_, err := f.svc.Send(context.Background(), "user-1", "")
	var empty *EmptyMessageError
	assert.ErrorAs(t, err, &empty)
	assert.Zero(t, f.api.deductCalls)
}

func TestSendFirstQuestionIsFree(t *testing.T) {
	f := newChatFixture(t, models.UserSession{UserID: "user-1", CreditBalance: 3})

	f.mock.ExpectRPush(TranscriptPrefix+"user-1", messageJSON(t, "will I travel", false)).SetVal(1)

	result, err := f.svc.Send(context.Background(), "user-1", "will I travel")
	require.NoError(t, err)
	assert.True(t, result.FirstQuestion)
	assert.Zero(t, result.ChargedCredits)
	assert.Equal(t, 3, result.CurrentCredits)

	// Even a 3-credit balance could not have paid; no ledger call was made.
	assert.Zero(t, f.api.deductCalls)
	assert.True(t, f.sessions.firstQuestionUsed)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSendChargesBySettings(t *testing.T) {
	f := newChatFixture(t, models.UserSession{
		UserID:        "user-1",
		CreditBalance: 50,
		Settings:      models.UserSettings{ResponseLength: models.ResponseNormal},
	})
	f.sessions.firstQuestionUsed = true
	f.sessions.draft = "will I travel"

	f.api.deductFn = func(amount int) (models.BalanceChange, error) {
		assert.Equal(t, 15, amount)
		return models.BalanceChange{PreviousCredits: 50, DeductedAmount: 15, CurrentCredits: 35}, nil
	}

	key := TranscriptPrefix + "user-1"
	f.mock.ExpectRPush(key, messageJSON(t, "will I travel", true)).SetVal(1)
	f.mock.ExpectLSet(key, -1, messageJSON(t, "will I travel", false)).SetVal("OK")

	result, err := f.svc.Send(context.Background(), "user-1", "will I travel")
	require.NoError(t, err)
	assert.Equal(t, 15, result.ChargedCredits)
	assert.Equal(t, 35, result.CurrentCredits)
	assert.False(t, result.Message.Pending)

	// Draft cleared after a confirmed send.
	assert.Empty(t, f.sessions.draft)
	assert.Equal(t, 35, f.sessions.sess.CreditBalance)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSendRollsBackOnNetworkFailure(t *testing.T) {
	f := newChatFixture(t, models.UserSession{
		UserID:        "user-1",
		CreditBalance: 50,
		Settings:      models.UserSettings{ResponseLength: models.ResponseNormal},
	})
	f.sessions.firstQuestionUsed = true
	f.sessions.draft = "will I travel"

	f.api.deductFn = func(_ int) (models.BalanceChange, error) {
		return models.BalanceChange{}, &backend.NetworkError{Op: "deduct", Err: errors.New("timeout")}
	}

	key := TranscriptPrefix + "user-1"
	pending := messageJSON(t, "will I travel", true)
	f.mock.ExpectRPush(key, pending).SetVal(1)
	f.mock.ExpectRPop(key).SetVal(pending)

	_, err := f.svc.Send(context.Background(), "user-1", "will I travel")
	var netErr *backend.NetworkError
	require.ErrorAs(t, err, &netErr)

	// The user's typed text survives the failure.
	assert.Equal(t, "will I travel", f.sessions.draft)
	assert.Equal(t, 50, f.sessions.sess.CreditBalance)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSendBlocksOnInsufficientBalance(t *testing.T) {
	f := newChatFixture(t, models.UserSession{
		UserID:        "user-1",
		CreditBalance: 12,
		Settings:      models.UserSettings{ResponseLength: models.ResponseNormal},
	})
	f.sessions.firstQuestionUsed = true
	f.sessions.draft = "will I travel"

	_, err := f.svc.Send(context.Background(), "user-1", "will I travel")

	var insufficient *backend.InsufficientCreditsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 12, insufficient.CurrentCredits)
	assert.Equal(t, 15, insufficient.RequiredCredits)

	// Blocked before any transcript write or ledger call.
	assert.Zero(t, f.api.deductCalls)
	assert.Equal(t, "will I travel", f.sessions.draft)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHistory(t *testing.T) {
	f := newChatFixture(t, models.UserSession{UserID: "user-1"})

	f.mock.ExpectLRange(TranscriptPrefix+"user-1", 0, -1).SetVal([]string{
		messageJSON(t, "first question", false),
		messageJSON(t, "second question", false),
	})

	messages, err := f.svc.History(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first question", messages[0].Text)
	assert.Equal(t, "second question", messages[1].Text)
}
