package credit

import (
	"context"
	"errors"
	"testing"

	"astraguru/backend"
	"astraguru/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorderCommand records the lifecycle calls it receives.
type recorderCommand struct {
	calls       []string
	confirmedAt models.BalanceChange
	applyErr    error
	rollbackErr error
}

func (r *recorderCommand) Apply(_ context.Context) error {
	r.calls = append(r.calls, "apply")
	return r.applyErr
}

func (r *recorderCommand) Confirm(_ context.Context, change models.BalanceChange) error {
	r.calls = append(r.calls, "confirm")
	r.confirmedAt = change
	return nil
}

func (r *recorderCommand) Rollback(_ context.Context) error {
	r.calls = append(r.calls, "rollback")
	return r.rollbackErr
}

func TestCostFor(t *testing.T) {
	assert.Equal(t, 10, CostFor(models.ResponseShort))
	assert.Equal(t, 15, CostFor(models.ResponseNormal))
	assert.Equal(t, 20, CostFor(models.ResponseDetailed))
	// Unknown values fall back to the normal tier.
	assert.Equal(t, 15, CostFor(models.ResponseLength("epic")))
}

func TestAuthorizeSpendBlocksBeforeAnySideEffect(t *testing.T) {
	// Balance 12, normal answers cost 15: the spend must be denied without
	// touching the command or the backend.
	sessions := newFakeSessions(models.UserSession{
		UserID:        "user-1",
		CreditBalance: 12,
		Settings:      models.UserSettings{ResponseLength: models.ResponseNormal},
	})
	api := &fakeCreditAPI{}
	auth := &SpendAuthorizer{
		Ledger:   &DefaultLedgerService{API: api, Sessions: sessions},
		Sessions: sessions,
	}
	cmd := &recorderCommand{}

	_, err := auth.AuthorizeSpend(context.Background(), "user-1", "chat_answer", cmd)

	var insufficient *backend.InsufficientCreditsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 12, insufficient.CurrentCredits)
	assert.Equal(t, 15, insufficient.RequiredCredits)
	assert.Empty(t, cmd.calls)
	assert.Zero(t, api.deductCalls)
	assert.Equal(t, 12, sessions.balance("user-1"))
}

func TestAuthorizeSpendHappyPath(t *testing.T) {
	sessions := newFakeSessions(models.UserSession{
		UserID:        "user-2",
		CreditBalance: 50,
		Settings:      models.UserSettings{ResponseLength: models.ResponseShort},
	})
	api := &fakeCreditAPI{
		deductFn: func(_ string, amount int, _ string) (models.BalanceChange, error) {
			return models.BalanceChange{PreviousCredits: 50, DeductedAmount: amount, CurrentCredits: 40}, nil
		},
	}
	auth := &SpendAuthorizer{
		Ledger:   &DefaultLedgerService{API: api, Sessions: sessions},
		Sessions: sessions,
	}
	cmd := &recorderCommand{}

	change, err := auth.AuthorizeSpend(context.Background(), "user-2", "chat_answer", cmd)
	require.NoError(t, err)

	assert.Equal(t, []string{"apply", "confirm"}, cmd.calls)
	assert.Equal(t, change, cmd.confirmedAt)
	assert.Equal(t, 40, sessions.balance("user-2"))
	assert.Equal(t, 1, api.deductCalls)
}

func TestAuthorizeSpendRollsBackOnFailure(t *testing.T) {
	sessions := newFakeSessions(models.UserSession{
		UserID:        "user-3",
		CreditBalance: 50,
		Settings:      models.UserSettings{ResponseLength: models.ResponseDetailed},
	})
	api := &fakeCreditAPI{
		deductFn: func(_ string, _ int, _ string) (models.BalanceChange, error) {
			return models.BalanceChange{}, &backend.NetworkError{Op: "deduct", Err: errors.New("timeout")}
		},
	}
	auth := &SpendAuthorizer{
		Ledger:   &DefaultLedgerService{API: api, Sessions: sessions},
		Sessions: sessions,
	}
	cmd := &recorderCommand{}

	_, err := auth.AuthorizeSpend(context.Background(), "user-3", "chat_answer", cmd)
	require.Error(t, err)

	assert.Equal(t, []string{"apply", "rollback"}, cmd.calls)
	assert.Equal(t, 50, sessions.balance("user-3"))
}

func TestAuthorizeSpendKeepsDeductErrorWhenRollbackFails(t *testing.T) {
	// The caller routes on the deduct error's type; a failing rollback must
	// not replace it.
	sessions := newFakeSessions(models.UserSession{
		UserID:        "user-5",
		CreditBalance: 50,
		Settings:      models.UserSettings{ResponseLength: models.ResponseDetailed},
	})
	api := &fakeCreditAPI{
		deductFn: func(_ string, _ int, _ string) (models.BalanceChange, error) {
			return models.BalanceChange{}, &backend.InsufficientCreditsError{
				CurrentCredits:  8,
				RequiredCredits: 20,
				HasBalance:      true,
			}
		},
	}
	auth := &SpendAuthorizer{
		Ledger:   &DefaultLedgerService{API: api, Sessions: sessions},
		Sessions: sessions,
	}
	cmd := &recorderCommand{rollbackErr: errors.New("storage down")}

	_, err := auth.AuthorizeSpend(context.Background(), "user-5", "chat_answer", cmd)

	var insufficient *backend.InsufficientCreditsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 8, insufficient.CurrentCredits)
	assert.Equal(t, []string{"apply", "rollback"}, cmd.calls)
}

func TestAuthorizeSpendApplyFailureSkipsDeduct(t *testing.T) {
	sessions := newFakeSessions(models.UserSession{
		UserID:        "user-4",
		CreditBalance: 50,
		Settings:      models.UserSettings{ResponseLength: models.ResponseNormal},
	})
	api := &fakeCreditAPI{}
	auth := &SpendAuthorizer{
		Ledger:   &DefaultLedgerService{API: api, Sessions: sessions},
		Sessions: sessions,
	}
	cmd := &recorderCommand{applyErr: errors.New("storage down")}

	_, err := auth.AuthorizeSpend(context.Background(), "user-4", "chat_answer", cmd)
	require.Error(t, err)
	assert.Zero(t, api.deductCalls)
}
