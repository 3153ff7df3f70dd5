package credit

import (
	"context"
	"testing"

	"astraguru/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFlags struct {
	granted bool
}

func (f *fakeFlags) FreeHoroscopeGranted(_ context.Context, _ string) (bool, error) {
	return f.granted, nil
}

func (f *fakeFlags) MarkFreeHoroscopeGranted(_ context.Context, _ string) error {
	f.granted = true
	return nil
}

func TestGrantFreeHoroscopeOnce(t *testing.T) {
	sessions := newFakeSessions(models.UserSession{UserID: "user-1", CreditBalance: 0})
	api := &fakeCreditAPI{
		addFn: func(_ string, amount int, _ string, _ *models.PackageInfo) (models.BalanceChange, error) {
			return models.BalanceChange{AddedAmount: amount, CurrentCredits: amount}, nil
		},
	}
	svc := &GrantService{
		Ledger: &DefaultLedgerService{API: api, Sessions: sessions},
		Flags:  &fakeFlags{},
	}

	change, granted, err := svc.GrantFreeHoroscope(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, FreeHoroscopeCredits, change.CurrentCredits)
	assert.Equal(t, FreeHoroscopeCredits, sessions.balance("user-1"))

	// The grant never stacks.
	_, granted, err = svc.GrantFreeHoroscope(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, granted)
	assert.Equal(t, 1, api.addCalls)
	assert.Equal(t, FreeHoroscopeCredits, sessions.balance("user-1"))
}
