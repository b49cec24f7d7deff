package vesting

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScheduleUnlockedAt(t *testing.T) {
	s := &Schedule{
		StartTS:         1_000,
		CliffDuration:   100,
		CliffAmount:     500,
		PeriodDuration:  60,
		AmountPerPeriod: 100,
		DepositedAmount: 2_000,
	}

	t.Run("before cliff", func(t *testing.T) {
		require.EqualValues(t, 0, s.UnlockedAt(1_099))
		require.EqualValues(t, 2_000, s.LockedAt(1_099))
	})

	t.Run("at cliff", func(t *testing.T) {
		require.EqualValues(t, 500, s.UnlockedAt(1_100))
		require.EqualValues(t, 1_500, s.LockedAt(1_100))
	})

	t.Run("mid period truncates", func(t *testing.T) {
		// 59s after the cliff: no full period elapsed yet.
		require.EqualValues(t, 500, s.UnlockedAt(1_159))
		require.EqualValues(t, 600, s.UnlockedAt(1_160))
	})

	t.Run("several periods", func(t *testing.T) {
		require.EqualValues(t, 800, s.UnlockedAt(1_100+3*60))
		require.EqualValues(t, 1_200, s.LockedAt(1_100+3*60))
	})

	t.Run("caps at remaining deposit", func(t *testing.T) {
		require.EqualValues(t, 2_000, s.UnlockedAt(1_100+100*60))
		require.EqualValues(t, 0, s.LockedAt(1_100+100*60))
	})
}

func TestScheduleZeroPeriodDuration(t *testing.T) {
	s := &Schedule{
		StartTS:         0,
		CliffDuration:   10,
		CliffAmount:     300,
		PeriodDuration:  0,
		AmountPerPeriod: 100,
		DepositedAmount: 1_000,
	}
	// Only the cliff amount ever unlocks.
	require.EqualValues(t, 300, s.UnlockedAt(1_000_000))
	require.EqualValues(t, 700, s.LockedAt(1_000_000))
}

func TestScheduleWithdrawnReducesUnlockable(t *testing.T) {
	s := &Schedule{
		StartTS:         0,
		CliffDuration:   0,
		CliffAmount:     1_000,
		PeriodDuration:  1,
		AmountPerPeriod: 1_000,
		DepositedAmount: 5_000,
		WithdrawnAmount: 4_500,
	}
	// Unlockable is capped at deposited - withdrawn.
	require.EqualValues(t, 500, s.UnlockedAt(100))
	require.EqualValues(t, 4_500, s.LockedAt(100))
}

func TestScheduleFullyUnlocked(t *testing.T) {
	s := &Schedule{
		DepositedAmount: 1_000,
		CliffAmount:     1_000,
	}
	require.EqualValues(t, 0, s.LockedAt(0))
}
