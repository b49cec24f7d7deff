package distributor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGateOpen(t *testing.T) {
	start := int64(1_700_000_000)

	t.Run("never started", func(t *testing.T) {
		p := &CycleProgress{}
		require.True(t, p.GateOpen(start))
	})

	t.Run("inside the window", func(t *testing.T) {
		p := &CycleProgress{LastCycleStartTS: start}
		require.False(t, p.GateOpen(start))
		require.False(t, p.GateOpen(start+CycleSeconds-1))
	})

	t.Run("boundary and beyond", func(t *testing.T) {
		p := &CycleProgress{LastCycleStartTS: start}
		require.True(t, p.GateOpen(start+CycleSeconds))
		require.True(t, p.GateOpen(start+2*CycleSeconds))
	})
}

func TestBeginCycleResets(t *testing.T) {
	p := &CycleProgress{
		LastCycleStartTS:           1,
		CycleDayStartTS:            1,
		ClaimedThisCycle:           9,
		InvestorIntendedThisCycle:  9,
		CreatorShareThisCycle:      9,
		ActualDistributedThisCycle: 9,
		CarryOver:                  9,
		PageCursor:                 9,
	}
	now := int64(1_700_000_000)
	p.beginCycle(now, 1000, split{investorIntended: 600, creatorShare: 400})

	require.Equal(t, now, p.LastCycleStartTS)
	require.Equal(t, now, p.CycleDayStartTS)
	require.Equal(t, uint64(1000), p.ClaimedThisCycle)
	require.Equal(t, uint64(600), p.InvestorIntendedThisCycle)
	require.Equal(t, uint64(400), p.CreatorShareThisCycle)
	require.Zero(t, p.ActualDistributedThisCycle)
	require.Zero(t, p.CarryOver)
	require.Zero(t, p.PageCursor)
}
