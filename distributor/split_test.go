package distributor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeSplit(t *testing.T) {
	t.Run("policy share caps eligibility", func(t *testing.T) {
		pol := &Policy{Y0: 1_000_000_000_000, InvestorShareBps: 5000}
		s, err := computeSplit(pol, 10_000, 0, 750_000_000_000)
		require.NoError(t, err)
		require.Equal(t, uint16(5000), s.eligibleBps)
		require.Equal(t, uint64(5000), s.investorIntended)
		require.Equal(t, uint64(5000), s.creatorShare)
	})

	t.Run("locked fraction caps eligibility", func(t *testing.T) {
		pol := &Policy{Y0: 1_000_000_000_000, InvestorShareBps: 9000}
		s, err := computeSplit(pol, 10_000, 0, 250_000_000_000)
		require.NoError(t, err)
		require.Equal(t, uint16(2500), s.eligibleBps)
		require.Equal(t, uint64(2500), s.investorIntended)
		require.Equal(t, uint64(7500), s.creatorShare)
	})

	t.Run("zero principal routes everything to creator", func(t *testing.T) {
		pol := &Policy{Y0: 0, InvestorShareBps: 9000}
		s, err := computeSplit(pol, 10_000, 0, 500)
		require.NoError(t, err)
		require.Equal(t, uint16(0), s.eligibleBps)
		require.Equal(t, uint64(10_000), s.creatorShare)
	})

	t.Run("nothing locked routes everything to creator", func(t *testing.T) {
		pol := &Policy{Y0: 1000, InvestorShareBps: 9000}
		s, err := computeSplit(pol, 10_000, 0, 0)
		require.NoError(t, err)
		require.Equal(t, uint16(0), s.eligibleBps)
		require.Equal(t, uint64(0), s.investorIntended)
		require.Equal(t, uint64(10_000), s.creatorShare)
	})

	t.Run("carry over joins the pool", func(t *testing.T) {
		pol := &Policy{Y0: 1000, InvestorShareBps: 10_000}
		s, err := computeSplit(pol, 7000, 3000, 1000)
		require.NoError(t, err)
		require.Equal(t, uint64(10_000), s.totalAvailable)
		require.Equal(t, uint64(10_000), s.investorIntended)
	})

	t.Run("daily cap clamps intended exactly", func(t *testing.T) {
		dailyCap := uint64(100_000_000_000)
		pol := &Policy{Y0: 1000, InvestorShareBps: 10_000, DailyCap: &dailyCap}
		s, err := computeSplit(pol, 250_000_000_000, 0, 1000)
		require.NoError(t, err)
		require.Equal(t, dailyCap, s.investorIntended)
		require.Equal(t, uint64(150_000_000_000), s.creatorShare)
	})

	t.Run("floor division truncates", func(t *testing.T) {
		pol := &Policy{Y0: 3, InvestorShareBps: 10_000}
		s, err := computeSplit(pol, 100, 0, 1)
		require.NoError(t, err)
		// f_locked = floor(1*10000/3) = 3333
		require.Equal(t, uint16(3333), s.eligibleBps)
		require.Equal(t, uint64(33), s.investorIntended)
		require.Equal(t, uint64(67), s.creatorShare)
	})

	t.Run("pool overflow is an error", func(t *testing.T) {
		pol := &Policy{Y0: 1000, InvestorShareBps: 5000}
		_, err := computeSplit(pol, ^uint64(0), 1, 1000)
		require.Error(t, err)
	})
}

func TestPayoutForLocked(t *testing.T) {
	// weight = floor(2_500 * 1e6 / 10_000) = 250_000 ppm
	require.Equal(t, uint64(2500), payoutForLocked(10_000, 2500, 10_000))

	// full lock pays the whole intended amount
	require.Equal(t, uint64(10_000), payoutForLocked(10_000, 777, 777))

	// both truncations are floors
	require.Equal(t, uint64(3333), payoutForLocked(5000, 500, 750))

	require.Equal(t, uint64(0), payoutForLocked(10_000, 0, 10_000))
	require.Equal(t, uint64(0), payoutForLocked(10_000, 100, 0))
}

func TestSatSub(t *testing.T) {
	require.Equal(t, uint64(3), satSub(5, 2))
	require.Equal(t, uint64(0), satSub(2, 5))
	require.Equal(t, uint64(0), satSub(5, 5))
}
