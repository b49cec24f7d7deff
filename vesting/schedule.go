package vesting

import (
	"math/big"
)

// Schedule mirrors an on-chain vesting stream record. All amounts are in
// the token's smallest unit, all times are unix seconds.
type Schedule struct {
	StartTS         int64
	CliffDuration   int64
	CliffAmount     uint64
	PeriodDuration  int64
	AmountPerPeriod uint64
	DepositedAmount uint64
	WithdrawnAmount uint64
}

// UnlockedAt returns the principal unlockable at time t.
//
// Before the cliff nothing is unlocked. After the cliff the unlocked
// amount grows by AmountPerPeriod per elapsed period, never exceeding
// the remaining deposit (DepositedAmount - WithdrawnAmount).
func (s *Schedule) UnlockedAt(t int64) uint64 {
	cliffTS := s.StartTS + s.CliffDuration
	if t < cliffTS {
		return 0
	}

	remaining := new(big.Int).SetUint64(s.DepositedAmount)
	remaining.Sub(remaining, new(big.Int).SetUint64(s.WithdrawnAmount))
	if remaining.Sign() < 0 {
		remaining.SetUint64(0)
	}

	unlocked := new(big.Int).SetUint64(s.CliffAmount)
	if s.PeriodDuration > 0 {
		periods := new(big.Int).SetInt64(t - cliffTS)
		periods.Div(periods, big.NewInt(s.PeriodDuration))
		unlocked.Add(unlocked, periods.Mul(periods, new(big.Int).SetUint64(s.AmountPerPeriod)))
	}

	if unlocked.Cmp(remaining) > 0 {
		unlocked = remaining
	}
	return unlocked.Uint64()
}

// LockedAt returns the principal still locked at time t, against the
// current deposited amount.
func (s *Schedule) LockedAt(t int64) uint64 {
	unlocked := s.UnlockedAt(t)
	if unlocked >= s.DepositedAmount {
		return 0
	}
	return s.DepositedAmount - unlocked
}
