package distributor

import (
	"fmt"
	"math/big"
)

const weightScale = 1_000_000

// split is the once-per-cycle eligibility computation: how much of the
// cycle's available pool is intended for investors versus the creator.
type split struct {
	totalAvailable   uint64
	eligibleBps      uint16
	investorIntended uint64
	creatorShare     uint64
}

// computeSplit runs the rollover split. carryOver from the previous
// cycle is folded into the available pool here; the caller zeroes it
// afterwards.
//
// fLockedBps is deliberately not clamped to 10000 on its own: the
// caller-supplied totalLocked is trusted, and an excessive value is
// neutralized by the min against the policy share.
func computeSplit(pol *Policy, claimedQuote, carryOver, totalLocked uint64) (split, error) {
	totalAvailable := new(big.Int).SetUint64(carryOver)
	totalAvailable.Add(totalAvailable, new(big.Int).SetUint64(claimedQuote))
	if !totalAvailable.IsUint64() {
		return split{}, fmt.Errorf("available pool %s overflows u64", totalAvailable)
	}

	fLockedBps := new(big.Int)
	if pol.Y0 > 0 {
		fLockedBps.SetUint64(totalLocked)
		fLockedBps.Mul(fLockedBps, big.NewInt(maxBps))
		fLockedBps.Div(fLockedBps, new(big.Int).SetUint64(pol.Y0))
	}

	eligibleBps := new(big.Int).SetUint64(uint64(pol.InvestorShareBps))
	if fLockedBps.Cmp(eligibleBps) < 0 {
		eligibleBps.Set(fLockedBps)
	}

	intended := new(big.Int).Mul(totalAvailable, eligibleBps)
	intended.Div(intended, big.NewInt(maxBps))
	if pol.DailyCap != nil {
		dailyCap := new(big.Int).SetUint64(*pol.DailyCap)
		if intended.Cmp(dailyCap) > 0 {
			intended.Set(dailyCap)
		}
	}

	creator := new(big.Int).Sub(totalAvailable, intended)

	return split{
		totalAvailable:   totalAvailable.Uint64(),
		eligibleBps:      uint16(eligibleBps.Uint64()),
		investorIntended: intended.Uint64(),
		creatorShare:     creator.Uint64(),
	}, nil
}

// payoutForLocked computes one investor's payout from their locked
// principal: weight = floor(locked * 1e6 / totalLocked), payout =
// floor(intended * weight / 1e6). Both divisions guard a zero
// denominator by yielding 0.
func payoutForLocked(intended, locked, totalLocked uint64) uint64 {
	if totalLocked == 0 || locked == 0 {
		return 0
	}
	weight := new(big.Int).SetUint64(locked)
	weight.Mul(weight, big.NewInt(weightScale))
	weight.Div(weight, new(big.Int).SetUint64(totalLocked))

	payout := new(big.Int).SetUint64(intended)
	payout.Mul(payout, weight)
	payout.Div(payout, big.NewInt(weightScale))
	return payout.Uint64()
}

// satSub returns a-b, saturating at zero.
func satSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}
