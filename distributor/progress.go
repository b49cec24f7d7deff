package distributor

import (
	"github.com/gagliardetto/solana-go"
)

// CycleSeconds is the length of one accounting cycle.
const CycleSeconds = 86_400

// CycleProgress is the mutable per-vault state machine. Every field
// except CarryOver is reset when a new cycle rolls over; CarryOver
// survives until it is folded into the next cycle's available pool.
//
// There is no stored "cycle closed" flag: whether a cycle is open is a
// pure function of (now, LastCycleStartTS). See GateOpen.
type CycleProgress struct {
	Vault solana.PublicKey

	LastCycleStartTS int64
	CycleDayStartTS  int64

	ClaimedThisCycle           uint64
	InvestorIntendedThisCycle  uint64
	CreatorShareThisCycle      uint64
	ActualDistributedThisCycle uint64

	CarryOver  uint64
	PageCursor uint32
}

// GateOpen reports whether a new cycle may start at now: either no
// cycle has ever run, or a full cycle length has elapsed since the
// last start. The boundary itself (now == start + CycleSeconds) opens
// the gate.
func (p *CycleProgress) GateOpen(now int64) bool {
	return p.LastCycleStartTS == 0 || now >= p.LastCycleStartTS+CycleSeconds
}

// beginCycle resets the per-cycle fields for a cycle starting at now
// with the given split. CarryOver is zeroed because the caller has
// already folded it into the cycle's available pool.
func (p *CycleProgress) beginCycle(now int64, claimed uint64, s split) {
	p.LastCycleStartTS = now
	p.CycleDayStartTS = now
	p.ClaimedThisCycle = claimed
	p.InvestorIntendedThisCycle = s.investorIntended
	p.CreatorShareThisCycle = s.creatorShare
	p.ActualDistributedThisCycle = 0
	p.CarryOver = 0
	p.PageCursor = 0
}
