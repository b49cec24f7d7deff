package distributor

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

const maxBps = 10_000

// Policy is the immutable distribution configuration for one vault.
type Policy struct {
	// Vault identifies the vault/position pair this policy belongs to.
	Vault solana.PublicKey

	// Y0 is the total investor principal at program start, the
	// denominator of the locked-fraction calculation.
	Y0 uint64

	// InvestorShareBps is the baseline investor share in basis points.
	InvestorShareBps uint16

	// DailyCap optionally limits the investor share per cycle.
	DailyCap *uint64

	// MinPayout is the smallest amount transferred to an investor;
	// anything below is deferred to the next cycle as carry-over.
	MinPayout uint64
}

func (p *Policy) Validate() error {
	if p.Vault.IsZero() {
		return fmt.Errorf("policy vault is required")
	}
	if p.InvestorShareBps > maxBps {
		return fmt.Errorf("investor share %d exceeds %d bps", p.InvestorShareBps, maxBps)
	}
	return nil
}
