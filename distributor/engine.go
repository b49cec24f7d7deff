package distributor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"

	"github.com/solcrank/feerouter-go/metrics"
)

// FeeSource claims the position's accrued fees into the holding
// account and reports the claimed (base, quote) amounts. It must be
// invoked exactly once per cycle rollover.
type FeeSource interface {
	ClaimFees(ctx context.Context) (feeBase, feeQuote uint64, err error)
}

// VestingReader resolves a schedule reference to the principal still
// locked at now. Pure with respect to (schedule, now).
type VestingReader interface {
	LockedAmount(ctx context.Context, schedule solana.PublicKey, now int64) (uint64, error)
}

// Transferrer moves quote tokens from the holding account.
type Transferrer interface {
	Transfer(ctx context.Context, dest solana.PublicKey, amount uint64) error
}

// PageEntry pairs one investor's vesting schedule with their payout
// destination.
type PageEntry struct {
	Stream      solana.PublicKey
	Destination solana.PublicKey
}

// PageParams is the input of one ProcessPage call.
type PageParams struct {
	// PageIndex must equal the current progress cursor.
	PageIndex uint16

	// TotalLocked is the caller-supplied sum of locked principal
	// across all investors at cycle start. Trusted input; the crank
	// driver derives it by summing the full roster.
	TotalLocked uint64

	// IsFinal marks the cycle's last page and triggers the close.
	IsFinal bool

	Entries []PageEntry
}

// PageResult reports what one accepted page did.
type PageResult struct {
	Page        uint32
	Distributed uint64
	Deferred    uint64
	Closed      bool
}

type Config struct {
	Logger   *slog.Logger
	Clock    clockwork.Clock
	Store    Store
	Fees     FeeSource
	Vesting  VestingReader
	Transfer Transferrer
	Events   Sink

	Vault   solana.PublicKey
	Creator solana.PublicKey
}

func (cfg *Config) Validate() error {
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.Store == nil {
		return errors.New("store is required")
	}
	if cfg.Fees == nil {
		return errors.New("fee source is required")
	}
	if cfg.Vesting == nil {
		return errors.New("vesting reader is required")
	}
	if cfg.Transfer == nil {
		return errors.New("transferrer is required")
	}
	if cfg.Vault.IsZero() {
		return errors.New("vault is required")
	}
	if cfg.Creator.IsZero() {
		return errors.New("creator destination is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Events == nil {
		cfg.Events = &LogSink{Log: cfg.Logger}
	}
	return nil
}

// Engine runs the day-cycle fee distribution state machine for one
// vault. It holds no cycle state of its own; everything lives in the
// Store, and every call either fully commits or leaves the stored
// state untouched.
type Engine struct {
	log *slog.Logger
	cfg Config
}

func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{log: cfg.Logger, cfg: cfg}, nil
}

// InitPolicy creates the vault's immutable policy. Fails with
// ErrPolicyExists if one is already stored.
func (e *Engine) InitPolicy(ctx context.Context, pol Policy) error {
	pol.Vault = e.cfg.Vault
	if err := pol.Validate(); err != nil {
		return fmt.Errorf("invalid policy: %w", err)
	}
	if err := e.cfg.Store.SavePolicy(ctx, &pol); err != nil {
		return err
	}
	e.cfg.Events.Emit(ctx, PolicyInitialized{
		Vault:            pol.Vault,
		Y0:               pol.Y0,
		InvestorShareBps: pol.InvestorShareBps,
		MinPayout:        pol.MinPayout,
	})
	return nil
}

// InitProgress creates the vault's zeroed cycle progress record.
func (e *Engine) InitProgress(ctx context.Context) error {
	return e.cfg.Store.SaveProgress(ctx, &CycleProgress{Vault: e.cfg.Vault})
}

// ProcessPage processes one page of investor entries.
//
// The first call after the 24-hour gate opens performs the cycle
// rollover (fee claim and split) and must carry page index 0. Later
// pages must match the cursor exactly. A page with IsFinal set closes
// the cycle: the undistributed remainder rolls into carry-over and
// the creator share is swept.
//
// Closure is level-triggered: there is no stored closed flag, so a
// replayed final page inside the same window re-runs the close. The
// caller owns idempotency of retries, per the crank-driver contract.
func (e *Engine) ProcessPage(ctx context.Context, p PageParams) (PageResult, error) {
	res, err := e.processPage(ctx, p)
	if err != nil {
		metrics.PagesTotal.WithLabelValues("error").Inc()
		return PageResult{}, err
	}
	metrics.PagesTotal.WithLabelValues("ok").Inc()
	return res, nil
}

func (e *Engine) processPage(ctx context.Context, p PageParams) (PageResult, error) {
	for _, entry := range p.Entries {
		if entry.Stream.IsZero() || entry.Destination.IsZero() {
			return PageResult{}, ErrMalformedPage
		}
	}

	pol, err := e.cfg.Store.LoadPolicy(ctx, e.cfg.Vault)
	if err != nil {
		return PageResult{}, fmt.Errorf("load policy: %w", err)
	}
	stored, err := e.cfg.Store.LoadProgress(ctx, e.cfg.Vault)
	if err != nil {
		return PageResult{}, fmt.Errorf("load progress: %w", err)
	}

	now := e.cfg.Clock.Now().Unix()
	prog := *stored // mutate a copy; saved only on full success

	if prog.GateOpen(now) {
		if p.PageIndex != 0 {
			return PageResult{}, ErrPageOutOfOrder
		}
		if err := e.rollover(ctx, pol, &prog, p.TotalLocked, now); err != nil {
			return PageResult{}, err
		}
	} else {
		if p.PageIndex == 0 {
			return PageResult{}, ErrCycleNotYetElapsed
		}
		if uint32(p.PageIndex) != prog.PageCursor {
			return PageResult{}, ErrPageOutOfOrder
		}
	}

	// Resolve every payout before moving any tokens, so a read failure
	// aborts without side effects.
	type payout struct {
		entry  PageEntry
		amount uint64
	}
	var (
		transfers []payout
		deferred  uint64
	)
	for _, entry := range p.Entries {
		locked, err := e.cfg.Vesting.LockedAmount(ctx, entry.Stream, now)
		if err != nil {
			return PageResult{}, fmt.Errorf("read locked for %s: %w", entry.Stream, err)
		}
		if locked == 0 {
			continue
		}
		amount := payoutForLocked(prog.InvestorIntendedThisCycle, locked, p.TotalLocked)
		if amount == 0 {
			continue
		}
		if amount < pol.MinPayout {
			deferred += amount
			continue
		}
		transfers = append(transfers, payout{entry: entry, amount: amount})
	}

	var distributed uint64
	for _, t := range transfers {
		if err := e.cfg.Transfer.Transfer(ctx, t.entry.Destination, t.amount); err != nil {
			return PageResult{}, fmt.Errorf("payout to %s: %w", t.entry.Destination, err)
		}
		distributed += t.amount
		metrics.DistributedTotal.WithLabelValues("investor").Add(float64(t.amount))
		e.cfg.Events.Emit(ctx, InvestorPayout{
			Stream:      t.entry.Stream,
			Destination: t.entry.Destination,
			Amount:      t.amount,
			Page:        prog.PageCursor,
		})
	}

	prog.ActualDistributedThisCycle += distributed
	prog.CarryOver += deferred
	page := prog.PageCursor
	prog.PageCursor++

	e.cfg.Events.Emit(ctx, PagePaid{
		Vault:       e.cfg.Vault,
		Page:        page,
		Distributed: distributed,
		Deferred:    deferred,
	})

	if p.IsFinal {
		if err := e.closeCycle(ctx, &prog, now); err != nil {
			return PageResult{}, err
		}
	}

	if err := e.cfg.Store.SaveProgress(ctx, &prog); err != nil {
		return PageResult{}, fmt.Errorf("save progress: %w", err)
	}
	metrics.CarryOverLamports.Set(float64(prog.CarryOver))

	return PageResult{
		Page:        page,
		Distributed: distributed,
		Deferred:    deferred,
		Closed:      p.IsFinal,
	}, nil
}

// rollover claims the cycle's fees and fixes the investor/creator
// split. Runs at most once per cycle, on its first page call.
func (e *Engine) rollover(ctx context.Context, pol *Policy, prog *CycleProgress, totalLocked uint64, now int64) error {
	feeBase, feeQuote, err := e.cfg.Fees.ClaimFees(ctx)
	if err != nil {
		return fmt.Errorf("claim fees: %w", err)
	}
	if feeBase != 0 {
		return fmt.Errorf("%w: base fee %d", ErrQuoteInvariantViolated, feeBase)
	}
	if feeQuote == 0 {
		return ErrNoFeesToDistribute
	}

	carryIn := prog.CarryOver
	s, err := computeSplit(pol, feeQuote, carryIn, totalLocked)
	if err != nil {
		return err
	}
	prog.beginCycle(now, feeQuote, s)

	metrics.CyclesTotal.WithLabelValues("started").Inc()
	e.cfg.Events.Emit(ctx, QuoteFeesClaimed{
		Vault:          e.cfg.Vault,
		FeeQuote:       feeQuote,
		CarryOverIn:    carryIn,
		TotalAvailable: s.totalAvailable,
		EligibleBps:    s.eligibleBps,
		Intended:       s.investorIntended,
		CreatorShare:   s.creatorShare,
		CycleStartTS:   now,
	})
	return nil
}

// closeCycle sweeps the creator share and rolls the undistributed
// remainder forward. The remainder already contains any dust deferred
// during this cycle's pages, so it replaces the accumulated carry-over
// rather than adding to it; fee conservation is exact.
func (e *Engine) closeCycle(ctx context.Context, prog *CycleProgress, now int64) error {
	prog.CarryOver = satSub(prog.InvestorIntendedThisCycle, prog.ActualDistributedThisCycle)

	if prog.CreatorShareThisCycle > 0 {
		if err := e.cfg.Transfer.Transfer(ctx, e.cfg.Creator, prog.CreatorShareThisCycle); err != nil {
			return fmt.Errorf("creator payout: %w", err)
		}
		metrics.DistributedTotal.WithLabelValues("creator").Add(float64(prog.CreatorShareThisCycle))
	}

	metrics.CyclesTotal.WithLabelValues("closed").Inc()
	e.cfg.Events.Emit(ctx, CycleClosed{
		Vault:         e.cfg.Vault,
		Claimed:       prog.ClaimedThisCycle,
		Intended:      prog.InvestorIntendedThisCycle,
		Distributed:   prog.ActualDistributedThisCycle,
		CreatorAmount: prog.CreatorShareThisCycle,
		CarryOverOut:  prog.CarryOver,
		ClosedTS:      now,
	})
	return nil
}
