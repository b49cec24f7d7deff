package distributor

import (
	"context"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// Event is an emitted audit record. Events are observability only;
// nothing reads them back for control flow.
type Event interface {
	Name() string
	attrs() []slog.Attr
}

// Sink receives emitted events.
type Sink interface {
	Emit(ctx context.Context, ev Event)
}

// PolicyInitialized is emitted once when a vault's policy is created.
type PolicyInitialized struct {
	Vault            solana.PublicKey
	Y0               uint64
	InvestorShareBps uint16
	MinPayout        uint64
}

func (e PolicyInitialized) Name() string { return "policy_initialized" }

func (e PolicyInitialized) attrs() []slog.Attr {
	return []slog.Attr{
		slog.String("vault", e.Vault.String()),
		slog.Uint64("y0", e.Y0),
		slog.Int("investor_share_bps", int(e.InvestorShareBps)),
		slog.Uint64("min_payout", e.MinPayout),
	}
}

// QuoteFeesClaimed is emitted at cycle rollover after a successful
// claim and split.
type QuoteFeesClaimed struct {
	Vault          solana.PublicKey
	FeeQuote       uint64
	CarryOverIn    uint64
	TotalAvailable uint64
	EligibleBps    uint16
	Intended       uint64
	CreatorShare   uint64
	CycleStartTS   int64
}

func (e QuoteFeesClaimed) Name() string { return "quote_fees_claimed" }

func (e QuoteFeesClaimed) attrs() []slog.Attr {
	return []slog.Attr{
		slog.String("vault", e.Vault.String()),
		slog.Uint64("fee_quote", e.FeeQuote),
		slog.Uint64("carry_over_in", e.CarryOverIn),
		slog.Uint64("total_available", e.TotalAvailable),
		slog.Int("eligible_bps", int(e.EligibleBps)),
		slog.Uint64("intended", e.Intended),
		slog.Uint64("creator_share", e.CreatorShare),
		slog.Int64("cycle_start_ts", e.CycleStartTS),
	}
}

// InvestorPayout is emitted for each transferred investor payout.
type InvestorPayout struct {
	Stream      solana.PublicKey
	Destination solana.PublicKey
	Amount      uint64
	Page        uint32
}

func (e InvestorPayout) Name() string { return "investor_payout" }

func (e InvestorPayout) attrs() []slog.Attr {
	return []slog.Attr{
		slog.String("stream", e.Stream.String()),
		slog.String("destination", e.Destination.String()),
		slog.Uint64("amount", e.Amount),
		slog.Uint64("page", uint64(e.Page)),
	}
}

// PagePaid summarizes one processed page.
type PagePaid struct {
	Vault       solana.PublicKey
	Page        uint32
	Distributed uint64
	Deferred    uint64
}

func (e PagePaid) Name() string { return "page_paid" }

func (e PagePaid) attrs() []slog.Attr {
	return []slog.Attr{
		slog.String("vault", e.Vault.String()),
		slog.Uint64("page", uint64(e.Page)),
		slog.Uint64("distributed", e.Distributed),
		slog.Uint64("deferred", e.Deferred),
	}
}

// CycleClosed summarizes a closed cycle, including the creator sweep.
type CycleClosed struct {
	Vault         solana.PublicKey
	Claimed       uint64
	Intended      uint64
	Distributed   uint64
	CreatorAmount uint64
	CarryOverOut  uint64
	ClosedTS      int64
}

func (e CycleClosed) Name() string { return "cycle_closed" }

func (e CycleClosed) attrs() []slog.Attr {
	return []slog.Attr{
		slog.String("vault", e.Vault.String()),
		slog.Uint64("claimed", e.Claimed),
		slog.Uint64("intended", e.Intended),
		slog.Uint64("distributed", e.Distributed),
		slog.Uint64("creator_amount", e.CreatorAmount),
		slog.Uint64("carry_over_out", e.CarryOverOut),
		slog.Int64("closed_ts", e.ClosedTS),
	}
}

// LogSink logs every event through slog. Decimals defaults to 0, in
// which case raw amounts are logged as-is; with Decimals set, a
// ui_amount attribute is added to payout events.
type LogSink struct {
	Log      *slog.Logger
	Decimals int32
}

func (s *LogSink) Emit(ctx context.Context, ev Event) {
	attrs := ev.attrs()
	if p, ok := ev.(InvestorPayout); ok && s.Decimals > 0 {
		attrs = append(attrs, slog.String("ui_amount", uiAmount(p.Amount, s.Decimals)))
	}
	s.Log.LogAttrs(ctx, slog.LevelInfo, ev.Name(), attrs...)
}

// NopSink drops all events.
type NopSink struct{}

func (NopSink) Emit(context.Context, Event) {}

func uiAmount(amount uint64, decimals int32) string {
	return decimal.NewFromUint64(amount).Shift(-decimals).String()
}
