package dammv2

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/solcrank/feerouter-go/metrics"
	"github.com/solcrank/feerouter-go/solkit"
)

// AdapterConfig wires the honorary position the crank claims from.
type AdapterConfig struct {
	Logger    *slog.Logger
	RPCClient *rpc.Client
	WSClient  *ws.Client

	// Operator owns the honorary position and both treasuries, and
	// signs every claim and payout.
	Operator *solana.Wallet

	Pool               solana.PublicKey
	Position           solana.PublicKey
	PositionNftAccount solana.PublicKey
}

func (cfg *AdapterConfig) Validate() error {
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.RPCClient == nil {
		return errors.New("rpc client is required")
	}
	if cfg.WSClient == nil {
		return errors.New("ws client is required")
	}
	if cfg.Operator == nil {
		return errors.New("operator wallet is required")
	}
	if cfg.Pool.IsZero() || cfg.Position.IsZero() || cfg.PositionNftAccount.IsZero() {
		return errors.New("pool, position and position nft account are required")
	}
	return nil
}

// Adapter claims position fees into the operator's treasuries and pays
// quote tokens out of them. It is the production fee source and
// transferrer behind the distribution engine.
type Adapter struct {
	log *slog.Logger
	cfg AdapterConfig

	pool           *Pool
	poolAuthority  solana.PublicKey
	eventAuthority solana.PublicKey

	baseTreasury  solana.PublicKey
	quoteTreasury solana.PublicKey
	quoteDecimals uint8
}

// NewAdapter fetches the pool, enforces the quote-only configuration
// and resolves the operator's treasury accounts.
func NewAdapter(ctx context.Context, cfg AdapterConfig) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out, err := solkit.GetAccountInfo(ctx, cfg.RPCClient, cfg.Pool)
	if err != nil {
		return nil, fmt.Errorf("fetch pool %s: %w", cfg.Pool, err)
	}
	pool, err := DecodePool(cfg.Pool, out.Value.Data.GetBinary())
	if err != nil {
		return nil, err
	}
	if err := pool.ValidateQuoteOnly(); err != nil {
		return nil, err
	}

	poolAuthority, err := DerivePoolAuthority()
	if err != nil {
		return nil, err
	}
	eventAuthority, err := DeriveEventAuthority()
	if err != nil {
		return nil, err
	}

	operator := cfg.Operator.PublicKey()
	baseTreasury, _, err := solana.FindAssociatedTokenAddress(operator, pool.TokenAMint)
	if err != nil {
		return nil, err
	}
	quoteTreasury, _, err := solana.FindAssociatedTokenAddress(operator, pool.TokenBMint)
	if err != nil {
		return nil, err
	}

	quoteMintInfo, err := solkit.GetAccountInfo(ctx, cfg.RPCClient, pool.TokenBMint)
	if err != nil {
		return nil, fmt.Errorf("fetch quote mint %s: %w", pool.TokenBMint, err)
	}
	var quoteMint token.Mint
	if err := quoteMint.Decode(quoteMintInfo.Value.Data.GetBinary()); err != nil {
		return nil, fmt.Errorf("decode quote mint %s: %w", pool.TokenBMint, err)
	}

	return &Adapter{
		log:            cfg.Logger,
		cfg:            cfg,
		pool:           pool,
		poolAuthority:  poolAuthority,
		eventAuthority: eventAuthority,
		baseTreasury:   baseTreasury,
		quoteTreasury:  quoteTreasury,
		quoteDecimals:  quoteMint.Decimals,
	}, nil
}

// QuoteMint returns the quote (token B) mint.
func (a *Adapter) QuoteMint() solana.PublicKey { return a.pool.TokenBMint }

// QuoteDecimals returns the quote mint's decimals.
func (a *Adapter) QuoteDecimals() uint8 { return a.quoteDecimals }

// ClaimFees claims the position's accrued fees into the treasuries and
// returns the claimed (base, quote) amounts, measured as treasury
// balance deltas around the claim.
func (a *Adapter) ClaimFees(ctx context.Context) (uint64, uint64, error) {
	baseBefore, err := solkit.GetTokenBalance(ctx, a.cfg.RPCClient, a.baseTreasury)
	if err != nil {
		return 0, 0, fmt.Errorf("base treasury balance: %w", err)
	}
	quoteBefore, err := solkit.GetTokenBalance(ctx, a.cfg.RPCClient, a.quoteTreasury)
	if err != nil {
		return 0, 0, fmt.Errorf("quote treasury balance: %w", err)
	}

	operator := a.cfg.Operator.PublicKey()
	var instructions []solana.Instruction

	baseAccount, err := solkit.PrepareTokenATA(ctx, a.cfg.RPCClient, operator, a.pool.TokenAMint, operator, &instructions)
	if err != nil {
		return 0, 0, err
	}
	quoteAccount, err := solkit.PrepareTokenATA(ctx, a.cfg.RPCClient, operator, a.pool.TokenBMint, operator, &instructions)
	if err != nil {
		return 0, 0, err
	}
	instructions = append(instructions, a.claimPositionFeeInstruction(baseAccount, quoteAccount))

	timer := prometheus.NewTimer(metrics.ClaimDuration)
	sig, err := solkit.SendAndConfirm(ctx, a.cfg.RPCClient, a.cfg.WSClient, instructions, operator, a.signer())
	timer.ObserveDuration()
	if err != nil {
		return 0, 0, fmt.Errorf("claim position fee: %w", err)
	}
	a.log.Debug("claimed position fee", "signature", sig.String())

	baseAfter, err := solkit.GetTokenBalance(ctx, a.cfg.RPCClient, a.baseTreasury)
	if err != nil {
		return 0, 0, fmt.Errorf("base treasury balance: %w", err)
	}
	quoteAfter, err := solkit.GetTokenBalance(ctx, a.cfg.RPCClient, a.quoteTreasury)
	if err != nil {
		return 0, 0, fmt.Errorf("quote treasury balance: %w", err)
	}

	return baseAfter - baseBefore, quoteAfter - quoteBefore, nil
}

// Transfer moves quote tokens from the treasury to the destination
// wallet's associated token account, creating it when missing.
func (a *Adapter) Transfer(ctx context.Context, dest solana.PublicKey, amount uint64) error {
	operator := a.cfg.Operator.PublicKey()
	var instructions []solana.Instruction

	destAccount, err := solkit.PrepareTokenATA(ctx, a.cfg.RPCClient, dest, a.pool.TokenBMint, operator, &instructions)
	if err != nil {
		return err
	}

	transferIx := token.NewTransferCheckedInstruction(
		amount,
		a.quoteDecimals,
		a.quoteTreasury,
		a.pool.TokenBMint,
		destAccount,
		operator,
		[]solana.PublicKey{},
	).Build()
	instructions = append(instructions, transferIx)

	sig, err := solkit.SendAndConfirm(ctx, a.cfg.RPCClient, a.cfg.WSClient, instructions, operator, a.signer())
	if err != nil {
		return fmt.Errorf("transfer %d to %s: %w", amount, dest, err)
	}
	a.log.Debug("paid out", "destination", dest.String(), "amount", amount, "signature", sig.String())
	return nil
}

func (a *Adapter) claimPositionFeeInstruction(baseAccount, quoteAccount solana.PublicKey) solana.Instruction {
	accounts := solana.AccountMetaSlice{
		solana.Meta(a.poolAuthority),
		solana.Meta(a.pool.Address),
		solana.Meta(a.cfg.Position).WRITE(),
		solana.Meta(baseAccount).WRITE(),
		solana.Meta(quoteAccount).WRITE(),
		solana.Meta(a.pool.TokenAVault).WRITE(),
		solana.Meta(a.pool.TokenBVault).WRITE(),
		solana.Meta(a.pool.TokenAMint),
		solana.Meta(a.pool.TokenBMint),
		solana.Meta(a.cfg.PositionNftAccount),
		solana.Meta(a.cfg.Operator.PublicKey()).SIGNER(),
		solana.Meta(GetTokenProgram(a.pool.TokenAFlag)),
		solana.Meta(GetTokenProgram(a.pool.TokenBFlag)),
		solana.Meta(a.eventAuthority),
		solana.Meta(ProgramID),
	}
	data := solkit.InstructionDiscriminator("claim_position_fee")
	return solana.NewInstruction(ProgramID, accounts, data)
}

func (a *Adapter) signer() func(key solana.PublicKey) *solana.PrivateKey {
	return func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(a.cfg.Operator.PublicKey()) {
			return &a.cfg.Operator.PrivateKey
		}
		return nil
	}
}
