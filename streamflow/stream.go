package streamflow

import (
	"context"
	"fmt"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solcrank/feerouter-go/solkit"
	"github.com/solcrank/feerouter-go/vesting"
)

// ProgramID is the streamflow vesting program.
var ProgramID = solana.MustPublicKeyFromBase58("strmRqUCoQUgGUan5YhzUZa6KqdzwX5L6FpUxfmKg5m")

const accountKeyStream = "Stream"

// streamLayout is the wire layout of the vesting fields the crank
// reads, following the 8-byte account discriminator.
type streamLayout struct {
	Sender          solana.PublicKey
	Recipient       solana.PublicKey
	StartTS         int64
	CliffDuration   int64
	CliffAmount     uint64
	PeriodDuration  int64
	AmountPerPeriod uint64
	DepositedAmount uint64
	WithdrawnAmount uint64
}

// Stream is a decoded vesting stream account.
type Stream struct {
	Address   solana.PublicKey
	Sender    solana.PublicKey
	Recipient solana.PublicKey
	Schedule  vesting.Schedule
}

// DecodeStream decodes raw stream account data, discriminator included.
func DecodeStream(address solana.PublicKey, data []byte) (*Stream, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("stream %s: account data too short", address)
	}
	raw := &streamLayout{}
	if err := binary.NewBinDecoder(data[8:]).Decode(raw); err != nil {
		return nil, fmt.Errorf("stream %s: %w", address, err)
	}
	return &Stream{
		Address:   address,
		Sender:    raw.Sender,
		Recipient: raw.Recipient,
		Schedule: vesting.Schedule{
			StartTS:         raw.StartTS,
			CliffDuration:   raw.CliffDuration,
			CliffAmount:     raw.CliffAmount,
			PeriodDuration:  raw.PeriodDuration,
			AmountPerPeriod: raw.AmountPerPeriod,
			DepositedAmount: raw.DepositedAmount,
			WithdrawnAmount: raw.WithdrawnAmount,
		},
	}, nil
}

// Reader resolves locked principal from on-chain stream accounts.
type Reader struct {
	rpcClient *rpc.Client
	programID solana.PublicKey
}

func NewReader(rpcClient *rpc.Client, opts ...ReaderOption) *Reader {
	r := &Reader{
		rpcClient: rpcClient,
		programID: ProgramID,
	}
	for _, fn := range opts {
		fn(r)
	}
	return r
}

type ReaderOption func(*Reader)

// WithProgramID overrides the vesting program, e.g. for devnet forks.
func WithProgramID(programID solana.PublicKey) ReaderOption {
	return func(r *Reader) {
		r.programID = programID
	}
}

// GetStream fetches and decodes one stream account.
func (r *Reader) GetStream(ctx context.Context, address solana.PublicKey) (*Stream, error) {
	out, err := solkit.GetAccountInfo(ctx, r.rpcClient, address)
	if err != nil {
		return nil, fmt.Errorf("fetch stream %s: %w", address, err)
	}
	if !out.Value.Owner.Equals(r.programID) {
		return nil, fmt.Errorf("stream %s: unexpected owner %s", address, out.Value.Owner)
	}
	return DecodeStream(address, out.Value.Data.GetBinary())
}

// LockedAmount implements the distributor's vesting reader: the
// principal still locked in the stream at now.
func (r *Reader) LockedAmount(ctx context.Context, schedule solana.PublicKey, now int64) (uint64, error) {
	stream, err := r.GetStream(ctx, schedule)
	if err != nil {
		return 0, err
	}
	return stream.Schedule.LockedAt(now), nil
}

// GetStreamsByRecipient lists all streams paying out to recipient.
func (r *Reader) GetStreamsByRecipient(ctx context.Context, recipient solana.PublicKey) ([]*Stream, error) {
	opt := solkit.GenProgramAccountFilter(accountKeyStream, recipient, 8+32)

	outs, err := r.rpcClient.GetProgramAccountsWithOpts(ctx, r.programID, opt)
	if err != nil {
		if err == rpc.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	var list []*Stream
	for _, out := range outs {
		stream, err := DecodeStream(out.Pubkey, out.Account.Data.GetBinary())
		if err != nil {
			return nil, err
		}
		list = append(list, stream)
	}
	return list, nil
}
