package streamflow

import (
	"bytes"
	"testing"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/solcrank/feerouter-go/solkit"
)

func TestDecodeStream(t *testing.T) {
	sender := solana.NewWallet().PublicKey()
	recipient := solana.NewWallet().PublicKey()

	raw := streamLayout{
		Sender:          sender,
		Recipient:       recipient,
		StartTS:         1_700_000_000,
		CliffDuration:   3_600,
		CliffAmount:     1_000,
		PeriodDuration:  60,
		AmountPerPeriod: 50,
		DepositedAmount: 10_000,
		WithdrawnAmount: 500,
	}

	var buf bytes.Buffer
	buf.Write(solkit.Discriminator(accountKeyStream))
	require.NoError(t, binary.NewBinEncoder(&buf).Encode(&raw))

	address := solana.NewWallet().PublicKey()
	stream, err := DecodeStream(address, buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, address, stream.Address)
	require.Equal(t, sender, stream.Sender)
	require.Equal(t, recipient, stream.Recipient)
	require.EqualValues(t, 10_000, stream.Schedule.DepositedAmount)

	// Mid-vesting locked amount goes through the schedule formula.
	locked := stream.Schedule.LockedAt(1_700_000_000 + 3_600 + 120)
	require.EqualValues(t, 10_000-1_100, locked)
}

func TestDecodeStreamTooShort(t *testing.T) {
	_, err := DecodeStream(solana.NewWallet().PublicKey(), []byte{1, 2, 3})
	require.Error(t, err)
}
