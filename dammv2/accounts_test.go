package dammv2

import (
	"bytes"
	"math/big"
	"testing"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/solcrank/feerouter-go/solkit"
)

func encodePool(t *testing.T, raw poolLayout) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(solkit.Discriminator("Pool"))
	require.NoError(t, binary.NewBinEncoder(&buf).Encode(&raw))
	return buf.Bytes()
}

func u128(v uint64) binary.Uint128 {
	out := binary.NewUint128LittleEndian()
	out.Lo = v
	return *out
}

func TestDecodePool(t *testing.T) {
	tokenA := solana.NewWallet().PublicKey()
	tokenB := solana.NewWallet().PublicKey()

	raw := poolLayout{
		TokenAMint:     tokenA,
		TokenBMint:     tokenB,
		TokenAVault:    solana.NewWallet().PublicKey(),
		TokenBVault:    solana.NewWallet().PublicKey(),
		SqrtMinPrice:   u128(100),
		SqrtMaxPrice:   u128(200),
		SqrtPrice:      u128(300),
		TokenAFlag:     uint8(TokenTypeSPL),
		TokenBFlag:     uint8(TokenTypeToken2022),
		CollectFeeMode: uint8(CollectFeeModeBothToken),
	}

	address := solana.NewWallet().PublicKey()
	pool, err := DecodePool(address, encodePool(t, raw))
	require.NoError(t, err)
	require.Equal(t, tokenA, pool.TokenAMint)
	require.Equal(t, tokenB, pool.TokenBMint)
	require.Equal(t, 0, pool.SqrtMaxPrice.Cmp(big.NewInt(200)))
	require.Equal(t, TokenTypeToken2022, pool.TokenBFlag)
	require.Equal(t, solana.Token2022ProgramID, GetTokenProgram(pool.TokenBFlag))
}

func TestValidateQuoteOnly(t *testing.T) {
	t.Run("range below current price passes", func(t *testing.T) {
		pool := &Pool{
			SqrtMaxPrice:   big.NewInt(200),
			SqrtPrice:      big.NewInt(300),
			CollectFeeMode: CollectFeeModeBothToken,
		}
		require.NoError(t, pool.ValidateQuoteOnly())
	})

	t.Run("collect mode only-B passes regardless of range", func(t *testing.T) {
		pool := &Pool{
			SqrtMaxPrice:   big.NewInt(400),
			SqrtPrice:      big.NewInt(300),
			CollectFeeMode: CollectFeeModeOnlyB,
		}
		require.NoError(t, pool.ValidateQuoteOnly())
	})

	t.Run("range straddling current price fails", func(t *testing.T) {
		pool := &Pool{
			Address:        solana.NewWallet().PublicKey(),
			SqrtMaxPrice:   big.NewInt(400),
			SqrtPrice:      big.NewInt(300),
			CollectFeeMode: CollectFeeModeBothToken,
		}
		require.Error(t, pool.ValidateQuoteOnly())
	})
}
