package dammv2

import (
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// TokenType mirrors the pool's token program flag.
type TokenType uint8

const (
	TokenTypeSPL TokenType = iota
	TokenTypeToken2022
)

// CollectFeeMode mirrors the pool's fee collection mode.
type CollectFeeMode uint8

const (
	CollectFeeModeBothToken CollectFeeMode = iota
	CollectFeeModeOnlyA
	CollectFeeModeOnlyB
)

// poolLayout is the CP AMM pool account wire layout, through the
// fields the crank reads. Trailing reward/metric fields are ignored.
type poolLayout struct {
	PoolFees         [160]byte
	TokenAMint       solana.PublicKey
	TokenBMint       solana.PublicKey
	TokenAVault      solana.PublicKey
	TokenBVault      solana.PublicKey
	WhitelistedVault solana.PublicKey
	Partner          solana.PublicKey
	Liquidity        binary.Uint128
	Padding          binary.Uint128
	ProtocolAFee     uint64
	ProtocolBFee     uint64
	PartnerAFee      uint64
	PartnerBFee      uint64
	SqrtMinPrice     binary.Uint128
	SqrtMaxPrice     binary.Uint128
	SqrtPrice        binary.Uint128
	ActivationPoint  uint64
	ActivationType   uint8
	PoolStatus       uint8
	TokenAFlag       uint8
	TokenBFlag       uint8
	CollectFeeMode   uint8
	PoolType         uint8
}

// Pool is the decoded subset of a CP AMM pool account.
type Pool struct {
	Address solana.PublicKey

	TokenAMint  solana.PublicKey
	TokenBMint  solana.PublicKey
	TokenAVault solana.PublicKey
	TokenBVault solana.PublicKey

	SqrtMinPrice *big.Int
	SqrtMaxPrice *big.Int
	SqrtPrice    *big.Int

	TokenAFlag     TokenType
	TokenBFlag     TokenType
	CollectFeeMode CollectFeeMode
}

// DecodePool decodes raw pool account data, discriminator included.
func DecodePool(address solana.PublicKey, data []byte) (*Pool, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("pool %s: account data too short", address)
	}
	raw := &poolLayout{}
	if err := binary.NewBinDecoder(data[8:]).Decode(raw); err != nil {
		return nil, fmt.Errorf("pool %s: %w", address, err)
	}
	return &Pool{
		Address:        address,
		TokenAMint:     raw.TokenAMint,
		TokenBMint:     raw.TokenBMint,
		TokenAVault:    raw.TokenAVault,
		TokenBVault:    raw.TokenBVault,
		SqrtMinPrice:   raw.SqrtMinPrice.BigInt(),
		SqrtMaxPrice:   raw.SqrtMaxPrice.BigInt(),
		SqrtPrice:      raw.SqrtPrice.BigInt(),
		TokenAFlag:     TokenType(raw.TokenAFlag),
		TokenBFlag:     TokenType(raw.TokenBFlag),
		CollectFeeMode: CollectFeeMode(raw.CollectFeeMode),
	}, nil
}

// ValidateQuoteOnly checks that the pool can only accrue fees in the
// quote (token B) denomination: either the pool collects fees in
// token B exclusively, or the position's price range lies entirely
// below the current price.
func (p *Pool) ValidateQuoteOnly() error {
	if p.CollectFeeMode == CollectFeeModeOnlyB {
		return nil
	}
	if p.SqrtMaxPrice.Cmp(p.SqrtPrice) <= 0 {
		return nil
	}
	return fmt.Errorf("pool %s is not quote-only: range upper bound above current price and collect mode %d", p.Address, p.CollectFeeMode)
}

// GetTokenProgram maps a pool token flag to its token program.
func GetTokenProgram(flag TokenType) solana.PublicKey {
	if flag == TokenTypeToken2022 {
		return solana.Token2022ProgramID
	}
	return solana.TokenProgramID
}
