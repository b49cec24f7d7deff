package dammv2

import (
	"github.com/gagliardetto/solana-go"
)

// ProgramID is the CP AMM (DAMM v2) program address.
var ProgramID = solana.MustPublicKeyFromBase58("cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG")

// Seeds carried over from the crank program's account model.
var (
	ownerPDASeed    = []byte("investor_fee_pos_owner")
	policyPDASeed   = []byte("policy")
	progressPDASeed = []byte("progress")
)

func DerivePoolAuthority() (solana.PublicKey, error) {
	address, _, err := solana.FindProgramAddress([][]byte{[]byte("pool_authority")}, ProgramID)
	return address, err
}

func DeriveEventAuthority() (solana.PublicKey, error) {
	address, _, err := solana.FindProgramAddress([][]byte{[]byte("__event_authority")}, ProgramID)
	return address, err
}

func DerivePositionAddress(positionNft solana.PublicKey) (solana.PublicKey, error) {
	address, _, err := solana.FindProgramAddress([][]byte{[]byte("position"), positionNft.Bytes()}, ProgramID)
	return address, err
}

func DerivePositionNftAccount(positionNftMint solana.PublicKey) (solana.PublicKey, error) {
	address, _, err := solana.FindProgramAddress([][]byte{[]byte("position_nft_account"), positionNftMint.Bytes()}, ProgramID)
	return address, err
}

func DeriveTokenVaultAddress(tokenMint, pool solana.PublicKey) (solana.PublicKey, error) {
	address, _, err := solana.FindProgramAddress([][]byte{[]byte("token_vault"), tokenMint.Bytes(), pool.Bytes()}, ProgramID)
	return address, err
}

// DeriveInvestorFeePositionOwner derives the PDA that owns the
// honorary fee position for a vault, under the crank program.
func DeriveInvestorFeePositionOwner(crankProgram, vault solana.PublicKey) (solana.PublicKey, error) {
	address, _, err := solana.FindProgramAddress([][]byte{ownerPDASeed, vault.Bytes()}, crankProgram)
	return address, err
}

// DerivePolicyAddress derives the vault's policy record PDA.
func DerivePolicyAddress(crankProgram, vault solana.PublicKey) (solana.PublicKey, error) {
	address, _, err := solana.FindProgramAddress([][]byte{policyPDASeed, vault.Bytes()}, crankProgram)
	return address, err
}

// DeriveProgressAddress derives the vault's cycle progress record PDA.
func DeriveProgressAddress(crankProgram, vault solana.PublicKey) (solana.PublicKey, error) {
	address, _, err := solana.FindProgramAddress([][]byte{progressPDASeed, vault.Bytes()}, crankProgram)
	return address, err
}
