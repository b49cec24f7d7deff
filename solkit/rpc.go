package solkit

import (
	"context"
	"crypto/sha256"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/rpc"
)

func GetAccountInfo(ctx context.Context, rpcClient *rpc.Client, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	return rpcClient.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{Commitment: rpc.CommitmentFinalized})
}

// GetTokenAccount fetches and decodes an SPL token account.
func GetTokenAccount(ctx context.Context, rpcClient *rpc.Client, account solana.PublicKey) (*TokenAccount, error) {
	out, err := GetAccountInfo(ctx, rpcClient, account)
	if err != nil {
		return nil, err
	}
	return DecodeTokenAccount(account, out.Value.Data.GetBinary())
}

// GetTokenBalance returns an SPL token account balance, treating a
// missing account as zero.
func GetTokenBalance(ctx context.Context, rpcClient *rpc.Client, account solana.PublicKey) (uint64, error) {
	acc, err := GetTokenAccount(ctx, rpcClient, account)
	if err != nil {
		if err == rpc.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	return acc.Amount, nil
}

func GetLatestBlockhash(ctx context.Context, rpcClient *rpc.Client) (solana.Hash, error) {
	recent, err := rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, err
	}
	return recent.Value.Blockhash, nil
}

// PrepareTokenATA resolves the owner's associated token account for
// mint, appending a create instruction when it does not exist yet.
func PrepareTokenATA(
	ctx context.Context,
	rpcClient *rpc.Client,
	owner solana.PublicKey,
	tokenMint solana.PublicKey,
	payer solana.PublicKey,
	instructions *[]solana.Instruction,
) (solana.PublicKey, error) {
	tokenATA, _, err := solana.FindAssociatedTokenAddress(owner, tokenMint)
	if err != nil {
		return solana.PublicKey{}, err
	}

	exists, err := GetAccountInfo(ctx, rpcClient, tokenATA)
	if err != nil && err != rpc.ErrNotFound {
		return solana.PublicKey{}, err
	}

	if exists == nil {
		ix := associatedtokenaccount.NewCreateInstruction(
			payer, owner, tokenMint,
		).Build()
		*instructions = append(*instructions, ix)
	}
	return tokenATA, nil
}

// Discriminator returns the 8-byte anchor account discriminator.
func Discriminator(name string) []byte {
	return anchorDiscriminator("account:" + name)
}

// InstructionDiscriminator returns the 8-byte anchor instruction
// discriminator.
func InstructionDiscriminator(name string) []byte {
	return anchorDiscriminator("global:" + name)
}

func GenProgramAccountFilter(accountKey string, owner solana.PublicKey, offset uint64) *rpc.GetProgramAccountsOpts {
	return &rpc.GetProgramAccountsOpts{
		Commitment: rpc.CommitmentFinalized,
		Encoding:   solana.EncodingBase64,
		Filters: []rpc.RPCFilter{
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: 0,
					Bytes:  Discriminator(accountKey),
				},
			},
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: offset,
					Bytes:  owner.Bytes(),
				},
			},
		},
	}
}

func anchorDiscriminator(preimage string) []byte {
	hash := sha256.Sum256([]byte(preimage))
	out := make([]byte, 8)
	copy(out, hash[:8])
	return out
}
