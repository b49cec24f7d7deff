package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/solcrank/feerouter-go/distributor"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "feerouter.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPolicyRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	vault := solana.NewWallet().PublicKey()
	dailyCap := uint64(100_000_000_000)
	pol := &distributor.Policy{
		Vault:            vault,
		Y0:               1_000_000_000_000,
		InvestorShareBps: 5000,
		DailyCap:         &dailyCap,
		MinPayout:        1_000_000,
	}
	require.NoError(t, s.SavePolicy(ctx, pol))

	got, err := s.LoadPolicy(ctx, vault)
	require.NoError(t, err)
	require.Equal(t, pol, got)
}

func TestPolicyIsWriteOnce(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	pol := &distributor.Policy{
		Vault:            solana.NewWallet().PublicKey(),
		Y0:               1,
		InvestorShareBps: 1,
	}
	require.NoError(t, s.SavePolicy(ctx, pol))
	require.ErrorIs(t, s.SavePolicy(ctx, pol), distributor.ErrPolicyExists)
}

func TestPolicyWithoutCap(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	vault := solana.NewWallet().PublicKey()
	pol := &distributor.Policy{Vault: vault, Y0: 10, InvestorShareBps: 100}
	require.NoError(t, s.SavePolicy(ctx, pol))

	got, err := s.LoadPolicy(ctx, vault)
	require.NoError(t, err)
	require.Nil(t, got.DailyCap)
}

func TestProgressUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	vault := solana.NewWallet().PublicKey()
	prog := &distributor.CycleProgress{
		Vault:            vault,
		LastCycleStartTS: 1_700_000_000,
		CycleDayStartTS:  1_700_000_000,
		ClaimedThisCycle: 500,
		CarryOver:        7,
		PageCursor:       2,
	}
	require.NoError(t, s.SaveProgress(ctx, prog))

	prog.PageCursor = 3
	prog.ActualDistributedThisCycle = 400
	require.NoError(t, s.SaveProgress(ctx, prog))

	got, err := s.LoadProgress(ctx, vault)
	require.NoError(t, err)
	require.Equal(t, prog, got)
}

func TestLoadMissing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.LoadPolicy(ctx, solana.NewWallet().PublicKey())
	require.ErrorIs(t, err, distributor.ErrNotFound)

	_, err = s.LoadProgress(ctx, solana.NewWallet().PublicKey())
	require.ErrorIs(t, err, distributor.ErrNotFound)
}
