package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"github.com/solcrank/feerouter-go/dammv2"
	"github.com/solcrank/feerouter-go/distributor"
	"github.com/solcrank/feerouter-go/logger"
	"github.com/solcrank/feerouter-go/roster"
	"github.com/solcrank/feerouter-go/store"
	"github.com/solcrank/feerouter-go/streamflow"
)

const (
	defaultMetricsAddr  = "0.0.0.0:0"
	defaultTickInterval = 5 * time.Minute
	defaultPageSize     = 20
	defaultDBPath       = "feerouter.db"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	verboseFlag := flag.Bool("verbose", false, "enable verbose (debug) logging")
	metricsAddrFlag := flag.String("metrics-addr", defaultMetricsAddr, "address to listen on for prometheus metrics (empty to disable)")

	rpcURLFlag := flag.String("rpc-url", rpc.MainNetBeta_RPC, "Solana RPC endpoint (or set RPC_URL env var)")
	wsURLFlag := flag.String("ws-url", rpc.MainNetBeta_WS, "Solana websocket endpoint (or set WS_URL env var)")
	keypairFlag := flag.String("keypair", "", "path to the operator keypair file (or set KEYPAIR_PATH env var)")

	poolFlag := flag.String("pool", "", "DAMM v2 pool address")
	positionFlag := flag.String("position", "", "honorary fee position address")
	positionNftFlag := flag.String("position-nft", "", "position NFT token account address")
	vaultFlag := flag.String("vault", "", "vault identity the policy and progress records are keyed by")
	creatorFlag := flag.String("creator", "", "creator quote token account for the remainder sweep")
	streamflowProgramFlag := flag.String("streamflow-program", "", "override the Streamflow program id (optional)")

	rosterFlag := flag.String("roster", "roster.json", "path to the investor roster JSON file")
	dbFlag := flag.String("db", defaultDBPath, "path to the SQLite state database")
	pageSizeFlag := flag.Int("page-size", defaultPageSize, "investors per distribution page")
	tickIntervalFlag := flag.Duration("tick-interval", defaultTickInterval, "how often to attempt a crank pass")

	initPolicyFlag := flag.Bool("init-policy", false, "initialize the vault's policy and progress records, then exit")
	y0Flag := flag.Uint64("y0", 0, "total investor principal at TGE (required with --init-policy)")
	investorShareFlag := flag.Uint16("investor-share-bps", 0, "maximum investor share in bps (required with --init-policy)")
	dailyCapFlag := flag.Uint64("daily-cap", 0, "optional per-cycle cap on investor payouts (0 = uncapped)")
	minPayoutFlag := flag.Uint64("min-payout", 0, "payouts below this are deferred as dust")

	flag.Parse()

	log := logger.New(logger.Level(*verboseFlag))

	if env := os.Getenv("RPC_URL"); env != "" {
		*rpcURLFlag = env
	}
	if env := os.Getenv("WS_URL"); env != "" {
		*wsURLFlag = env
	}
	if env := os.Getenv("KEYPAIR_PATH"); env != "" {
		*keypairFlag = env
	}

	if *keypairFlag == "" {
		return fmt.Errorf("--keypair is required")
	}
	privateKey, err := solana.PrivateKeyFromSolanaKeygenFile(*keypairFlag)
	if err != nil {
		return fmt.Errorf("load keypair: %w", err)
	}
	operator := &solana.Wallet{PrivateKey: privateKey}

	pool, err := requiredPubkey("pool", *poolFlag)
	if err != nil {
		return err
	}
	position, err := requiredPubkey("position", *positionFlag)
	if err != nil {
		return err
	}
	positionNft, err := requiredPubkey("position-nft", *positionNftFlag)
	if err != nil {
		return err
	}
	vault, err := requiredPubkey("vault", *vaultFlag)
	if err != nil {
		return err
	}
	creator, err := requiredPubkey("creator", *creatorFlag)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := store.OpenSQLite(*dbFlag)
	if err != nil {
		return err
	}
	defer st.Close()

	rpcClient := rpc.New(*rpcURLFlag)
	wsClient, err := ws.Connect(ctx, *wsURLFlag)
	if err != nil {
		return fmt.Errorf("connect websocket: %w", err)
	}
	defer wsClient.Close()

	adapter, err := dammv2.NewAdapter(ctx, dammv2.AdapterConfig{
		Logger:             log,
		RPCClient:          rpcClient,
		WSClient:           wsClient,
		Operator:           operator,
		Pool:               pool,
		Position:           position,
		PositionNftAccount: positionNft,
	})
	if err != nil {
		return err
	}

	var readerOpts []streamflow.ReaderOption
	if *streamflowProgramFlag != "" {
		programID, err := solana.PublicKeyFromBase58(*streamflowProgramFlag)
		if err != nil {
			return fmt.Errorf("bad --streamflow-program: %w", err)
		}
		readerOpts = append(readerOpts, streamflow.WithProgramID(programID))
	}
	vesting := streamflow.NewReader(rpcClient, readerOpts...)

	clock := clockwork.NewRealClock()
	engine, err := distributor.New(distributor.Config{
		Logger:   log,
		Clock:    clock,
		Store:    st,
		Fees:     adapter,
		Vesting:  vesting,
		Transfer: adapter,
		Events: &distributor.LogSink{
			Log:      log,
			Decimals: int32(adapter.QuoteDecimals()),
		},
		Vault:   vault,
		Creator: creator,
	})
	if err != nil {
		return err
	}

	if *initPolicyFlag {
		pol := distributor.Policy{
			Y0:               *y0Flag,
			InvestorShareBps: *investorShareFlag,
			MinPayout:        *minPayoutFlag,
		}
		if *dailyCapFlag > 0 {
			pol.DailyCap = dailyCapFlag
		}
		if err := engine.InitPolicy(ctx, pol); err != nil {
			return err
		}
		if err := engine.InitProgress(ctx); err != nil {
			return err
		}
		log.Info("policy initialized", "vault", vault, "y0", *y0Flag, "investor_share_bps", *investorShareFlag)
		return nil
	}

	if *metricsAddrFlag != "" {
		go serveMetrics(log, *metricsAddrFlag)
	}

	crank := &crankDriver{
		log:        log,
		engine:     engine,
		store:      st,
		vesting:    vesting,
		clock:      clock,
		vault:      vault,
		rosterPath: *rosterFlag,
		pageSize:   *pageSizeFlag,
	}

	log.Info("crank started",
		"vault", vault,
		"pool", pool,
		"quote_mint", adapter.QuoteMint(),
		"tick_interval", *tickIntervalFlag,
	)

	ticker := clock.NewTicker(*tickIntervalFlag)
	defer ticker.Stop()
	for {
		if err := crank.runOnce(ctx); err != nil {
			log.Error("crank pass failed", "error", err)
		}
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return nil
		case <-ticker.Chan():
		}
	}
}

// crankDriver owns the per-tick work: reload the roster, recompute the
// locked totals, and feed pages to the engine until the cycle closes or
// an error stops the pass.
type crankDriver struct {
	log        *slog.Logger
	engine     *distributor.Engine
	store      *store.SQLite
	vesting    distributor.VestingReader
	clock      clockwork.Clock
	vault      solana.PublicKey
	rosterPath string
	pageSize   int
}

func (c *crankDriver) runOnce(ctx context.Context) error {
	r, err := roster.Load(c.rosterPath)
	if err != nil {
		return err
	}
	pages := r.Pages(c.pageSize)
	now := c.clock.Now().Unix()

	prog, err := c.store.LoadProgress(ctx, c.vault)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}

	start := 0
	if !prog.GateOpen(now) {
		start = int(prog.PageCursor)
		if start >= len(pages) {
			c.log.Debug("cycle already distributed, waiting for next window")
			return nil
		}
	}

	totalLocked, err := c.sumLocked(ctx, r, now)
	if err != nil {
		return err
	}

	for i := start; i < len(pages); i++ {
		res, err := c.engine.ProcessPage(ctx, distributor.PageParams{
			PageIndex:   uint16(i),
			TotalLocked: totalLocked,
			IsFinal:     i == len(pages)-1,
			Entries:     pages[i],
		})
		switch {
		case errors.Is(err, distributor.ErrCycleNotYetElapsed):
			c.log.Debug("cycle gate still closed", "now", now)
			return nil
		case errors.Is(err, distributor.ErrNoFeesToDistribute):
			c.log.Debug("no quote fees accrued, waiting")
			return nil
		case err != nil:
			return fmt.Errorf("page %d: %w", i, err)
		}
		c.log.Info("page processed",
			"page", res.Page,
			"distributed", res.Distributed,
			"deferred", res.Deferred,
			"closed", res.Closed,
		)
	}
	return nil
}

// sumLocked recomputes the roster-wide locked principal used for the
// eligibility split. Summed over the same roster the pages come from,
// so page weights and the cycle total stay consistent.
func (c *crankDriver) sumLocked(ctx context.Context, r *roster.Roster, now int64) (uint64, error) {
	var total uint64
	for _, entry := range r.Entries {
		locked, err := c.vesting.LockedAmount(ctx, entry.Stream, now)
		if err != nil {
			return 0, fmt.Errorf("locked amount for %s: %w", entry.Stream, err)
		}
		total += locked
	}
	return total, nil
}

func serveMetrics(log *slog.Logger, addr string) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error("failed to start prometheus metrics server listener", "error", err)
		return
	}
	log.Info("prometheus metrics server listening", "address", listener.Addr().String())
	http.Handle("/metrics", promhttp.Handler())
	if err := http.Serve(listener, nil); err != nil {
		log.Error("failed to start prometheus metrics server", "error", err)
	}
}

func requiredPubkey(name, value string) (solana.PublicKey, error) {
	if value == "" {
		return solana.PublicKey{}, fmt.Errorf("--%s is required", name)
	}
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("bad --%s: %w", name, err)
	}
	return key, nil
}
