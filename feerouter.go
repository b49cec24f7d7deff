package feerouter

import (
	"github.com/solcrank/feerouter-go/dammv2"
	"github.com/solcrank/feerouter-go/distributor"
	"github.com/solcrank/feerouter-go/streamflow"
)

// NewEngine creates the fee distribution engine.
//
// Example:
//
// engine, _ := NewEngine(distributor.Config{Logger: log, Store: store, Fees: adapter, Vesting: reader, Transfer: adapter, Vault: vault, Creator: creator})
//
// engine.ProcessPage(ctx, distributor.PageParams{PageIndex: 0, TotalLocked: totalLocked, IsFinal: true, Entries: entries})
var NewEngine = distributor.New

// NewPoolAdapter creates the DAMM v2 fee claim and payout adapter.
//
// Example:
//
// adapter, _ := NewPoolAdapter(ctx, dammv2.AdapterConfig{Logger: log, RPCClient: rpcClient, WSClient: wsClient, Operator: operator, Pool: pool, Position: position, PositionNftAccount: nft})
var NewPoolAdapter = dammv2.NewAdapter

// NewStreamReader creates the Streamflow vesting reader.
//
// Example:
//
// reader := NewStreamReader(rpcClient)
//
// locked, _ := reader.LockedAmount(ctx, stream, time.Now().Unix())
var NewStreamReader = streamflow.NewReader
