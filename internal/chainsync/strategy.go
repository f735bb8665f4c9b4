// Package chainsync selects, wires and runs the node's chain-synchronization
// strategy. The orchestrator waits for the collaborator resources built by
// other subsystems, launches the configured strategy once they are all
// present, and turns the strategy's termination into a node shutdown request
// when the strategy demands it.
package chainsync

import (
	"context"
	"fmt"

	"github.com/berand/trinity/internal/chain"
	"github.com/berand/trinity/internal/chainsync/syncer"
	"github.com/berand/trinity/internal/peer"
	"github.com/berand/trinity/internal/store"
	"github.com/berand/trinity/libs/log"
)

// Sync modes selectable via --sync-mode.
const (
	ModeFull  = "full"
	ModeFast  = "fast"
	ModeLight = "light"
	ModeNone  = "none"
)

// Strategy is a pluggable synchronization unit. An instance is constructed
// at configuration time, runs Sync at most once, and is never reused.
type Strategy interface {
	// Mode returns the strategy's mode identifier.
	Mode() string

	// ShutdownOnHalt reports whether the node should shut down when Sync
	// returns, for any reason.
	ShutdownOnHalt() bool

	// Sync runs the strategy's synchronization algorithm until completion,
	// cancellation, or failure. The strategy picks the stores it needs from
	// the manager and asserts the pool capability it requires.
	Sync(ctx context.Context, logger log.Logger, c chain.Chain, stores *store.Manager, pool peer.Pool) error
}

// DefaultStrategies returns the four built-in strategies sharing the given
// syncer metrics.
func DefaultStrategies(metrics *syncer.Metrics) []Strategy {
	return []Strategy{
		NoopStrategy{},
		FullStrategy{metrics: metrics},
		FastThenFullStrategy{metrics: metrics},
		LightStrategy{metrics: metrics},
	}
}

//------------------------------------------------------------------

// NoopStrategy lets an operator opt out of syncing altogether. It never
// requests shutdown.
type NoopStrategy struct{}

func (NoopStrategy) Mode() string         { return ModeNone }
func (NoopStrategy) ShutdownOnHalt() bool { return false }

func (s NoopStrategy) Sync(_ context.Context, logger log.Logger, _ chain.Chain, _ *store.Manager, _ peer.Pool) error {
	logger.Info("node running without sync", "sync_mode", s.Mode())
	return nil
}

//------------------------------------------------------------------

// FullStrategy validates every block and its state transition as it is
// retrieved.
type FullStrategy struct {
	metrics *syncer.Metrics
}

func (FullStrategy) Mode() string         { return ModeFull }
func (FullStrategy) ShutdownOnHalt() bool { return true }

func (s FullStrategy) Sync(ctx context.Context, logger log.Logger, c chain.Chain, stores *store.Manager, pool peer.Pool) error {
	fullPool, ok := pool.(peer.FullPool)
	if !ok {
		return fmt.Errorf("full sync requires a full-validation peer pool, got %T", pool)
	}

	return syncer.NewFull(logger, c, stores.ChainStore(), stores.BlockStore(), fullPool, s.metrics).Run(ctx)
}

//------------------------------------------------------------------

// FastThenFullStrategy bulk-retrieves state first, then hands off into full
// block validation.
type FastThenFullStrategy struct {
	metrics *syncer.Metrics
}

func (FastThenFullStrategy) Mode() string         { return ModeFast }
func (FastThenFullStrategy) ShutdownOnHalt() bool { return true }

func (s FastThenFullStrategy) Sync(ctx context.Context, logger log.Logger, c chain.Chain, stores *store.Manager, pool peer.Pool) error {
	fullPool, ok := pool.(peer.FullPool)
	if !ok {
		return fmt.Errorf("fast sync requires a full-validation peer pool, got %T", pool)
	}

	return syncer.NewFastThenFull(logger, c, stores.ChainStore(), stores.BlockStore(), fullPool, s.metrics).Run(ctx)
}

//------------------------------------------------------------------

// LightStrategy syncs headers only, through the header-oriented wire
// sub-protocol.
type LightStrategy struct {
	metrics *syncer.Metrics
}

func (LightStrategy) Mode() string         { return ModeLight }
func (LightStrategy) ShutdownOnHalt() bool { return true }

func (s LightStrategy) Sync(ctx context.Context, logger log.Logger, c chain.Chain, stores *store.Manager, pool peer.Pool) error {
	headerPool, ok := pool.(peer.HeaderPool)
	if !ok {
		return fmt.Errorf("light sync requires a header peer pool, got %T", pool)
	}

	return syncer.NewLight(logger, c, stores.HeaderStore(), headerPool, s.metrics).Run(ctx)
}
