// Package syncer holds the synchronization algorithms the strategies run.
// Each syncer is a cooperative loop: it checks its context before every unit
// of network or storage work and returns promptly once the context is done.
// Returning nil means the pool reported caught-up; any other return is an
// abnormal termination the caller interprets.
package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/berand/trinity/internal/chain"
	"github.com/berand/trinity/internal/peer"
	"github.com/berand/trinity/internal/store"
	"github.com/berand/trinity/libs/log"
)

// Full retrieves complete blocks and validates each one against the chain as
// it arrives.
type Full struct {
	logger     log.Logger
	chain      chain.Chain
	chainStore *store.ChainStore
	blockStore *store.BlockStore
	pool       peer.FullPool
	metrics    *Metrics
}

// NewFull returns a full-validation syncer.
func NewFull(
	logger log.Logger,
	c chain.Chain,
	chainStore *store.ChainStore,
	blockStore *store.BlockStore,
	pool peer.FullPool,
	metrics *Metrics,
) *Full {
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &Full{
		logger:     logger,
		chain:      c,
		chainStore: chainStore,
		blockStore: blockStore,
		pool:       pool,
		metrics:    metrics,
	}
}

// Run drains the pool into the block store, extending the chain one block at
// a time, until the pool is caught up or ctx is done.
func (s *Full) Run(ctx context.Context) error {
	s.logger.Info("starting full sync", "height", s.chain.Height(), "peers", s.pool.Len())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		block, err := s.pool.NextBlock(ctx)
		if errors.Is(err, peer.ErrCaughtUp) {
			s.logger.Info("full sync caught up", "height", s.chain.Height())
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.chain.Extend(block); err != nil {
			return fmt.Errorf("invalid block at height %d: %w", block.Header.Height, err)
		}
		if err := s.blockStore.SaveBlock(block); err != nil {
			return err
		}

		s.metrics.BlocksSynced.Add(1)
		s.metrics.SyncHeight.Set(float64(block.Header.Height))
	}
}
