package syncer

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/berand/trinity/internal/chain"
	"github.com/berand/trinity/internal/peer"
	"github.com/berand/trinity/internal/store"
	"github.com/berand/trinity/libs/log"
)

// stateFetchers is the number of concurrent workers draining state batches
// during the bulk phase.
const stateFetchers = 4

// FastThenFull bulk-retrieves chain state first and then hands off into full
// block validation. The phase transition is internal; callers see a single
// sync run.
type FastThenFull struct {
	logger     log.Logger
	chain      chain.Chain
	chainStore *store.ChainStore
	blockStore *store.BlockStore
	pool       peer.FullPool
	metrics    *Metrics
}

// NewFastThenFull returns a two-phase fast sync.
func NewFastThenFull(
	logger log.Logger,
	c chain.Chain,
	chainStore *store.ChainStore,
	blockStore *store.BlockStore,
	pool peer.FullPool,
	metrics *Metrics,
) *FastThenFull {
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &FastThenFull{
		logger:     logger,
		chain:      c,
		chainStore: chainStore,
		blockStore: blockStore,
		pool:       pool,
		metrics:    metrics,
	}
}

// Run executes the state phase and then the full phase.
func (s *FastThenFull) Run(ctx context.Context) error {
	if err := s.fetchState(ctx); err != nil {
		return err
	}

	s.logger.Info("state phase complete; switching to full sync")

	full := NewFull(s.logger, s.chain, s.chainStore, s.blockStore, s.pool, s.metrics)
	return full.Run(ctx)
}

// fetchState drains bulk state batches into the chain store with a small
// group of workers. It returns once every worker sees the pool caught up.
func (s *FastThenFull) fetchState(ctx context.Context) error {
	s.logger.Info("starting state fetch", "peers", s.pool.Len(), "fetchers", stateFetchers)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < stateFetchers; i++ {
		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}

				batch, err := s.pool.NextStateBatch(gctx)
				if errors.Is(err, peer.ErrCaughtUp) {
					return nil
				}
				if err != nil {
					return err
				}

				if err := s.chainStore.PutState(batch); err != nil {
					return err
				}
				s.metrics.StateBatches.Add(1)
			}
		})
	}
	return g.Wait()
}
