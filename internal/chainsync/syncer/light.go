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

// Light syncs bare headers through the header-only wire sub-protocol.
type Light struct {
	logger      log.Logger
	chain       chain.Chain
	headerStore *store.HeaderStore
	pool        peer.HeaderPool
	metrics     *Metrics
}

// NewLight returns a header-only syncer.
func NewLight(
	logger log.Logger,
	c chain.Chain,
	headerStore *store.HeaderStore,
	pool peer.HeaderPool,
	metrics *Metrics,
) *Light {
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &Light{
		logger:      logger,
		chain:       c,
		headerStore: headerStore,
		pool:        pool,
		metrics:     metrics,
	}
}

// Run drains the pool into the header store until the pool is caught up or
// ctx is done.
func (s *Light) Run(ctx context.Context) error {
	s.logger.Info("starting light sync", "height", s.chain.Height(), "peers", s.pool.Len())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		header, err := s.pool.NextHeader(ctx)
		if errors.Is(err, peer.ErrCaughtUp) {
			s.logger.Info("light sync caught up", "height", s.chain.Height())
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.chain.ExtendHeader(header); err != nil {
			return fmt.Errorf("invalid header at height %d: %w", header.Height, err)
		}
		if err := s.headerStore.SaveHeader(header); err != nil {
			return err
		}

		s.metrics.HeadersSynced.Add(1)
		s.metrics.SyncHeight.Set(float64(header.Height))
	}
}
