// Package node assembles a Trinity full node: it builds the collaborator
// resources (stores, peer pool, chain handle), announces them on the event
// switch for the sync orchestrator, and honors shutdown requests arriving on
// the same switch.
package node

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dbm "github.com/tendermint/tm-db"

	cfg "github.com/berand/trinity/config"
	"github.com/berand/trinity/internal/chain"
	"github.com/berand/trinity/internal/chainsync"
	"github.com/berand/trinity/internal/chainsync/syncer"
	"github.com/berand/trinity/internal/peer"
	"github.com/berand/trinity/internal/store"
	"github.com/berand/trinity/libs/events"
	"github.com/berand/trinity/libs/log"
	"github.com/berand/trinity/libs/service"
	"github.com/berand/trinity/types"
)

const nodeListenerID = "node"

var _ service.Service = (*Node)(nil)

// Node is the highest level interface to a Trinity full node.
type Node struct {
	service.BaseService
	logger log.Logger

	config *cfg.Config
	evsw   events.EventSwitch

	db     dbm.DB
	stores *store.Manager
	orch   *chainsync.Orchestrator

	// halt is the process-wide cooperative stop signal handed to the sync
	// operation alongside the peer pool.
	halt     chan struct{}
	haltOnce sync.Once

	prometheusSrv *http.Server
}

// metricsProvider returns the metrics consumed by the node's subsystems.
type metricsProvider func(chainID string) (*chainsync.Metrics, *syncer.Metrics)

// defaultMetricsProvider returns Metrics built using Prometheus client
// library if Prometheus is enabled. Otherwise, it returns no-op Metrics.
func defaultMetricsProvider(config *cfg.InstrumentationConfig) metricsProvider {
	return func(chainID string) (*chainsync.Metrics, *syncer.Metrics) {
		if config.Prometheus {
			return chainsync.PrometheusMetrics(config.Namespace, "chain_id", chainID),
				syncer.PrometheusMetrics(config.Namespace, "chain_id", chainID)
		}
		return chainsync.NopMetrics(), syncer.NopMetrics()
	}
}

// New returns a ready-to-start node built from the given config.
func New(config *cfg.Config, logger log.Logger) (*Node, error) {
	if err := config.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	csMetrics, syncMetrics := defaultMetricsProvider(config.Instrumentation)(config.ChainID)

	registry, err := chainsync.DefaultRegistry(chainsync.DefaultStrategies(syncMetrics))
	if err != nil {
		return nil, err
	}

	evsw := events.NewEventSwitch()
	orch, err := chainsync.NewOrchestrator(
		logger.With("module", "chainsync"), evsw, registry, config.Sync.Mode, csMetrics)
	if err != nil {
		return nil, err
	}

	db, err := dbm.NewDB("trinity", dbm.BackendType(config.DBBackend), config.DBDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	stores, err := store.NewManager(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	n := &Node{
		logger: logger,
		config: config,
		evsw:   evsw,
		db:     db,
		stores: stores,
		orch:   orch,
		halt:   make(chan struct{}),
	}
	n.BaseService = *service.NewBaseService(logger, "Node", n)
	return n, nil
}

// OnStart starts the orchestrator and announces the collaborator resources.
// Each resource is announced from its own goroutine: the orchestrator makes
// no ordering assumption, and neither do we.
func (n *Node) OnStart(ctx context.Context) error {
	err := n.evsw.AddListenerForEvent(nodeListenerID, chainsync.EventShutdownRequest,
		func(data events.EventData) error {
			req, ok := data.(chainsync.ShutdownRequest)
			if !ok {
				return fmt.Errorf("unexpected shutdown event payload %T", data)
			}
			n.logger.Info("shutdown requested", "reason", req.Reason)

			// Stop synchronously would deadlock the firing goroutine.
			go func() { _ = n.Stop() }()
			return nil
		})
	if err != nil {
		return err
	}

	if n.config.Instrumentation.Prometheus {
		n.prometheusSrv = n.startPrometheusServer(n.config.Instrumentation.PrometheusListenAddr)
	}

	if err := n.orch.Start(ctx); err != nil {
		return err
	}

	go n.providePeerPool()
	go n.provideStores()
	go n.provideChain()

	return nil
}

// OnStop sets the halt signal, waits for a launched sync operation to wind
// down, and releases the node's resources.
func (n *Node) OnStop() {
	n.haltOnce.Do(func() { close(n.halt) })

	if n.orch.SyncLaunched() {
		select {
		case <-n.orch.SyncDone():
		case <-time.After(5 * time.Second):
			n.logger.Error("timed out waiting for sync operation to stop")
		}
	}
	if err := n.orch.Stop(); err != nil && err != service.ErrAlreadyStopped {
		n.logger.Error("failed to stop orchestrator", "err", err)
	}

	n.evsw.RemoveListenerForEvent(chainsync.EventShutdownRequest, nodeListenerID)

	if n.prometheusSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := n.prometheusSrv.Shutdown(shutdownCtx); err != nil {
			n.logger.Error("prometheus HTTP server shutdown error", "err", err)
		}
	}

	if err := n.db.Close(); err != nil {
		n.logger.Error("failed to close database", "err", err)
	}
}

// providePeerPool announces the peer pool together with the halt signal.
// With no transport configured the pool is empty: syncers see an immediate
// caught-up condition.
func (n *Node) providePeerPool() {
	pool := peer.NewStaticPool(0, nil, nil)
	n.evsw.FireEvent(chainsync.EventResourceAvailable, chainsync.ResourceAvailable{
		Kind:     chainsync.ResourcePeerPool,
		PeerPool: pool,
		Halt:     n.halt,
	})
}

func (n *Node) provideStores() {
	n.evsw.FireEvent(chainsync.EventResourceAvailable, chainsync.ResourceAvailable{
		Kind:   chainsync.ResourceStores,
		Stores: n.stores,
	})
}

// provideChain builds the chain handle, recovering the head from the block
// store if the node has synced before.
func (n *Node) provideChain() {
	var head *types.Header
	if height := n.stores.BlockStore().Height(); height > 0 {
		block, err := n.stores.BlockStore().LoadBlock(height)
		if err != nil {
			n.logger.Error("failed to load head block; starting from empty chain",
				"height", height, "err", err)
		} else {
			head = &block.Header
		}
	}

	n.evsw.FireEvent(chainsync.EventResourceAvailable, chainsync.ResourceAvailable{
		Kind:  chainsync.ResourceChain,
		Chain: chain.New(n.config.ChainID, head),
	})
}

func (n *Node) startPrometheusServer(addr string) *http.Server {
	srv := &http.Server{
		Addr: addr,
		Handler: promhttp.InstrumentMetricHandler(
			prometheus.DefaultRegisterer,
			promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}),
		),
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			n.logger.Error("prometheus HTTP server ListenAndServe", "err", err)
		}
	}()
	return srv
}
