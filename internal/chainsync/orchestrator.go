package chainsync

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/berand/trinity/internal/chain"
	"github.com/berand/trinity/internal/peer"
	"github.com/berand/trinity/internal/store"
	"github.com/berand/trinity/libs/events"
	"github.com/berand/trinity/libs/log"
	"github.com/berand/trinity/libs/service"
)

const listenerID = "chainsync"

var _ service.Service = (*Orchestrator)(nil)

// Orchestrator runs the node's active sync strategy. It resolves the
// strategy at construction, accumulates the collaborator resources announced
// on the event switch, launches the strategy's sync operation once all of
// them are present, and fires a shutdown request when a halting strategy
// terminates.
//
// Resource notifications funnel through a single goroutine, so the
// readiness check is serialized: the launch fires exactly once per run no
// matter how deliveries interleave. Deliveries for an already-filled slot
// overwrite the previous value before launch and are dropped after it.
type Orchestrator struct {
	service.BaseService
	logger log.Logger

	evsw    events.EventSwitch
	active  Strategy // nil when no strategy matched the configured mode
	mode    string
	metrics *Metrics

	resourceCh chan ResourceAvailable
	launched   uint32 // atomic
	syncDone   chan struct{}
}

// NewOrchestrator resolves the configured mode against the registry and
// returns the orchestrator. An ambiguous mode is a configuration-time
// failure; an unmatched mode yields an idle orchestrator that subscribes to
// nothing.
func NewOrchestrator(
	logger log.Logger,
	evsw events.EventSwitch,
	registry *Registry,
	configuredMode string,
	metrics *Metrics,
) (*Orchestrator, error) {
	active, err := registry.Resolve(configuredMode)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = NopMetrics()
	}

	o := &Orchestrator{
		logger:     logger,
		evsw:       evsw,
		active:     active,
		mode:       configuredMode,
		metrics:    metrics,
		resourceCh: make(chan ResourceAvailable),
		syncDone:   make(chan struct{}),
	}
	o.BaseService = *service.NewBaseService(logger, "Orchestrator", o)
	return o, nil
}

// ActiveMode returns the mode of the resolved strategy, or "" when no
// strategy matched.
func (o *Orchestrator) ActiveMode() string {
	if o.active == nil {
		return ""
	}
	return o.active.Mode()
}

// SyncLaunched reports whether the sync operation has been launched.
func (o *Orchestrator) SyncLaunched() bool {
	return atomic.LoadUint32(&o.launched) == 1
}

// SyncDone returns a channel closed when the sync operation has terminated.
// It never closes when the orchestrator is idle.
func (o *Orchestrator) SyncDone() <-chan struct{} { return o.syncDone }

// OnStart subscribes to resource-availability events and starts the
// acquisition loop. An idle orchestrator (no matching strategy) logs a
// warning and consumes nothing.
func (o *Orchestrator) OnStart(ctx context.Context) error {
	if o.active == nil {
		o.logger.Error("no sync strategy matches the configured mode; node will not sync", "sync_mode", o.mode)
		return nil
	}

	err := o.evsw.AddListenerForEvent(listenerID, EventResourceAvailable,
		func(data events.EventData) error {
			ev, ok := data.(ResourceAvailable)
			if !ok {
				return fmt.Errorf("unexpected resource event payload %T", data)
			}

			select {
			case o.resourceCh <- ev:
			case <-ctx.Done():
			}
			return nil
		})
	if err != nil {
		return err
	}

	go o.acquireResources(ctx)
	return nil
}

// OnStop unsubscribes; the acquisition loop and any running sync exit with
// the start context.
func (o *Orchestrator) OnStop() {
	o.evsw.RemoveListenerForEvent(EventResourceAvailable, listenerID)
}

// resourceSet is the accumulated collaborator state. It is only touched by
// the acquisition goroutine.
type resourceSet struct {
	pool   peer.Pool
	halt   <-chan struct{}
	stores *store.Manager
	chain  chain.Chain
}

// apply folds one delivery into the set. Last writer wins per slot.
func (rs resourceSet) apply(ev ResourceAvailable) resourceSet {
	switch ev.Kind {
	case ResourcePeerPool:
		rs.pool = ev.PeerPool
		rs.halt = ev.Halt
	case ResourceStores:
		rs.stores = ev.Stores
	case ResourceChain:
		rs.chain = ev.Chain
	}
	return rs
}

func (rs resourceSet) complete() bool {
	return rs.pool != nil && rs.stores != nil && rs.chain != nil
}

// acquireResources is the single consumer of resource deliveries. Once the
// set is complete it launches the sync operation, exactly once, and keeps
// draining (and dropping) late deliveries so event firers never block.
func (o *Orchestrator) acquireResources(ctx context.Context) {
	var (
		rs       resourceSet
		launched bool
	)

	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-o.resourceCh:
			if !ev.Kind.valid() {
				o.logger.Error("ignoring resource event of unknown kind", "kind", uint8(ev.Kind))
				continue
			}

			if launched {
				o.logger.Debug("resource delivered after sync launch; dropping", "kind", ev.Kind.String())
				continue
			}

			o.logger.Debug("resource available", "kind", ev.Kind.String())
			o.metrics.ResourceDeliveries.With("kind", ev.Kind.String()).Add(1)
			rs = rs.apply(ev)

			if rs.complete() {
				launched = true
				atomic.StoreUint32(&o.launched, 1)
				go o.runSync(ctx, rs)
			}
		}
	}
}

// runSync executes the active strategy as an independently cancellable
// operation: its context ends when the orchestrator's context ends or when
// the delivered halt signal fires, whichever comes first.
func (o *Orchestrator) runSync(ctx context.Context, rs resourceSet) {
	defer close(o.syncDone)

	syncCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if rs.halt != nil {
		go func() {
			select {
			case <-rs.halt:
				cancel()
			case <-syncCtx.Done():
			}
		}()
	}

	o.logger.Info("starting sync", "sync_mode", o.active.Mode(), "peers", rs.pool.Len())
	o.metrics.SyncLaunches.Add(1)

	err := o.active.Sync(syncCtx, o.logger.With("sync_mode", o.active.Mode()), rs.chain, rs.stores, rs.pool)

	outcome := "completed"
	switch {
	case err == nil:
		o.logger.Info("sync finished", "sync_mode", o.active.Mode())
	case syncCtx.Err() != nil:
		outcome = "canceled"
		o.logger.Info("sync canceled", "sync_mode", o.active.Mode(), "err", err)
	default:
		outcome = "failed"
		o.logger.Error("sync failed", "sync_mode", o.active.Mode(), "err", err)
	}
	o.metrics.SyncTerminations.With("outcome", outcome).Add(1)

	if !o.active.ShutdownOnHalt() {
		return
	}

	reason := fmt.Sprintf("sync (mode %q) halted: %s", o.active.Mode(), outcome)
	o.logger.Error("sync ended; requesting node shutdown", "reason", reason)
	o.metrics.ShutdownRequests.Add(1)
	o.evsw.FireEvent(EventShutdownRequest, ShutdownRequest{Reason: reason})
}
