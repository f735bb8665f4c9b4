package chainsync

import (
	"github.com/berand/trinity/internal/chain"
	"github.com/berand/trinity/internal/peer"
	"github.com/berand/trinity/internal/store"
)

// Event names fired on the node's event switch.
const (
	// EventResourceAvailable announces that a collaborator resource has
	// finished construction. Payload: ResourceAvailable.
	EventResourceAvailable = "ResourceAvailable"

	// EventShutdownRequest asks the node to shut down. Payload:
	// ShutdownRequest. A request, not a kill: listeners decide how to wind
	// down.
	EventShutdownRequest = "ShutdownRequest"
)

// ResourceKind discriminates the resources the orchestrator waits on. The
// set is closed: events carrying any other kind are ignored.
type ResourceKind uint8

const (
	ResourcePeerPool ResourceKind = iota + 1
	ResourceStores
	ResourceChain
)

func (k ResourceKind) valid() bool {
	return k >= ResourcePeerPool && k <= ResourceChain
}

func (k ResourceKind) String() string {
	switch k {
	case ResourcePeerPool:
		return "peer-pool"
	case ResourceStores:
		return "stores"
	case ResourceChain:
		return "chain"
	default:
		return "unknown"
	}
}

// ResourceAvailable is the payload of EventResourceAvailable. Exactly one of
// the resource fields is set, according to Kind. A peer pool arrives paired
// with Halt, the process-wide cooperative stop signal the sync operation
// must observe.
type ResourceAvailable struct {
	Kind ResourceKind

	PeerPool peer.Pool
	Halt     <-chan struct{}
	Stores   *store.Manager
	Chain    chain.Chain
}

// ShutdownRequest is the payload of EventShutdownRequest.
type ShutdownRequest struct {
	Reason string
}
