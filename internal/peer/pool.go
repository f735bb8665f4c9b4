// Package peer defines the peer-pool contracts the syncers consume. A pool
// abstracts the set of connected remote nodes speaking a given wire
// sub-protocol; how those connections are made and framed is the transport
// layer's business.
package peer

import (
	"context"
	"errors"

	"github.com/berand/trinity/types"
)

// ErrCaughtUp is returned by a pool's retrieval methods once there is
// nothing left to fetch: every connected peer reports that we are at their
// best height. Syncers treat it as normal completion.
var ErrCaughtUp = errors.New("peer pool: caught up")

// Pool is the capability every pool variant shares.
type Pool interface {
	// Len returns the number of connected peers.
	Len() int
}

// FullPool serves the full-validation wire sub-protocol: complete blocks
// plus bulk state for the fast phase. Retrieval blocks until data is
// available, the pool is caught up (ErrCaughtUp), or ctx is done.
type FullPool interface {
	Pool

	NextBlock(ctx context.Context) (*types.Block, error)
	NextStateBatch(ctx context.Context) (*types.StateBatch, error)
}

// HeaderPool serves the header-only wire sub-protocol used by light sync.
type HeaderPool interface {
	Pool

	NextHeader(ctx context.Context) (*types.Header, error)
}
