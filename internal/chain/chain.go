// Package chain provides the node's chain handle: the narrow view of chain
// identity and head tracking that the syncers extend. Validation here is
// limited to linkage; execution and consensus rules live elsewhere.
package chain

import (
	"fmt"
	"sync"

	"github.com/berand/trinity/types"
)

// Chain is the handle handed to the active sync strategy.
type Chain interface {
	// ID returns the chain identifier.
	ID() string

	// Height returns the height of the current head, or 0 for an empty
	// chain.
	Height() int64

	// Head returns the current head header, or nil for an empty chain.
	Head() *types.Header

	// Extend validates the block against the current head and, on success,
	// makes its header the new head.
	Extend(block *types.Block) error

	// ExtendHeader is Extend for header-only synchronization.
	ExtendHeader(header *types.Header) error
}

type chain struct {
	id string

	mtx  sync.RWMutex
	head *types.Header
}

// New returns a chain handle for the given chain ID with the given head.
// A nil head means an empty chain whose first accepted height is 1.
func New(id string, head *types.Header) Chain {
	return &chain{id: id, head: head}
}

func (c *chain) ID() string { return c.id }

func (c *chain) Height() int64 {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	if c.head == nil {
		return 0
	}
	return c.head.Height
}

func (c *chain) Head() *types.Header {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return c.head
}

func (c *chain) Extend(block *types.Block) error {
	if err := block.ValidateBasic(); err != nil {
		return err
	}
	return c.extend(&block.Header)
}

func (c *chain) ExtendHeader(header *types.Header) error {
	if err := header.ValidateBasic(); err != nil {
		return err
	}
	return c.extend(header)
}

func (c *chain) extend(header *types.Header) error {
	if header.ChainID != c.id {
		return fmt.Errorf("header chain ID %q does not match chain %q", header.ChainID, c.id)
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.head == nil {
		if header.Height != 1 {
			return fmt.Errorf("empty chain: expected height 1, got %d", header.Height)
		}
	} else if !header.LinksTo(c.head) {
		return fmt.Errorf("header at height %d does not link to head at height %d",
			header.Height, c.head.Height)
	}

	cp := *header
	c.head = &cp
	return nil
}
