package peer

import (
	"context"
	"sync"

	"github.com/berand/trinity/types"
)

var (
	_ FullPool   = (*StaticPool)(nil)
	_ HeaderPool = (*StaticPool)(nil)
)

// StaticPool is an in-memory pool pre-loaded with a fixed run of blocks and
// state batches. It serves them in order and reports caught-up when drained.
// The node wires it in when no transport is configured; tests use it to
// exercise the syncers deterministically.
type StaticPool struct {
	mtx     sync.Mutex
	peers   int
	blocks  []*types.Block
	batches []*types.StateBatch
	headers []*types.Header
}

// NewStaticPool returns a pool serving the given blocks and state batches.
// Headers are derived from the blocks.
func NewStaticPool(peers int, blocks []*types.Block, batches []*types.StateBatch) *StaticPool {
	headers := make([]*types.Header, len(blocks))
	for i, b := range blocks {
		header := b.Header
		headers[i] = &header
	}
	return &StaticPool{
		peers:   peers,
		blocks:  blocks,
		batches: batches,
		headers: headers,
	}
}

// Len implements Pool.
func (p *StaticPool) Len() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.peers
}

// NextBlock implements FullPool.
func (p *StaticPool) NextBlock(ctx context.Context) (*types.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()
	if len(p.blocks) == 0 {
		return nil, ErrCaughtUp
	}
	block := p.blocks[0]
	p.blocks = p.blocks[1:]
	return block, nil
}

// NextStateBatch implements FullPool.
func (p *StaticPool) NextStateBatch(ctx context.Context) (*types.StateBatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()
	if len(p.batches) == 0 {
		return nil, ErrCaughtUp
	}
	batch := p.batches[0]
	p.batches = p.batches[1:]
	return batch, nil
}

// NextHeader implements HeaderPool.
func (p *StaticPool) NextHeader(ctx context.Context) (*types.Header, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()
	if len(p.headers) == 0 {
		return nil, ErrCaughtUp
	}
	header := p.headers[0]
	p.headers = p.headers[1:]
	return header, nil
}
