package syncer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"

	"github.com/berand/trinity/internal/chain"
	"github.com/berand/trinity/internal/chainsync/syncer"
	"github.com/berand/trinity/internal/peer"
	"github.com/berand/trinity/internal/store"
	"github.com/berand/trinity/libs/log"
	"github.com/berand/trinity/types"
)

func makeChain(t *testing.T, n int64) []*types.Block {
	t.Helper()

	blocks := make([]*types.Block, 0, n)
	for h := int64(1); h <= n; h++ {
		blocks = append(blocks, &types.Block{
			Header: types.Header{
				ChainID:    "test-chain",
				Height:     h,
				Time:       time.Unix(h, 0).UTC(),
				Hash:       []byte{byte(h)},
				ParentHash: []byte{byte(h - 1)},
			},
		})
	}
	return blocks
}

func newManager(t *testing.T) *store.Manager {
	t.Helper()
	m, err := store.NewManager(dbm.NewMemDB())
	require.NoError(t, err)
	return m
}

func TestFullSyncDrainsPool(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	c := chain.New("test-chain", nil)
	pool := peer.NewStaticPool(1, makeChain(t, 10), nil)

	s := syncer.NewFull(log.NewTestingLogger(t), c, m.ChainStore(), m.BlockStore(), pool, syncer.NopMetrics())
	require.NoError(t, s.Run(ctx))

	assert.EqualValues(t, 10, c.Height())
	assert.EqualValues(t, 10, m.BlockStore().Height())
}

func TestFullSyncRejectsBrokenLinkage(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	c := chain.New("test-chain", nil)

	blocks := makeChain(t, 3)
	blocks[2].Header.ParentHash = []byte{0xff}
	pool := peer.NewStaticPool(1, blocks, nil)

	s := syncer.NewFull(log.NewTestingLogger(t), c, m.ChainStore(), m.BlockStore(), pool, syncer.NopMetrics())
	err := s.Run(ctx)
	require.Error(t, err)
	assert.EqualValues(t, 2, c.Height())
}

func TestFullSyncReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := newManager(t)
	c := chain.New("test-chain", nil)
	pool := peer.NewStaticPool(1, makeChain(t, 10), nil)

	s := syncer.NewFull(log.NewTestingLogger(t), c, m.ChainStore(), m.BlockStore(), pool, syncer.NopMetrics())
	err := s.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 0, c.Height())
}

func TestFastThenFullRunsBothPhases(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	c := chain.New("test-chain", nil)

	batches := []*types.StateBatch{
		{Entries: []types.StateEntry{{Key: []byte("k1"), Value: []byte("v1")}}},
		{Entries: []types.StateEntry{{Key: []byte("k2"), Value: []byte("v2")}}},
	}
	pool := peer.NewStaticPool(1, makeChain(t, 5), batches)

	s := syncer.NewFastThenFull(log.NewTestingLogger(t), c, m.ChainStore(), m.BlockStore(), pool, syncer.NopMetrics())
	require.NoError(t, s.Run(ctx))

	assert.EqualValues(t, 5, c.Height())
	v, err := m.ChainStore().GetState([]byte("k2"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), v)
}

func TestLightSyncStoresHeadersOnly(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	c := chain.New("test-chain", nil)
	pool := peer.NewStaticPool(1, makeChain(t, 4), nil)

	s := syncer.NewLight(log.NewTestingLogger(t), c, m.HeaderStore(), pool, syncer.NopMetrics())
	require.NoError(t, s.Run(ctx))

	assert.EqualValues(t, 4, c.Height())
	assert.EqualValues(t, 4, m.HeaderStore().Height())
	assert.EqualValues(t, 0, m.BlockStore().Height())
}
