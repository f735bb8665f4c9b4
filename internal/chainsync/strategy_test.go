package chainsync_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"

	"github.com/berand/trinity/internal/chain"
	"github.com/berand/trinity/internal/chainsync"
	"github.com/berand/trinity/internal/peer"
	"github.com/berand/trinity/internal/store"
	"github.com/berand/trinity/libs/log"
	"github.com/berand/trinity/types"
)

// headerOnlyPool implements peer.HeaderPool but not peer.FullPool.
type headerOnlyPool struct{}

func (headerOnlyPool) Len() int { return 0 }
func (headerOnlyPool) NextHeader(context.Context) (*types.Header, error) {
	return nil, peer.ErrCaughtUp
}

func TestStrategyModes(t *testing.T) {
	testCases := []struct {
		strategy       chainsync.Strategy
		mode           string
		shutdownOnHalt bool
	}{
		{chainsync.NoopStrategy{}, chainsync.ModeNone, false},
		{chainsync.FullStrategy{}, chainsync.ModeFull, true},
		{chainsync.FastThenFullStrategy{}, chainsync.ModeFast, true},
		{chainsync.LightStrategy{}, chainsync.ModeLight, true},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.mode, tc.strategy.Mode())
		assert.Equal(t, tc.shutdownOnHalt, tc.strategy.ShutdownOnHalt())
	}
}

func TestStrategiesRejectWrongPoolCapability(t *testing.T) {
	ctx := context.Background()
	logger := log.NewTestingLogger(t)
	stores, err := store.NewManager(dbm.NewMemDB())
	require.NoError(t, err)
	c := chain.New("test-chain", nil)

	for _, strategy := range []chainsync.Strategy{
		chainsync.FullStrategy{},
		chainsync.FastThenFullStrategy{},
	} {
		err := strategy.Sync(ctx, logger, c, stores, headerOnlyPool{})
		require.Error(t, err, "mode %s", strategy.Mode())
	}
}

func TestFullStrategySyncsEndToEnd(t *testing.T) {
	ctx := context.Background()
	stores, err := store.NewManager(dbm.NewMemDB())
	require.NoError(t, err)
	c := chain.New("test-chain", nil)

	blocks := []*types.Block{
		{Header: types.Header{ChainID: "test-chain", Height: 1, Time: time.Unix(1, 0), Hash: []byte{1}}},
		{Header: types.Header{ChainID: "test-chain", Height: 2, Time: time.Unix(2, 0), Hash: []byte{2}, ParentHash: []byte{1}}},
	}
	pool := peer.NewStaticPool(1, blocks, nil)

	strategy := chainsync.FullStrategy{}
	require.NoError(t, strategy.Sync(ctx, log.NewTestingLogger(t), c, stores, pool))
	assert.EqualValues(t, 2, c.Height())
	assert.EqualValues(t, 2, stores.BlockStore().Height())
}

func TestNoopStrategyIgnoresResources(t *testing.T) {
	err := chainsync.NoopStrategy{}.Sync(context.Background(), log.NewTestingLogger(t), nil, nil, nil)
	require.NoError(t, err)
}
