package peer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berand/trinity/internal/peer"
	"github.com/berand/trinity/types"
)

func TestStaticPoolDrains(t *testing.T) {
	ctx := context.Background()

	blocks := []*types.Block{
		{Header: types.Header{Height: 1, Hash: []byte{1}}},
		{Header: types.Header{Height: 2, Hash: []byte{2}, ParentHash: []byte{1}}},
	}
	pool := peer.NewStaticPool(3, blocks, nil)
	assert.Equal(t, 3, pool.Len())

	for i := int64(1); i <= 2; i++ {
		b, err := pool.NextBlock(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, b.Header.Height)
	}

	_, err := pool.NextBlock(ctx)
	require.ErrorIs(t, err, peer.ErrCaughtUp)

	// headers were derived from the same blocks
	h, err := pool.NextHeader(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, h.Height)
}

func TestStaticPoolHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := peer.NewStaticPool(1, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := pool.NextBlock(ctx)
		done <- err
	}()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("NextBlock did not observe cancellation")
	}
}
