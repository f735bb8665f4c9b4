package node_test

import (
	"context"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berand/trinity/config"
	"github.com/berand/trinity/libs/log"
	"github.com/berand/trinity/node"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.TestConfig()
	cfg.SetRoot(t.TempDir())
	return cfg
}

func TestNodeShutsDownAfterSyncCompletes(t *testing.T) {
	defer leaktest.CheckTimeout(t, 10*time.Second)()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// the default full-sync strategy against an empty pool completes
	// immediately and must bring the whole node down
	cfg := testConfig(t)
	require.Equal(t, "full", cfg.Sync.Mode)

	n, err := node.New(cfg, log.NewTestingLogger(t))
	require.NoError(t, err)
	require.NoError(t, n.Start(ctx))

	done := make(chan struct{})
	go func() {
		n.Wait()
		close(done)
	}()

	select {
	case <-done:
		assert.False(t, n.IsRunning())
	case <-time.After(5 * time.Second):
		t.Fatal("node did not shut down after sync completed")
	}
}

func TestNodeWithoutSyncKeepsRunning(t *testing.T) {
	defer leaktest.CheckTimeout(t, 10*time.Second)()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig(t)
	cfg.Sync.Mode = "none"

	n, err := node.New(cfg, log.NewTestingLogger(t))
	require.NoError(t, err)
	require.NoError(t, n.Start(ctx))

	// the no-op strategy finishes without requesting shutdown
	time.Sleep(100 * time.Millisecond)
	require.True(t, n.IsRunning())

	require.NoError(t, n.Stop())
	n.Wait()
}

func TestNodeUnknownModeStaysIdle(t *testing.T) {
	defer leaktest.CheckTimeout(t, 10*time.Second)()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig(t)
	cfg.Sync.Mode = "archive"

	n, err := node.New(cfg, log.NewTestingLogger(t))
	require.NoError(t, err)
	require.NoError(t, n.Start(ctx))

	time.Sleep(100 * time.Millisecond)
	require.True(t, n.IsRunning())

	require.NoError(t, n.Stop())
	n.Wait()
}

func TestNodeRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sync.Mode = ""

	_, err := node.New(cfg, log.NewTestingLogger(t))
	require.Error(t, err)
}
