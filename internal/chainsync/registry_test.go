package chainsync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berand/trinity/internal/chainsync"
	"github.com/berand/trinity/internal/chainsync/syncer"
)

func TestNewRegistryDefaultRegistered(t *testing.T) {
	full := chainsync.FullStrategy{}
	light := chainsync.LightStrategy{}

	reg, err := chainsync.NewRegistry([]chainsync.Strategy{full, light}, full)
	require.NoError(t, err)
	assert.Equal(t, chainsync.ModeFull, reg.DefaultMode())
	assert.Equal(t, []string{chainsync.ModeFull, chainsync.ModeLight}, reg.Modes())
}

func TestNewRegistryDefaultMissing(t *testing.T) {
	full := chainsync.FullStrategy{}
	light := chainsync.LightStrategy{}

	_, err := chainsync.NewRegistry([]chainsync.Strategy{full}, light)
	require.ErrorIs(t, err, chainsync.ErrUnregisteredDefault)
}

func TestDefaultRegistry(t *testing.T) {
	reg, err := chainsync.DefaultRegistry(chainsync.DefaultStrategies(syncer.NopMetrics()))
	require.NoError(t, err)

	assert.Equal(t, chainsync.ModeFull, reg.DefaultMode())
	assert.ElementsMatch(t,
		[]string{chainsync.ModeNone, chainsync.ModeFull, chainsync.ModeFast, chainsync.ModeLight},
		reg.Modes())
}

func TestResolve(t *testing.T) {
	reg, err := chainsync.DefaultRegistry(chainsync.DefaultStrategies(syncer.NopMetrics()))
	require.NoError(t, err)

	testCases := map[string]struct {
		mode     string
		wantMode string
		wantNil  bool
	}{
		"exact match":            {mode: "full", wantMode: chainsync.ModeFull},
		"case-insensitive match": {mode: "FULL", wantMode: chainsync.ModeFull},
		"mixed case":             {mode: "LiGhT", wantMode: chainsync.ModeLight},
		"no match":               {mode: "archive", wantNil: true},
	}

	for name, tc := range testCases {
		tc := tc

		t.Run(name, func(t *testing.T) {
			strategy, err := reg.Resolve(tc.mode)
			require.NoError(t, err)
			if tc.wantNil {
				require.Nil(t, strategy)
				return
			}
			require.NotNil(t, strategy)
			assert.Equal(t, tc.wantMode, strategy.Mode())
		})
	}
}

func TestResolveAmbiguous(t *testing.T) {
	// two strategies whose modes differ only in case: legal to register,
	// defective to resolve
	a := stubStrategy{mode: "full"}
	b := stubStrategy{mode: "Full"}

	reg, err := chainsync.NewRegistry([]chainsync.Strategy{a, b}, a)
	require.NoError(t, err)

	_, err = reg.Resolve("full")
	require.ErrorIs(t, err, chainsync.ErrAmbiguousStrategy)
}
