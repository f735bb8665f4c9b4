package types_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berand/trinity/types"
)

func makeHeader(height int64) types.Header {
	return types.Header{
		ChainID:    "test-chain",
		Height:     height,
		Time:       time.Unix(1700000000+height, 0).UTC(),
		Hash:       []byte{byte(height)},
		ParentHash: []byte{byte(height - 1)},
	}
}

func TestHeaderValidateBasic(t *testing.T) {
	testCases := []struct {
		name      string
		malleate  func(*types.Header)
		expectErr bool
	}{
		{"valid", func(*types.Header) {}, false},
		{"zero height", func(h *types.Header) { h.Height = 0 }, true},
		{"negative height", func(h *types.Header) { h.Height = -1 }, true},
		{"empty hash", func(h *types.Header) { h.Hash = nil }, true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			h := makeHeader(5)
			tc.malleate(&h)
			err := h.ValidateBasic()
			if tc.expectErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}

	var nilHeader *types.Header
	require.Error(t, nilHeader.ValidateBasic())
}

func TestHeaderLinksTo(t *testing.T) {
	parent := makeHeader(3)

	child := makeHeader(4)
	child.ParentHash = parent.Hash
	assert.True(t, child.LinksTo(&parent))

	skipped := makeHeader(5)
	skipped.ParentHash = parent.Hash
	assert.False(t, skipped.LinksTo(&parent))

	wrongParent := makeHeader(4)
	wrongParent.ParentHash = []byte("other")
	assert.False(t, wrongParent.LinksTo(&parent))

	assert.False(t, child.LinksTo(nil))
}

func TestBlockValidateBasic(t *testing.T) {
	block := &types.Block{Header: makeHeader(1), Data: []byte("payload")}
	require.NoError(t, block.ValidateBasic())

	block.Header.Height = 0
	require.Error(t, block.ValidateBasic())

	var nilBlock *types.Block
	require.Error(t, nilBlock.ValidateBasic())
}
