package types

import (
	"bytes"
	"errors"
	"fmt"
	"time"
)

// Header is the minimal chain header carried between the peer pool, the
// syncers and the stores. Consensus fields live with the consensus engine,
// not here.
type Header struct {
	ChainID    string    `json:"chain_id"`
	Height     int64     `json:"height"`
	Time       time.Time `json:"time"`
	Hash       []byte    `json:"hash"`
	ParentHash []byte    `json:"parent_hash"`
}

// ValidateBasic performs stateless checks on the header.
func (h *Header) ValidateBasic() error {
	if h == nil {
		return errors.New("nil header")
	}
	if h.Height <= 0 {
		return fmt.Errorf("header height must be positive, got %d", h.Height)
	}
	if len(h.Hash) == 0 {
		return errors.New("header hash is empty")
	}
	return nil
}

// LinksTo reports whether h is the direct child of parent.
func (h *Header) LinksTo(parent *Header) bool {
	if parent == nil {
		return false
	}
	return h.Height == parent.Height+1 && bytes.Equal(h.ParentHash, parent.Hash)
}

// Block pairs a header with its opaque payload. Payload contents are the
// application's business; syncers and stores treat them as bytes.
type Block struct {
	Header Header `json:"header"`
	Data   []byte `json:"data"`
}

// ValidateBasic performs stateless checks on the block.
func (b *Block) ValidateBasic() error {
	if b == nil {
		return errors.New("nil block")
	}
	return b.Header.ValidateBasic()
}

// StateEntry is one key-value pair of bulk-retrieved state.
type StateEntry struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
}

// StateBatch is a chunk of state entries retrieved during the bulk phase of
// a fast sync.
type StateBatch struct {
	Entries []StateEntry `json:"entries"`
}
