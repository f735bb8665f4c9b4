// Package store implements the node's persistence layer: a Manager that owns
// the backing key-value database and hands out selective views of it (chain
// store, block store, header store) to the components that need them.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/orderedcode"
	dbm "github.com/tendermint/tm-db"

	"github.com/berand/trinity/types"
)

// Key prefixes. Heights are appended with orderedcode so that iteration
// yields chain order.
const (
	prefixBlock  = int64(0)
	prefixHeader = int64(1)
	prefixState  = int64(2)
)

// ErrNotFound is returned when a requested record is absent from the store.
var ErrNotFound = errors.New("store: not found")

// Manager owns the database handle and exposes the selective store
// accessors. Exactly one Manager exists per node run; the sync orchestrator
// hands it to the active strategy, which picks the stores it needs.
type Manager struct {
	db dbm.DB

	chain  *ChainStore
	block  *BlockStore
	header *HeaderStore
}

// NewManager wraps an open database. The caller retains responsibility for
// closing it via Close.
func NewManager(db dbm.DB) (*Manager, error) {
	m := &Manager{db: db}

	blockHeight, err := maxHeight(db, prefixBlock)
	if err != nil {
		return nil, err
	}
	headerHeight, err := maxHeight(db, prefixHeader)
	if err != nil {
		return nil, err
	}

	m.chain = &ChainStore{db: db}
	m.block = &BlockStore{db: db, height: blockHeight}
	m.header = &HeaderStore{db: db, height: headerHeight}
	return m, nil
}

// ChainStore returns the chain-state view of the database.
func (m *Manager) ChainStore() *ChainStore { return m.chain }

// BlockStore returns the block view of the database.
func (m *Manager) BlockStore() *BlockStore { return m.block }

// HeaderStore returns the header view of the database.
func (m *Manager) HeaderStore() *HeaderStore { return m.header }

// Close closes the underlying database.
func (m *Manager) Close() error { return m.db.Close() }

//------------------------------------------------------------------

// BlockStore persists full blocks keyed by height.
type BlockStore struct {
	db dbm.DB

	mtx    sync.RWMutex
	height int64
}

// Height returns the height of the highest stored block, or 0 if the store
// is empty.
func (bs *BlockStore) Height() int64 {
	bs.mtx.RLock()
	defer bs.mtx.RUnlock()
	return bs.height
}

// SaveBlock persists the given block.
func (bs *BlockStore) SaveBlock(block *types.Block) error {
	if err := block.ValidateBasic(); err != nil {
		return fmt.Errorf("refusing to save invalid block: %w", err)
	}

	key, err := heightKey(prefixBlock, block.Header.Height)
	if err != nil {
		return err
	}
	value, err := json.Marshal(block)
	if err != nil {
		return err
	}
	if err := bs.db.SetSync(key, value); err != nil {
		return err
	}

	bs.mtx.Lock()
	if block.Header.Height > bs.height {
		bs.height = block.Header.Height
	}
	bs.mtx.Unlock()
	return nil
}

// LoadBlock returns the block at the given height, or ErrNotFound.
func (bs *BlockStore) LoadBlock(height int64) (*types.Block, error) {
	key, err := heightKey(prefixBlock, height)
	if err != nil {
		return nil, err
	}
	value, err := bs.db.Get(key)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, fmt.Errorf("block at height %d: %w", height, ErrNotFound)
	}

	block := new(types.Block)
	if err := json.Unmarshal(value, block); err != nil {
		return nil, err
	}
	return block, nil
}

//------------------------------------------------------------------

// HeaderStore persists bare headers keyed by height. It is the only store a
// light (header-only) sync touches.
type HeaderStore struct {
	db dbm.DB

	mtx    sync.RWMutex
	height int64
}

// Height returns the height of the highest stored header, or 0 if the store
// is empty.
func (hs *HeaderStore) Height() int64 {
	hs.mtx.RLock()
	defer hs.mtx.RUnlock()
	return hs.height
}

// SaveHeader persists the given header.
func (hs *HeaderStore) SaveHeader(header *types.Header) error {
	if err := header.ValidateBasic(); err != nil {
		return fmt.Errorf("refusing to save invalid header: %w", err)
	}

	key, err := heightKey(prefixHeader, header.Height)
	if err != nil {
		return err
	}
	value, err := json.Marshal(header)
	if err != nil {
		return err
	}
	if err := hs.db.SetSync(key, value); err != nil {
		return err
	}

	hs.mtx.Lock()
	if header.Height > hs.height {
		hs.height = header.Height
	}
	hs.mtx.Unlock()
	return nil
}

// LoadHeader returns the header at the given height, or ErrNotFound.
func (hs *HeaderStore) LoadHeader(height int64) (*types.Header, error) {
	key, err := heightKey(prefixHeader, height)
	if err != nil {
		return nil, err
	}
	value, err := hs.db.Get(key)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, fmt.Errorf("header at height %d: %w", height, ErrNotFound)
	}

	header := new(types.Header)
	if err := json.Unmarshal(value, header); err != nil {
		return nil, err
	}
	return header, nil
}

//------------------------------------------------------------------

// ChainStore persists raw chain state entries, written in bulk during the
// state phase of a fast sync and read back by the execution layer.
type ChainStore struct {
	db dbm.DB
}

// PutState writes every entry of the batch.
func (cs *ChainStore) PutState(batch *types.StateBatch) error {
	b := cs.db.NewBatch()
	defer b.Close()

	for _, entry := range batch.Entries {
		key, err := stateKey(entry.Key)
		if err != nil {
			return err
		}
		if err := b.Set(key, entry.Value); err != nil {
			return err
		}
	}
	return b.WriteSync()
}

// GetState returns the state value stored under the given key, or
// ErrNotFound.
func (cs *ChainStore) GetState(stateKeyBytes []byte) ([]byte, error) {
	key, err := stateKey(stateKeyBytes)
	if err != nil {
		return nil, err
	}
	value, err := cs.db.Get(key)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, fmt.Errorf("state key %X: %w", stateKeyBytes, ErrNotFound)
	}
	return value, nil
}

//------------------------------------------------------------------

func heightKey(prefix, height int64) ([]byte, error) {
	return orderedcode.Append(nil, prefix, height)
}

func stateKey(key []byte) ([]byte, error) {
	return orderedcode.Append(nil, prefixState, string(key))
}

// maxHeight scans backwards over a height-keyed prefix range and returns the
// greatest stored height.
func maxHeight(db dbm.DB, prefix int64) (int64, error) {
	start, err := orderedcode.Append(nil, prefix)
	if err != nil {
		return 0, err
	}
	end, err := orderedcode.Append(nil, prefix+1)
	if err != nil {
		return 0, err
	}

	it, err := db.ReverseIterator(start, end)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	if !it.Valid() {
		return 0, nil
	}

	var (
		gotPrefix int64
		height    int64
	)
	if _, err := orderedcode.Parse(string(it.Key()), &gotPrefix, &height); err != nil {
		return 0, fmt.Errorf("corrupt store key %X: %w", it.Key(), err)
	}
	return height, nil
}
