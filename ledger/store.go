package ledger

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"slices"
	"sync"

	"github.com/holiman/uint256"

	"github.com/bitfsorg/libvibe-go/account"
	"github.com/bitfsorg/libvibe-go/policy"
	"github.com/bitfsorg/libvibe-go/reflection"
)

// SnapshotStore persists ledger snapshots. Every saved snapshot is kept
// in a history indexed by height; Load returns the most recent one.
type SnapshotStore interface {
	// Save stores s as the latest snapshot and appends it to the history.
	Save(s *Snapshot) error

	// Load returns the latest snapshot.
	Load() (*Snapshot, error)

	// LoadAt returns the snapshot saved at height.
	LoadAt(height uint64) (*Snapshot, error)

	// Heights lists the saved heights in ascending order.
	Heights() ([]uint64, error)
}

// MemStore is an in-memory SnapshotStore for testing. Snapshots are stored
// encoded, so callers cannot mutate saved state.
type MemStore struct {
	mu      sync.RWMutex
	latest  []byte
	history map[uint64][]byte
}

var _ SnapshotStore = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{history: make(map[uint64][]byte)}
}

// Save stores s.
func (m *MemStore) Save(s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("%w: nil snapshot", ErrValidation)
	}
	data, err := encodeSnapshot(s, CompressNone)
	if err != nil {
		return fmt.Errorf("ledger: encode snapshot: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest = data
	m.history[s.Height] = data
	return nil
}

// Load returns the latest snapshot.
func (m *MemStore) Load() (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.latest == nil {
		return nil, ErrSnapshotNotFound
	}
	return decodeSnapshot(m.latest)
}

// LoadAt returns the snapshot saved at height.
func (m *MemStore) LoadAt(height uint64) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.history[height]
	if !ok {
		return nil, fmt.Errorf("%w: height %d", ErrSnapshotNotFound, height)
	}
	return decodeSnapshot(data)
}

// Heights lists the saved heights.
func (m *MemStore) Heights() ([]uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]uint64, 0, len(m.history))
	for h := range m.history {
		out = append(out, h)
	}
	slices.Sort(out)
	return out, nil
}

// encodeSnapshot gob-encodes s and compresses the result with c.
func encodeSnapshot(s *Snapshot, c Compression) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return compress(buf.Bytes(), c)
}

func decodeSnapshot(data []byte) (*Snapshot, error) {
	raw, err := decompress(data)
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrCorruptSnapshot, err)
	}
	s.normalize()
	return &s, nil
}

// normalize replaces the nil collections gob leaves for empty ones.
func (s *Snapshot) normalize() {
	if s.Balances == nil {
		s.Balances = make(map[account.Address]uint256.Int)
	}
	if s.Allowances == nil {
		s.Allowances = make(map[account.Address]map[account.Address]uint256.Int)
	}
	if s.Policy.Flags == nil {
		s.Policy.Flags = make(map[account.Address]policy.Flags)
	}
	if s.Policy.LastTransfer == nil {
		s.Policy.LastTransfer = make(map[account.Address]int64)
	}
	if s.Reflection.Holders == nil {
		s.Reflection.Holders = make(map[account.Address]reflection.Holder)
	}
	if s.Reflection.Registry == nil {
		s.Reflection.Registry = []account.Address{}
	}
}
