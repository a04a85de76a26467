package ledger

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	bucketLedger  = []byte("ledger")
	bucketHistory = []byte("history")

	keyLatest = []byte("latest")
)

// BoltStore is a SnapshotStore backed by a bbolt database. Snapshots are
// zstd-compressed unless WithCompression says otherwise.
type BoltStore struct {
	db          *bbolt.DB
	compression Compression
}

// BoltOption configures a BoltStore.
type BoltOption func(*BoltStore)

// WithCompression sets the scheme used for newly saved snapshots.
func WithCompression(c Compression) BoltOption {
	return func(s *BoltStore) { s.compression = c }
}

var _ SnapshotStore = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string, opts ...BoltOption) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("ledger: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketLedger, bucketHistory} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: create buckets: %w", err)
	}

	s := &BoltStore{db: db, compression: CompressZstd}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// heightKey encodes a height as an 8-byte big-endian key for sorted storage.
func heightKey(h uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, h)
	return k
}

// Save stores snap as the latest snapshot and under its height, in one transaction.
func (s *BoltStore) Save(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", ErrValidation)
	}
	data, err := encodeSnapshot(snap, s.compression)
	if err != nil {
		return fmt.Errorf("ledger: encode snapshot: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketLedger).Put(keyLatest, data); err != nil {
			return fmt.Errorf("boltstore: put latest: %w", err)
		}
		if err := tx.Bucket(bucketHistory).Put(heightKey(snap.Height), data); err != nil {
			return fmt.Errorf("boltstore: put history: %w", err)
		}
		return nil
	})
}

// Load returns the latest snapshot.
func (s *BoltStore) Load() (*Snapshot, error) {
	var snap *Snapshot
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketLedger).Get(keyLatest)
		if data == nil {
			return ErrSnapshotNotFound
		}
		var err error
		snap, err = decodeSnapshot(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// LoadAt returns the snapshot saved at height.
func (s *BoltStore) LoadAt(height uint64) (*Snapshot, error) {
	var snap *Snapshot
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketHistory).Get(heightKey(height))
		if data == nil {
			return fmt.Errorf("%w: height %d", ErrSnapshotNotFound, height)
		}
		var err error
		snap, err = decodeSnapshot(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Heights lists the saved heights in ascending order.
func (s *BoltStore) Heights() ([]uint64, error) {
	var out []uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketHistory).ForEach(func(k, _ []byte) error {
			if len(k) != 8 {
				return fmt.Errorf("%w: history key length %d", ErrCorruptSnapshot, len(k))
			}
			out = append(out, binary.BigEndian.Uint64(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
