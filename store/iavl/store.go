/*
Package iavl provides a durable, versioned CommitKVStore backed by a
tendermint iavl tree over leveldb.
*/
package iavl

import (
	"sync"

	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

const cacheSize = 10000

// CommitStore manages a iavl committed state. All methods are safe for
// concurrent use; writes become durable on Commit.
type CommitStore struct {
	mu   sync.RWMutex
	tree *iavl.MutableTree
	db   dbm.DB
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore creates a new store with disk backing and loads the latest
// committed version.
func NewCommitStore(dir, name string) (*CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %s/%s: %s", dir, name, err)
	}
	return load(db)
}

// MockCommitStore creates a new store with an in-memory database, for
// tests.
func MockCommitStore() *CommitStore {
	s, err := load(dbm.NewMemDB())
	if err != nil {
		panic(err)
	}
	return s
}

func load(db dbm.DB) (*CommitStore, error) {
	tree := iavl.NewMutableTree(db, cacheSize)
	if _, err := tree.Load(); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "load tree: %s", err)
	}
	return &CommitStore{tree: tree, db: db}, nil
}

// Get returns nil iff key doesn't exist.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, val := s.tree.Get(key)
	return val, nil
}

// Has checks if a key exists.
func (s *CommitStore) Has(key []byte) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Has(key), nil
}

// Set adds a new value to the working tree.
func (s *CommitStore) Set(key, value []byte) error {
	s.mu.Lock()
	s.tree.Set(key, value)
	s.mu.Unlock()
	return nil
}

// Delete removes from the working tree.
func (s *CommitStore) Delete(key []byte) error {
	s.mu.Lock()
	s.tree.Remove(key)
	s.mu.Unlock()
	return nil
}

// NewBatch returns a batch applied to the working tree in one critical
// section.
func (s *CommitStore) NewBatch() store.Batch {
	return &batch{s: s}
}

// CacheWrap gives us a savepoint to perform actions.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// Commit the next version to disk, and returns info
func (s *CommitStore) Commit() (store.CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrapf(errors.ErrDatabase, "save version: %s", err)
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LatestVersion returns info on the latest version saved to disk
func (s *CommitStore) LatestVersion() store.CommitID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}
}

// Close releases the database. The store must not be used afterwards.
func (s *CommitStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.Close()
	return nil
}

type batch struct {
	s   *CommitStore
	ops []func(*iavl.MutableTree)
}

func (b *batch) Set(key, value []byte) error {
	b.ops = append(b.ops, func(t *iavl.MutableTree) { t.Set(key, value) })
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.ops = append(b.ops, func(t *iavl.MutableTree) { t.Remove(key) })
	return nil
}

func (b *batch) Write() error {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	for _, op := range b.ops {
		op(b.s.tree)
	}
	b.ops = nil
	return nil
}
