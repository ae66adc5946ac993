package store

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// Savepoint isolates all writes done by fn in a cache wrap of db. The
// writes reach db only if fn succeeds, otherwise they are discarded.
func Savepoint(db quorum.CacheableKVStore, fn func(quorum.KVStore) error) error {
	cache := db.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
