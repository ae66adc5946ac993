package orm

import (
	"regexp"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	amino "github.com/tendermint/go-amino"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Model is implemented by every value persisted through a Bucket.
type Model interface {
	Validate() error
}

// Bucket is a prefixed subspace of a KVStore storing amino encoded models.
type Bucket struct {
	name   string
	prefix []byte
	cdc    *amino.Codec
}

// NewBucket creates a bucket to store data. Name must be unique among all
// buckets sharing a store, as it becomes the key prefix.
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic("Illegal bucket: " + name)
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		cdc:    amino.NewCodec(),
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix.
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	res := make([]byte, l+len(key))
	copy(res, b.prefix)
	copy(res[l:], key)
	return res
}

// Has returns true if a value is stored under the key.
func (b Bucket) Has(db quorum.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Load decodes the value stored under key into dest, which must be a
// pointer. Missing values return ErrNotFound.
func (b Bucket) Load(db quorum.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	if err := b.cdc.UnmarshalBinaryLengthPrefixed(raw, dest); err != nil {
		return errors.WithType(errors.Wrapf(errors.ErrType, "decode %s: %s", b.name, err), dest)
	}
	return nil
}

// Save validates and stores the model under key.
func (b Bucket) Save(db quorum.KVStore, key []byte, m Model) error {
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := b.cdc.MarshalBinaryLengthPrefixed(m)
	if err != nil {
		return errors.Wrapf(errors.ErrType, "encode %s: %s", b.name, err)
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Sequence returns a sequence scoped to this bucket.
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}
