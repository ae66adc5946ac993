package multisig

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

const (
	// BucketName is where we store the transactions
	BucketName = "multisig"
	// SequenceName is an auto-increment counter of proposed transactions
	SequenceName = "id"
)

var configKey = []byte("_config")

// TransactionBucket stores transactions under their sequential index.
type TransactionBucket struct {
	orm.Bucket
	seq orm.Sequence
}

// NewTransactionBucket initializes a TransactionBucket with default name.
func NewTransactionBucket() TransactionBucket {
	b := orm.NewBucket(BucketName)
	return TransactionBucket{
		Bucket: b,
		seq:    b.Sequence(SequenceName),
	}
}

// Count returns the number of transactions ever proposed.
func (b TransactionBucket) Count(db quorum.ReadOnlyKVStore) (uint64, error) {
	return b.seq.Latest(db)
}

// Append stores a new transaction at the next index and returns it.
// Indexes start at 0.
func (b TransactionBucket) Append(db quorum.KVStore, tx *Transaction) (uint64, error) {
	n, err := b.seq.NextInt(db)
	if err != nil {
		return 0, errors.Wrap(err, "cannot acquire index")
	}
	index := n - 1
	if err := b.Save(db, orm.EncodeSequence(index), tx); err != nil {
		return 0, errors.Wrapf(err, "cannot save transaction %d", index)
	}
	return index, nil
}

// GetTransaction returns the transaction stored at given index.
func (b TransactionBucket) GetTransaction(db quorum.ReadOnlyKVStore, index uint64) (*Transaction, error) {
	count, err := b.Count(db)
	if err != nil {
		return nil, err
	}
	if index >= count {
		return nil, errors.Wrapf(ErrTransactionNotFound, "index %d of %d", index, count)
	}
	var tx Transaction
	if err := b.Load(db, orm.EncodeSequence(index), &tx); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrapf(ErrTransactionNotFound, "index %d", index)
		}
		return nil, errors.Wrapf(err, "transaction %d", index)
	}
	// Empty byte slices do not survive encoding, normalize them to nil.
	tx.Target = quorum.Address(cloneBytes(tx.Target))
	tx.Payload = cloneBytes(tx.Payload)
	tx.Confirmed = cloneBytes(tx.Confirmed)
	return &tx, nil
}

// Update overwrites the transaction stored at given index.
func (b TransactionBucket) Update(db quorum.KVStore, index uint64, tx *Transaction) error {
	if err := b.Save(db, orm.EncodeSequence(index), tx); err != nil {
		return errors.Wrapf(err, "cannot update transaction %d", index)
	}
	return nil
}

// storedConfig is the owner configuration the engine state was created
// with. It guards durable stores from being resumed with owners in a
// different order, which would reassign confirmation bits.
type storedConfig struct {
	Owners    []quorum.Address
	Threshold uint32
}

func (c *storedConfig) Validate() error {
	return Config{Owners: c.Owners, Threshold: c.Threshold}.Validate()
}

func (b TransactionBucket) loadConfig(db quorum.ReadOnlyKVStore) (*Config, error) {
	var c storedConfig
	switch err := b.Load(db, configKey, &c); {
	case errors.ErrNotFound.Is(err):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return &Config{Owners: c.Owners, Threshold: c.Threshold}, nil
}

func (b TransactionBucket) saveConfig(db quorum.KVStore, c Config) error {
	return b.Save(db, configKey, &storedConfig{Owners: c.Owners, Threshold: c.Threshold})
}
