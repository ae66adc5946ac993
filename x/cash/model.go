package cash

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

const (
	// BucketName is where we store the balances
	BucketName = "cash"
	// PoolBucketName is where the pool balance is kept
	PoolBucketName = "cashpool"
)

var poolKey = []byte("pool")

// Balance is the amount held by a single account.
type Balance struct {
	Amount uint64
}

var _ orm.Model = (*Balance)(nil)

// Validate is always successful, any amount is a valid balance.
func (b *Balance) Validate() error {
	return nil
}

// Add increases the balance, failing on overflow.
func (b *Balance) Add(amount uint64) error {
	if b.Amount+amount < b.Amount {
		return errors.Wrapf(errors.ErrOverflow, "%d + %d", b.Amount, amount)
	}
	b.Amount += amount
	return nil
}

// Subtract decreases the balance. The balance never goes below zero.
func (b *Balance) Subtract(amount uint64) error {
	if amount > b.Amount {
		return errors.Wrapf(errors.ErrAmount, "insufficient funds: %d < %d", b.Amount, amount)
	}
	b.Amount -= amount
	return nil
}

// BalanceBucket stores account balances and the pool balance.
type BalanceBucket struct {
	accounts orm.Bucket
	pool     orm.Bucket
}

// NewBalanceBucket initializes a BalanceBucket with default names.
func NewBalanceBucket() BalanceBucket {
	return BalanceBucket{
		accounts: orm.NewBucket(BucketName),
		pool:     orm.NewBucket(PoolBucketName),
	}
}

// Get returns the balance of an account. Accounts that never received
// anything have a zero balance.
func (b BalanceBucket) Get(db quorum.ReadOnlyKVStore, addr quorum.Address) (*Balance, error) {
	return load(b.accounts, db, addr)
}

// Save stores the balance of an account.
func (b BalanceBucket) Save(db quorum.KVStore, addr quorum.Address, bal *Balance) error {
	return b.accounts.Save(db, addr, bal)
}

// Pool returns the pool balance.
func (b BalanceBucket) Pool(db quorum.ReadOnlyKVStore) (*Balance, error) {
	return load(b.pool, db, poolKey)
}

// SavePool stores the pool balance.
func (b BalanceBucket) SavePool(db quorum.KVStore, bal *Balance) error {
	return b.pool.Save(db, poolKey, bal)
}

func load(bucket orm.Bucket, db quorum.ReadOnlyKVStore, key []byte) (*Balance, error) {
	var bal Balance
	switch err := bucket.Load(db, key, &bal); {
	case errors.ErrNotFound.Is(err):
		return &Balance{}, nil
	case err != nil:
		return nil, err
	}
	return &bal, nil
}
