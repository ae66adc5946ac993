package cash

import (
	"context"
	"sync"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store"
)

// Vault holds the pool and the account balances. It is safe for
// concurrent use.
type Vault struct {
	mu     sync.Mutex
	db     quorum.CacheableKVStore
	bucket BalanceBucket
	router *Router
}

// NewVault returns a vault keeping its state in db. Router may be nil, in
// which case dispatch only moves value.
func NewVault(db quorum.CacheableKVStore, router *Router) *Vault {
	return &Vault{
		db:     db,
		bucket: NewBalanceBucket(),
		router: router,
	}
}

// update runs fn on a cache wrap of the store under the vault lock and
// writes the result only if fn succeeds.
func (v *Vault) update(fn func(db quorum.KVStore) error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return store.Savepoint(v.db, fn)
}

// Deposit credits the pool and returns the new pool balance.
func (v *Vault) Deposit(ctx context.Context, sender quorum.Address, amount uint64) (uint64, error) {
	var balance uint64
	err := v.update(func(db quorum.KVStore) error {
		pool, err := v.bucket.Pool(db)
		if err != nil {
			return err
		}
		if err := pool.Add(amount); err != nil {
			return errors.Wrap(err, "pool")
		}
		balance = pool.Amount
		return v.bucket.SavePool(db, pool)
	})
	return balance, err
}

// Dispatch moves value from the pool to the target account and calls the
// callee registered for the target, if any. A failing callee reverses the
// transfer. The vault lock is not held while the callee runs, so the
// callee may use the vault itself.
func (v *Vault) Dispatch(ctx context.Context, target quorum.Address, value uint64, payload []byte) error {
	if err := v.move(target, value, false); err != nil {
		return err
	}
	callee := v.router.Callee(target)
	if callee == nil {
		return nil
	}
	if err := callee.Call(ctx, value, payload); err != nil {
		if rerr := v.move(target, value, true); rerr != nil {
			return errors.Wrapf(errors.ErrState, "cannot reverse transfer after %q: %s", err, rerr)
		}
		return errors.Wrap(err, "callee")
	}
	return nil
}

// move transfers value between the pool and an account. The direction is
// from the pool unless reverse is set.
func (v *Vault) move(target quorum.Address, value uint64, reverse bool) error {
	return v.update(func(db quorum.KVStore) error {
		pool, err := v.bucket.Pool(db)
		if err != nil {
			return err
		}
		acct, err := v.bucket.Get(db, target)
		if err != nil {
			return err
		}
		from, to := pool, acct
		if reverse {
			from, to = acct, pool
		}
		if err := from.Subtract(value); err != nil {
			return err
		}
		if err := to.Add(value); err != nil {
			return err
		}
		if err := v.bucket.SavePool(db, pool); err != nil {
			return err
		}
		return v.bucket.Save(db, target, acct)
	})
}

// Balance returns the amount dispatched to the address so far.
func (v *Vault) Balance(ctx context.Context, addr quorum.Address) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	b, err := v.bucket.Get(v.db, addr)
	if err != nil {
		return 0, err
	}
	return b.Amount, nil
}

// PoolBalance returns the amount available for dispatch.
func (v *Vault) PoolBalance(ctx context.Context) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	b, err := v.bucket.Pool(v.db)
	if err != nil {
		return 0, err
	}
	return b.Amount, nil
}
