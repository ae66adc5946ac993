package multisig

import (
	"context"

	"github.com/iov-one/quorum"
)

// Dispatcher carries out an executed transaction: it transfers value from
// the pool to the target and invokes payload at the target.
//
// The engine has already marked the transaction executed when Dispatch is
// called, and does not hold its lock, so an implementation may call back
// into the engine.
type Dispatcher interface {
	Dispatch(ctx context.Context, target quorum.Address, value uint64, payload []byte) error
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, target quorum.Address, value uint64, payload []byte) error

// Dispatch calls fn.
func (fn DispatcherFunc) Dispatch(ctx context.Context, target quorum.Address, value uint64, payload []byte) error {
	return fn(ctx, target, value, payload)
}

// Depositor accepts value arriving into the pool and reports the new pool
// balance.
type Depositor interface {
	Deposit(ctx context.Context, sender quorum.Address, amount uint64) (uint64, error)
}
