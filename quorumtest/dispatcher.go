package quorumtest

import (
	"context"
	"sync"

	"github.com/iov-one/quorum"
)

// Dispatch is a single recorded dispatcher call.
type Dispatch struct {
	Target  quorum.Address
	Value   uint64
	Payload []byte
}

// Dispatcher records every call and returns Err, if set. When Fn is set it
// is called after recording and its result is returned instead.
type Dispatcher struct {
	Err error
	Fn  func(ctx context.Context, target quorum.Address, value uint64, payload []byte) error

	mu    sync.Mutex
	calls []Dispatch
}

// Dispatch records the call.
func (d *Dispatcher) Dispatch(ctx context.Context, target quorum.Address, value uint64, payload []byte) error {
	d.mu.Lock()
	d.calls = append(d.calls, Dispatch{
		Target:  target.Clone(),
		Value:   value,
		Payload: append([]byte(nil), payload...),
	})
	fn, err := d.Fn, d.Err
	d.mu.Unlock()

	if fn != nil {
		return fn(ctx, target, value, payload)
	}
	return err
}

// Calls returns all recorded calls in order.
func (d *Dispatcher) Calls() []Dispatch {
	d.mu.Lock()
	defer d.mu.Unlock()
	res := make([]Dispatch, len(d.calls))
	copy(res, d.calls)
	return res
}

// CallCount returns the number of recorded calls.
func (d *Dispatcher) CallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

// Depositor credits a pool kept in memory.
type Depositor struct {
	mu      sync.Mutex
	balance uint64
}

// Deposit adds amount to the pool and returns the new balance.
func (d *Depositor) Deposit(ctx context.Context, sender quorum.Address, amount uint64) (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.balance += amount
	return d.balance, nil
}
