package multisig

import (
	"context"
	"sync"
	"time"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store"
	"github.com/iov-one/quorum/x/cash"
	"github.com/tendermint/tendermint/libs/log"
)

// Engine is the quorum authorization engine. All methods are safe for
// concurrent use.
type Engine struct {
	// mu serializes every operation on the engine state.
	mu        sync.Mutex
	conf      Config
	positions map[string]int

	db         quorum.CacheableKVStore
	bucket     TransactionBucket
	dispatcher Dispatcher
	depositor  Depositor
	sink       EventSink
	logger     log.Logger

	retryOnFailure bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore sets the store engine state is kept in. A store that already
// holds state of an engine with the same configuration is resumed.
func WithStore(db quorum.CacheableKVStore) Option {
	return func(e *Engine) { e.db = db }
}

// WithDispatcher sets the collaborator executed transactions are handed
// to.
func WithDispatcher(d Dispatcher) Option {
	return func(e *Engine) { e.dispatcher = d }
}

// WithDepositor sets the collaborator that accepts deposits.
func WithDepositor(d Depositor) Option {
	return func(e *Engine) { e.depositor = d }
}

// WithVault uses a vault both as dispatcher and depositor.
func WithVault(v *cash.Vault) Option {
	return func(e *Engine) {
		e.dispatcher = v
		e.depositor = v
	}
}

// WithEventSink sets where events are emitted to.
func WithEventSink(s EventSink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithLogger sets the logger. Nop logger is used by default.
func WithLogger(l log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRetryOnDispatchFailure makes a failed dispatch clear the executed
// mark again so that the transaction can be executed later. By default a
// transaction whose dispatch failed stays executed and cannot be retried.
func WithRetryOnDispatchFailure() Option {
	return func(e *Engine) { e.retryOnFailure = true }
}

// NewEngine validates the configuration and returns an engine with an
// empty transaction list, or the state found in the store.
func NewEngine(conf Config, opts ...Option) (*Engine, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	conf = conf.Copy()
	e := &Engine{
		conf:      conf,
		positions: make(map[string]int, len(conf.Owners)),
		bucket:    NewTransactionBucket(),
		sink:      nopSink{},
		logger:    log.NewNopLogger(),
	}
	for i, o := range conf.Owners {
		e.positions[string(o)] = i
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.db == nil {
		e.db = store.MemStore()
	}
	if e.dispatcher == nil || e.depositor == nil {
		v := cash.NewVault(store.MemStore(), nil)
		if e.dispatcher == nil {
			e.dispatcher = v
		}
		if e.depositor == nil {
			e.depositor = v
		}
	}
	e.logger = e.logger.With("module", "multisig")

	stored, err := e.bucket.loadConfig(e.db)
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	switch {
	case stored == nil:
		err := store.Savepoint(e.db, func(db quorum.KVStore) error {
			return e.bucket.saveConfig(db, conf)
		})
		if err != nil {
			return nil, errors.Wrap(err, "save config")
		}
	case !stored.Equals(conf):
		return nil, errors.Wrap(errors.ErrState, "store holds state of a different owner configuration")
	}
	return e, nil
}

// Owners returns the owner set in configuration order.
func (e *Engine) Owners() []quorum.Address {
	return e.conf.Copy().Owners
}

// Threshold returns the number of confirmations required to execute.
func (e *Engine) Threshold() uint32 {
	return e.conf.Threshold
}

// IsOwner returns true if given address belongs to the owner set.
func (e *Engine) IsOwner(a quorum.Address) bool {
	_, ok := e.positions[string(a)]
	return ok
}

func (e *Engine) ownerPosition(caller quorum.Address) (int, error) {
	pos, ok := e.positions[string(caller)]
	if !ok {
		return 0, errors.Wrapf(ErrNotOwner, "caller %s", caller)
	}
	return pos, nil
}

// update runs fn on a cache wrap of the store while holding the engine
// lock. The cache is written only if fn succeeds. A returned event is
// emitted after the write, before the lock is released.
func (e *Engine) update(ctx context.Context, fn func(db quorum.KVStore) (Event, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var ev Event
	err := store.Savepoint(e.db, func(db quorum.KVStore) error {
		var err error
		ev, err = fn(db)
		return err
	})
	if err != nil {
		return err
	}
	if ev != nil {
		e.sink.Emit(ctx, ev)
	}
	return nil
}

// Deposit hands value arriving into the pool to the depositor and emits
// Deposited with the new pool balance. If the pool balance would exceed
// a uint64 the default vault returns errors.ErrOverflow, the pool is left
// unchanged and no event is emitted.
func (e *Engine) Deposit(ctx context.Context, sender quorum.Address, amount uint64) (balance uint64, err error) {
	start := time.Now()
	defer func() { e.logOp(ctx, "deposit", start, err, "sender", sender, "amount", amount) }()

	e.mu.Lock()
	defer e.mu.Unlock()
	balance, err = e.depositor.Deposit(ctx, sender, amount)
	if err != nil {
		return 0, errors.Wrap(err, "deposit")
	}
	e.sink.Emit(ctx, Deposited{Sender: sender.Clone(), Amount: amount, Balance: balance})
	return balance, nil
}

// Propose appends a new transaction and returns its index.
func (e *Engine) Propose(ctx context.Context, caller, target quorum.Address, value uint64, payload []byte) (index uint64, err error) {
	start := time.Now()
	defer func() { e.logOp(ctx, "propose", start, err, "owner", caller, "index", index) }()

	err = e.update(ctx, func(db quorum.KVStore) (Event, error) {
		if _, err := e.ownerPosition(caller); err != nil {
			return nil, err
		}
		tx := &Transaction{
			Target:  target.Clone(),
			Value:   value,
			Payload: cloneBytes(payload),
		}
		idx, err := e.bucket.Append(db, tx)
		if err != nil {
			return nil, err
		}
		index = idx
		return Proposed{
			Owner:   caller.Clone(),
			Index:   idx,
			Target:  target.Clone(),
			Value:   value,
			Payload: cloneBytes(payload),
		}, nil
	})
	return index, err
}

// loadPending runs the checks shared by confirm, revoke and execute and
// returns the caller position and the transaction.
func (e *Engine) loadPending(db quorum.ReadOnlyKVStore, caller quorum.Address, index uint64) (int, *Transaction, error) {
	pos, err := e.ownerPosition(caller)
	if err != nil {
		return 0, nil, err
	}
	tx, err := e.bucket.GetTransaction(db, index)
	if err != nil {
		return 0, nil, err
	}
	if tx.Executed {
		return 0, nil, errors.Wrapf(ErrAlreadyExecuted, "index %d", index)
	}
	return pos, tx, nil
}

// Confirm records the caller's approval of the transaction.
func (e *Engine) Confirm(ctx context.Context, caller quorum.Address, index uint64) (err error) {
	start := time.Now()
	defer func() { e.logOp(ctx, "confirm", start, err, "owner", caller, "index", index) }()

	return e.update(ctx, func(db quorum.KVStore) (Event, error) {
		pos, tx, err := e.loadPending(db, caller, index)
		if err != nil {
			return nil, err
		}
		if !tx.confirm(pos) {
			return nil, errors.Wrapf(ErrAlreadyConfirmed, "owner %s, index %d", caller, index)
		}
		if err := e.bucket.Update(db, index, tx); err != nil {
			return nil, err
		}
		return Confirmed{Owner: caller.Clone(), Index: index}, nil
	})
}

// Revoke withdraws the caller's approval of the transaction.
func (e *Engine) Revoke(ctx context.Context, caller quorum.Address, index uint64) (err error) {
	start := time.Now()
	defer func() { e.logOp(ctx, "revoke", start, err, "owner", caller, "index", index) }()

	return e.update(ctx, func(db quorum.KVStore) (Event, error) {
		pos, tx, err := e.loadPending(db, caller, index)
		if err != nil {
			return nil, err
		}
		if !tx.revoke(pos) {
			return nil, errors.Wrapf(ErrNotConfirmed, "owner %s, index %d", caller, index)
		}
		if err := e.bucket.Update(db, index, tx); err != nil {
			return nil, err
		}
		return Revoked{Owner: caller.Clone(), Index: index}, nil
	})
}

// Execute dispatches a transaction that reached the threshold.
//
// The executed mark is committed before the dispatcher is called and the
// engine lock is not held during dispatch. If the dispatch fails the call
// returns ErrExecutionFailed and the transaction stays executed, unless
// the engine was created WithRetryOnDispatchFailure.
func (e *Engine) Execute(ctx context.Context, caller quorum.Address, index uint64) (err error) {
	start := time.Now()
	defer func() { e.logOp(ctx, "execute", start, err, "owner", caller, "index", index) }()

	var tx *Transaction
	err = e.update(ctx, func(db quorum.KVStore) (Event, error) {
		_, t, err := e.loadPending(db, caller, index)
		if err != nil {
			return nil, err
		}
		if t.Confirmations < e.conf.Threshold {
			return nil, errors.Wrapf(ErrQuorumNotMet, "%d of %d confirmations", t.Confirmations, e.conf.Threshold)
		}
		t.Executed = true
		if err := e.bucket.Update(db, index, t); err != nil {
			return nil, err
		}
		tx = t
		return nil, nil
	})
	if err != nil {
		return err
	}

	if derr := e.dispatch(ctx, tx); derr != nil {
		if e.retryOnFailure {
			if rerr := e.reopen(ctx, index); rerr != nil {
				e.logger.Error("cannot reopen transaction", "index", index, "err", rerr)
			}
		}
		return errors.Wrapf(ErrExecutionFailed, "index %d: %s", index, derr)
	}

	e.mu.Lock()
	e.sink.Emit(ctx, Executed{Owner: caller.Clone(), Index: index})
	e.mu.Unlock()
	return nil
}

// dispatch hands the transaction to the dispatcher. A panicking
// dispatcher is reported as an error.
func (e *Engine) dispatch(ctx context.Context, tx *Transaction) (err error) {
	defer errors.Recover(&err)
	return e.dispatcher.Dispatch(ctx, tx.Target, tx.Value, tx.Payload)
}

// reopen clears the executed mark of a transaction whose dispatch failed.
func (e *Engine) reopen(ctx context.Context, index uint64) error {
	return e.update(ctx, func(db quorum.KVStore) (Event, error) {
		tx, err := e.bucket.GetTransaction(db, index)
		if err != nil {
			return nil, err
		}
		if !tx.Executed {
			return nil, errors.Wrapf(errors.ErrHuman, "transaction %d is not executed", index)
		}
		tx.Executed = false
		return nil, e.bucket.Update(db, index, tx)
	})
}

// TransactionCount returns the number of proposed transactions.
func (e *Engine) TransactionCount() (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bucket.Count(e.db)
}

// Transaction returns a snapshot of the transaction at given index.
func (e *Engine) Transaction(index uint64) (*Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bucket.GetTransaction(e.db, index)
}

// IsConfirmed returns true if owner currently confirms the transaction.
// Addresses outside of the owner set never confirm.
func (e *Engine) IsConfirmed(index uint64, owner quorum.Address) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	tx, err := e.bucket.GetTransaction(e.db, index)
	if err != nil {
		return false, err
	}
	pos, ok := e.positions[string(owner)]
	if !ok {
		return false, nil
	}
	return tx.IsConfirmedBy(pos), nil
}

// Confirmers returns the owners currently confirming the transaction, in
// configuration order.
func (e *Engine) Confirmers(index uint64) ([]quorum.Address, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	tx, err := e.bucket.GetTransaction(e.db, index)
	if err != nil {
		return nil, err
	}
	var res []quorum.Address
	for pos, o := range e.conf.Owners {
		if tx.IsConfirmedBy(pos) {
			res = append(res, o.Clone())
		}
	}
	return res, nil
}

// Transactions returns the indexes of transactions matching the filter,
// in ascending order.
func (e *Engine) Transactions(includePending, includeExecuted bool) ([]uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	count, err := e.bucket.Count(e.db)
	if err != nil {
		return nil, err
	}
	var res []uint64
	for i := uint64(0); i < count; i++ {
		tx, err := e.bucket.GetTransaction(e.db, i)
		if err != nil {
			return nil, err
		}
		if (includePending && !tx.Executed) || (includeExecuted && tx.Executed) {
			res = append(res, i)
		}
	}
	return res, nil
}

// logOp writes information about the duration and result of an operation
// to the logger. Rejected calls are logged at info level, failed dispatch
// at error level.
func (e *Engine) logOp(ctx context.Context, op string, start time.Time, err error, keyvals ...interface{}) {
	delta := time.Now().Sub(start)
	logger := e.logger
	if l := quorum.GetLogger(ctx); l != quorum.DefaultLogger {
		logger = l
	}
	logger = logger.With("op", op, "duration", delta/time.Microsecond).With(keyvals...)

	switch {
	case err == nil:
		logger.Debug("ok")
	case ErrExecutionFailed.Is(err):
		logger.Error("dispatch failed", "err", err)
	default:
		logger.Info("rejected", "err", err)
	}
}
