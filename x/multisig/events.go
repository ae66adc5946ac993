package multisig

import (
	"context"
	"encoding/hex"
	"strconv"
	"sync"

	"github.com/iov-one/quorum"
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	tagAction  = "action"
	tagOwner   = "owner"
	tagIndex   = "tx-index"
	tagTarget  = "target"
	tagValue   = "value"
	tagPayload = "payload"
	tagSender  = "sender"
	tagAmount  = "amount"
	tagBalance = "balance"
)

// Event is a notification emitted after a successful operation.
type Event interface {
	// Action is the name of the operation, for example "confirm".
	Action() string
	// Tags returns indexable key value pairs describing the event.
	Tags() []common.KVPair
}

// Deposited is emitted when value arrives into the pool.
type Deposited struct {
	Sender  quorum.Address
	Amount  uint64
	Balance uint64
}

func (Deposited) Action() string { return "deposit" }

func (e Deposited) Tags() []common.KVPair {
	return []common.KVPair{
		tag(tagAction, e.Action()),
		tag(tagSender, e.Sender.String()),
		tag(tagAmount, strconv.FormatUint(e.Amount, 10)),
		tag(tagBalance, strconv.FormatUint(e.Balance, 10)),
	}
}

// Proposed is emitted when an owner submits a new transaction.
type Proposed struct {
	Owner   quorum.Address
	Index   uint64
	Target  quorum.Address
	Value   uint64
	Payload []byte
}

func (Proposed) Action() string { return "propose" }

func (e Proposed) Tags() []common.KVPair {
	return []common.KVPair{
		tag(tagAction, e.Action()),
		tag(tagOwner, e.Owner.String()),
		tag(tagIndex, strconv.FormatUint(e.Index, 10)),
		tag(tagTarget, e.Target.String()),
		tag(tagValue, strconv.FormatUint(e.Value, 10)),
		tag(tagPayload, hex.EncodeToString(e.Payload)),
	}
}

// Confirmed is emitted when an owner confirms a transaction.
type Confirmed struct {
	Owner quorum.Address
	Index uint64
}

func (Confirmed) Action() string { return "confirm" }

func (e Confirmed) Tags() []common.KVPair {
	return ownerIndexTags(e.Action(), e.Owner, e.Index)
}

// Revoked is emitted when an owner withdraws a confirmation.
type Revoked struct {
	Owner quorum.Address
	Index uint64
}

func (Revoked) Action() string { return "revoke" }

func (e Revoked) Tags() []common.KVPair {
	return ownerIndexTags(e.Action(), e.Owner, e.Index)
}

// Executed is emitted once a transaction was dispatched successfully.
type Executed struct {
	Owner quorum.Address
	Index uint64
}

func (Executed) Action() string { return "execute" }

func (e Executed) Tags() []common.KVPair {
	return ownerIndexTags(e.Action(), e.Owner, e.Index)
}

func ownerIndexTags(action string, owner quorum.Address, index uint64) []common.KVPair {
	return []common.KVPair{
		tag(tagAction, action),
		tag(tagOwner, owner.String()),
		tag(tagIndex, strconv.FormatUint(index, 10)),
	}
}

func tag(key, value string) common.KVPair {
	return common.KVPair{Key: []byte(key), Value: []byte(value)}
}

// EventSink receives events synchronously, in the order operations
// completed. Implementations must not call back into the engine.
//
// Executed is emitted only after the dispatcher returns, while the
// executed mark is committed before dispatch. Events of operations that
// run during a dispatch may therefore arrive before the Executed event of
// a transaction that was marked earlier.
type EventSink interface {
	Emit(ctx context.Context, e Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(ctx context.Context, e Event)

// Emit calls fn.
func (fn EventSinkFunc) Emit(ctx context.Context, e Event) {
	fn(ctx, e)
}

type nopSink struct{}

func (nopSink) Emit(context.Context, Event) {}

// MultiSink forwards every event to all sinks in order.
func MultiSink(sinks ...EventSink) EventSink {
	return multiSink(sinks)
}

type multiSink []EventSink

func (m multiSink) Emit(ctx context.Context, e Event) {
	for _, s := range m {
		s.Emit(ctx, e)
	}
}

// LogSink writes every event to a logger at info level.
type LogSink struct {
	Logger log.Logger
}

// Emit logs the event tags as key value pairs.
func (s LogSink) Emit(ctx context.Context, e Event) {
	tags := e.Tags()
	keyvals := make([]interface{}, 0, 2*len(tags))
	for _, t := range tags {
		keyvals = append(keyvals, string(t.Key), string(t.Value))
	}
	s.Logger.Info("event", keyvals...)
}

// TagRecorder collects emitted events. It is safe for concurrent use.
type TagRecorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit records the event.
func (r *TagRecorder) Emit(ctx context.Context, e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns all recorded events in emission order.
func (r *TagRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]Event, len(r.events))
	copy(res, r.events)
	return res
}

// Actions returns the action names of all recorded events.
func (r *TagRecorder) Actions() []string {
	events := r.Events()
	res := make([]string, len(events))
	for i, e := range events {
		res[i] = e.Action()
	}
	return res
}

// Tags returns the tags of all recorded events, flattened.
func (r *TagRecorder) Tags() []common.KVPair {
	var res []common.KVPair
	for _, e := range r.Events() {
		res = append(res, e.Tags()...)
	}
	return res
}

// Reset drops all recorded events.
func (r *TagRecorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
