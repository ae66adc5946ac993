package multisig

import (
	"math/bits"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

// Transaction is a proposed action awaiting quorum.
//
// Only Executed, Confirmations and Confirmed change after creation.
// Confirmed is a bitmask indexed by owner position in the engine Config,
// Confirmations is always the number of bits set.
type Transaction struct {
	Target        quorum.Address
	Value         uint64
	Payload       []byte
	Executed      bool
	Confirmations uint32
	Confirmed     []byte
}

var _ orm.Model = (*Transaction)(nil)

// Validate checks that the confirmation count matches the bitmask.
func (t *Transaction) Validate() error {
	var n int
	for _, b := range t.Confirmed {
		n += bits.OnesCount8(b)
	}
	if uint32(n) != t.Confirmations {
		return errors.Wrapf(errors.ErrState,
			"%d confirmations recorded, %d counted", t.Confirmations, n)
	}
	return nil
}

// Copy returns a snapshot that does not share memory with t.
func (t *Transaction) Copy() *Transaction {
	return &Transaction{
		Target:        t.Target.Clone(),
		Value:         t.Value,
		Payload:       cloneBytes(t.Payload),
		Executed:      t.Executed,
		Confirmations: t.Confirmations,
		Confirmed:     cloneBytes(t.Confirmed),
	}
}

// IsConfirmedBy returns true if the owner at given position confirmed.
func (t *Transaction) IsConfirmedBy(pos int) bool {
	i := pos / 8
	if i >= len(t.Confirmed) {
		return false
	}
	return t.Confirmed[i]&(1<<uint(pos%8)) != 0
}

// confirm records the owner at given position. Returns false if it was
// already recorded.
func (t *Transaction) confirm(pos int) bool {
	if t.IsConfirmedBy(pos) {
		return false
	}
	for len(t.Confirmed) <= pos/8 {
		t.Confirmed = append(t.Confirmed, 0)
	}
	t.Confirmed[pos/8] |= 1 << uint(pos%8)
	t.Confirmations++
	return true
}

// revoke removes the owner at given position. Returns false if there was
// nothing to remove.
func (t *Transaction) revoke(pos int) bool {
	if !t.IsConfirmedBy(pos) {
		return false
	}
	t.Confirmed[pos/8] &^= 1 << uint(pos%8)
	t.Confirmations--
	n := len(t.Confirmed)
	for n > 0 && t.Confirmed[n-1] == 0 {
		n--
	}
	if n == 0 {
		t.Confirmed = nil
	} else {
		t.Confirmed = t.Confirmed[:n]
	}
	return true
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
