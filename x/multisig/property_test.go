package multisig

import (
	"context"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestConfirmationCountInvariant runs random operation sequences and checks
// after every step that each transaction's confirmation count equals the
// number of owners confirming it and that executed transactions stay
// executed.
func TestConfirmationCountInvariant(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	const ownerCount = 4

	properties.Property("confirmation count matches confirming owners", prop.ForAll(
		func(steps []int) bool {
			ctx := context.Background()
			owners := quorumtest.NewAddresses(ownerCount)
			callers := append(owners, quorumtest.NewAddress())
			e, err := NewEngine(Config{Owners: owners, Threshold: 2},
				WithDispatcher(&quorumtest.Dispatcher{}))
			if err != nil {
				return false
			}

			executed := make(map[uint64]bool)
			for _, step := range steps {
				caller := callers[(step/4)%len(callers)]
				index := uint64(step/20) % 4
				switch step % 4 {
				case 0:
					_, _ = e.Propose(ctx, caller, quorumtest.NewAddress(), 0, nil)
				case 1:
					_ = e.Confirm(ctx, caller, index)
				case 2:
					_ = e.Revoke(ctx, caller, index)
				case 3:
					_ = e.Execute(ctx, caller, index)
				}
				if !invariantHolds(e, owners, executed) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 999)),
	))

	properties.TestingRun(t)
}

func invariantHolds(e *Engine, owners []quorum.Address, executed map[uint64]bool) bool {
	count, err := e.TransactionCount()
	if err != nil {
		return false
	}
	for i := uint64(0); i < count; i++ {
		tx, err := e.Transaction(i)
		if err != nil {
			return false
		}
		var confirming uint32
		for _, o := range owners {
			ok, err := e.IsConfirmed(i, o)
			if err != nil {
				return false
			}
			if ok {
				confirming++
			}
		}
		if confirming != tx.Confirmations || tx.Confirmations > uint32(len(owners)) {
			return false
		}
		if executed[i] && !tx.Executed {
			return false
		}
		if tx.Executed {
			if tx.Confirmations < e.Threshold() {
				return false
			}
			executed[i] = true
		}
	}
	return true
}
