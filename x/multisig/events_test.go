package multisig

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

func TestEventTags(t *testing.T) {
	owner := quorumtest.NewAddress()
	target := quorumtest.NewAddress()

	cases := map[string]struct {
		event    Event
		wantTags []common.KVPair
	}{
		"deposited": {
			event: Deposited{Sender: owner, Amount: 5, Balance: 12},
			wantTags: []common.KVPair{
				tag("action", "deposit"),
				tag("sender", owner.String()),
				tag("amount", "5"),
				tag("balance", "12"),
			},
		},
		"proposed": {
			event: Proposed{Owner: owner, Index: 3, Target: target, Value: 7, Payload: []byte{0xca, 0xfe}},
			wantTags: []common.KVPair{
				tag("action", "propose"),
				tag("owner", owner.String()),
				tag("tx-index", "3"),
				tag("target", target.String()),
				tag("value", "7"),
				tag("payload", "cafe"),
			},
		},
		"confirmed": {
			event: Confirmed{Owner: owner, Index: 1},
			wantTags: []common.KVPair{
				tag("action", "confirm"),
				tag("owner", owner.String()),
				tag("tx-index", "1"),
			},
		},
		"revoked": {
			event: Revoked{Owner: owner, Index: 2},
			wantTags: []common.KVPair{
				tag("action", "revoke"),
				tag("owner", owner.String()),
				tag("tx-index", "2"),
			},
		},
		"executed": {
			event: Executed{Owner: owner, Index: 0},
			wantTags: []common.KVPair{
				tag("action", "execute"),
				tag("owner", owner.String()),
				tag("tx-index", "0"),
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			require.Equal(t, tc.wantTags, tc.event.Tags())
		})
	}
}

func TestEngineEventsOrder(t *testing.T) {
	ctx := context.Background()
	rec := &TagRecorder{}
	var viaFunc []string
	sink := MultiSink(rec, EventSinkFunc(func(_ context.Context, e Event) {
		viaFunc = append(viaFunc, e.Action())
	}))
	e, owners := newEngine(t, 2, 1, WithEventSink(sink), WithDispatcher(&quorumtest.Dispatcher{}))
	a, b := owners[0], owners[1]
	sender := quorumtest.NewAddress()
	target := quorumtest.NewAddress()

	_, err := e.Deposit(ctx, sender, 10)
	require.NoError(t, err)
	_, err = e.Propose(ctx, b, target, 4, []byte("p"))
	require.NoError(t, err)
	require.NoError(t, e.Confirm(ctx, a, 0))
	require.NoError(t, e.Revoke(ctx, a, 0))
	require.NoError(t, e.Confirm(ctx, b, 0))
	require.NoError(t, e.Execute(ctx, a, 0))

	want := []Event{
		Deposited{Sender: sender, Amount: 10, Balance: 10},
		Proposed{Owner: b, Index: 0, Target: target, Value: 4, Payload: []byte("p")},
		Confirmed{Owner: a, Index: 0},
		Revoked{Owner: a, Index: 0},
		Confirmed{Owner: b, Index: 0},
		Executed{Owner: a, Index: 0},
	}
	require.Equal(t, want, rec.Events())
	require.Equal(t, rec.Actions(), viaFunc)
	require.Equal(t, tag("action", "deposit"), rec.Tags()[0])
	require.Len(t, rec.Tags(), 4+6+3+3+3+3)
}

func TestFailedOperationsEmitNothing(t *testing.T) {
	ctx := context.Background()
	rec := &TagRecorder{}
	e, owners := newEngine(t, 2, 2, WithEventSink(rec))

	_, err := e.Propose(ctx, quorumtest.NewAddress(), quorumtest.NewAddress(), 1, nil)
	require.Error(t, err)
	require.Error(t, e.Confirm(ctx, owners[0], 0))
	require.Error(t, e.Revoke(ctx, owners[0], 0))
	require.Error(t, e.Execute(ctx, owners[0], 0))
	require.Empty(t, rec.Events())
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := LogSink{Logger: log.NewTMLogger(log.NewSyncWriter(&buf))}
	sink.Emit(context.Background(), Confirmed{Owner: quorum.Address(bytes.Repeat([]byte{1}, 20)), Index: 9})

	out := buf.String()
	require.True(t, strings.Contains(out, "action=confirm"), out)
	require.True(t, strings.Contains(out, "tx-index=9"), out)
}
