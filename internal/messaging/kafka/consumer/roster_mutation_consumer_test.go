package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rinov1/WorkWave/internal/events"
	"github.com/rinov1/WorkWave/internal/roster"
	rostererrors "github.com/rinov1/WorkWave/internal/roster/errors"
	"github.com/rinov1/WorkWave/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReader struct {
	mu        sync.Mutex
	pending   []kafkago.Message
	committed []int64
	drained   func()
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	if len(r.pending) > 0 {
		msg := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	r.drained()
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

type fakeApplier struct {
	failures int
	err      error
	applied  []roster.Mutation
	rids     []string
}

func (a *fakeApplier) Apply(ctx context.Context, m roster.Mutation) error {
	if a.failures > 0 {
		a.failures--
		return a.err
	}
	a.applied = append(a.applied, m)
	a.rids = append(a.rids, contextutil.GetRequestID(ctx))
	return nil
}

func mutationMessage(t *testing.T, offset int64, ev events.RosterMutationEvent) kafkago.Message {
	t.Helper()
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafkago.Message{
		Offset:  offset,
		Value:   raw,
		Headers: []kafkago.Header{{Key: "request_id", Value: []byte("rid-1")}},
	}
}

func run(t *testing.T, reader *fakeReader, applier MutationApplier) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	reader.drained = cancel
	done := make(chan struct{})
	go func() {
		ConsumeRosterMutations(ctx, reader, applier, zap.NewNop(), time.Millisecond)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestConsumeRosterMutations(t *testing.T) {
	active := false
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("applies and commits", func(t *testing.T) {
		reader := &fakeReader{pending: []kafkago.Message{
			mutationMessage(t, 1, events.RosterMutationEvent{
				EventType:  events.RosterMutationEventType,
				AccountID:  4,
				Fields:     &events.RosterFields{Email: "d@bk.ru", LastName: "Doe"},
				OccurredAt: at,
			}),
			mutationMessage(t, 2, events.RosterMutationEvent{AccountID: 4, Active: &active, OccurredAt: at}),
		}}
		applier := &fakeApplier{}

		run(t, reader, applier)

		require.Len(t, applier.applied, 2)
		assert.Equal(t, "Doe", applier.applied[0].Fields.LastName)
		assert.False(t, *applier.applied[1].Active)
		assert.Equal(t, "rid-1", applier.rids[0])
		assert.Equal(t, []int64{1, 2}, reader.committed)
	})

	t.Run("undecodable message is committed and skipped", func(t *testing.T) {
		reader := &fakeReader{pending: []kafkago.Message{{Offset: 5, Value: []byte("{broken")}}}
		applier := &fakeApplier{}

		run(t, reader, applier)

		assert.Empty(t, applier.applied)
		assert.Equal(t, []int64{5}, reader.committed)
	})

	t.Run("unavailable channel retries the same message", func(t *testing.T) {
		reader := &fakeReader{pending: []kafkago.Message{
			mutationMessage(t, 7, events.RosterMutationEvent{AccountID: 9, Active: &active, OccurredAt: at}),
		}}
		applier := &fakeApplier{failures: 2, err: rostererrors.ErrChannelUnavailable}

		run(t, reader, applier)

		require.Len(t, applier.applied, 1)
		assert.Equal(t, int64(9), applier.applied[0].AccountID)
		assert.Equal(t, []int64{7}, reader.committed)
	})

	t.Run("permanent failure is skipped", func(t *testing.T) {
		reader := &fakeReader{pending: []kafkago.Message{
			mutationMessage(t, 8, events.RosterMutationEvent{AccountID: 9, Active: &active, OccurredAt: at}),
		}}
		applier := &fakeApplier{failures: 1, err: errors.New("bad mutation")}

		run(t, reader, applier)

		assert.Empty(t, applier.applied)
		assert.Equal(t, []int64{8}, reader.committed)
	})
}
