package roster_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rinov1/WorkWave/internal/events"
	"github.com/rinov1/WorkWave/internal/messaging/kafka"
	kafkaMock "github.com/rinov1/WorkWave/internal/messaging/kafka/mock"
	"github.com/rinov1/WorkWave/internal/roster"
	rostererrors "github.com/rinov1/WorkWave/internal/roster/errors"
	rosterMock "github.com/rinov1/WorkWave/internal/roster/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fakeSubscription struct {
	mu     sync.Mutex
	closed bool
}

func (s *fakeSubscription) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *fakeSubscription) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type fakeChannel struct {
	mu           sync.Mutex
	mutations    []roster.Mutation
	writeErr     error
	subscribeErr error

	rosterCb   func([]roster.Entry)
	rosterSub  *fakeSubscription
	accountCbs map[int64]func(bool)
	accountSub int
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{accountCbs: make(map[int64]func(bool))}
}

func (f *fakeChannel) UpsertEntry(_ context.Context, accountID int64, fields roster.DisplayFields, active *bool, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.mutations = append(f.mutations, roster.Mutation{AccountID: accountID, Fields: &fields, Active: active, At: at})
	return nil
}

func (f *fakeChannel) SetActive(_ context.Context, accountID int64, active bool, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.mutations = append(f.mutations, roster.Mutation{AccountID: accountID, Active: &active, At: at})
	return nil
}

func (f *fakeChannel) SubscribeActiveRoster(_ context.Context, onChange func([]roster.Entry)) (roster.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.rosterCb = onChange
	f.rosterSub = &fakeSubscription{}
	return f.rosterSub, nil
}

func (f *fakeChannel) SubscribeAccountActive(_ context.Context, accountID int64, onChange func(bool)) (roster.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accountCbs[accountID] = onChange
	f.accountSub++
	return &fakeSubscription{}, nil
}

func (f *fakeChannel) deliverRoster(entries []roster.Entry) {
	f.mu.Lock()
	cb := f.rosterCb
	f.mu.Unlock()
	cb(entries)
}

func (f *fakeChannel) deliverAccount(accountID int64, active bool) {
	f.mu.Lock()
	cb := f.accountCbs[accountID]
	f.mu.Unlock()
	cb(active)
}

func (f *fakeChannel) subscribed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rosterCb != nil
}

type fakeFlags struct {
	mu    sync.Mutex
	flags map[string]roster.MembershipFlag
	saves int
}

func newFakeFlags() *fakeFlags {
	return &fakeFlags{flags: make(map[string]roster.MembershipFlag)}
}

func flagKey(deviceID string, accountID int64) string {
	return fmt.Sprintf("%s/%d", deviceID, accountID)
}

func (f *fakeFlags) Get(_ context.Context, deviceID string, accountID int64) (*roster.MembershipFlag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	flag, ok := f.flags[flagKey(deviceID, accountID)]
	if !ok {
		return nil, nil
	}
	return &flag, nil
}

func (f *fakeFlags) Save(_ context.Context, flag *roster.MembershipFlag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flags[flagKey(flag.DeviceID, flag.AccountID)] = *flag
	f.saves++
	return nil
}

func (f *fakeFlags) LatestForAccount(_ context.Context, accountID int64) (*roster.MembershipFlag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *roster.MembershipFlag
	for _, flag := range f.flags {
		if flag.AccountID != accountID {
			continue
		}
		if latest == nil || flag.ObservedAt.After(latest.ObservedAt) {
			cp := flag
			latest = &cp
		}
	}
	return latest, nil
}

func newSynchronizer(ch roster.Channel, flags roster.FlagRepository, opts ...roster.Option) *roster.Synchronizer {
	opts = append([]roster.Option{roster.WithClock(func() time.Time { return fixedNow })}, opts...)
	return roster.NewSynchronizer(ch, flags, opts...)
}

func TestSynchronizer_Mutations(t *testing.T) {
	ctx := context.Background()
	fields := roster.DisplayFields{Email: "anna@bk.ru", FirstName: "Anna", LastName: "Ivanova"}

	t.Run("add always activates", func(t *testing.T) {
		ch := newFakeChannel()
		s := newSynchronizer(ch, newFakeFlags())

		require.NoError(t, s.AddToRoster(ctx, 5, fields))

		require.Len(t, ch.mutations, 1)
		m := ch.mutations[0]
		assert.Equal(t, int64(5), m.AccountID)
		require.NotNil(t, m.Active)
		assert.True(t, *m.Active)
		assert.Equal(t, fields, *m.Fields)
		assert.Equal(t, fixedNow, m.At)
	})

	t.Run("update never touches active", func(t *testing.T) {
		ch := newFakeChannel()
		s := newSynchronizer(ch, newFakeFlags())

		require.NoError(t, s.UpdateDisplayFields(ctx, 5, fields))

		require.Len(t, ch.mutations, 1)
		assert.Nil(t, ch.mutations[0].Active)
		assert.NotNil(t, ch.mutations[0].Fields)
	})

	t.Run("remove only deactivates", func(t *testing.T) {
		ch := newFakeChannel()
		s := newSynchronizer(ch, newFakeFlags())

		require.NoError(t, s.Remove(ctx, 5))

		require.Len(t, ch.mutations, 1)
		assert.Nil(t, ch.mutations[0].Fields)
		require.NotNil(t, ch.mutations[0].Active)
		assert.False(t, *ch.mutations[0].Active)
	})

	t.Run("push failure is reported", func(t *testing.T) {
		ch := newFakeChannel()
		ch.writeErr = errors.New("connection refused")
		s := newSynchronizer(ch, newFakeFlags())

		err := s.Remove(ctx, 5)
		assert.ErrorIs(t, err, rostererrors.ErrChannelUnavailable)
	})
}

func TestSynchronizer_Stage(t *testing.T) {
	ctx := context.Background()

	t.Run("records the mutation inside the caller's transaction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		outbox := kafkaMock.NewMockOutboxRepository(ctrl)
		txOutbox := kafkaMock.NewMockOutboxRepository(ctrl)
		s := newSynchronizer(newFakeChannel(), newFakeFlags(), roster.WithOutbox(outbox))

		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		tx, err := db.Begin()
		require.NoError(t, err)

		outbox.EXPECT().WithTx(tx).Return(txOutbox)
		txOutbox.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ev kafka.OutboxEvent) error {
				assert.Equal(t, events.RosterMutationTopic, ev.Topic)
				assert.Equal(t, "5", ev.AggregateID)
				assert.Contains(t, string(ev.Payload), `"active":false`)
				return nil
			})

		require.NoError(t, s.Stage(ctx, tx, roster.RemoveMutation(5, fixedNow)))
	})

	t.Run("outbox failure is returned so the caller rolls back", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		outbox := kafkaMock.NewMockOutboxRepository(ctrl)
		s := newSynchronizer(newFakeChannel(), newFakeFlags(), roster.WithOutbox(outbox))

		outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		assert.EqualError(t, s.Stage(ctx, nil, roster.RemoveMutation(5, fixedNow)), "disk full")
	})

	t.Run("no outbox configured", func(t *testing.T) {
		s := newSynchronizer(newFakeChannel(), newFakeFlags())
		assert.NoError(t, s.Stage(ctx, nil, roster.RemoveMutation(5, fixedNow)))
	})

	t.Run("staged mutation survives a failed push", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		outbox := kafkaMock.NewMockOutboxRepository(ctrl)
		ch := newFakeChannel()
		ch.writeErr = errors.New("connection refused")
		s := newSynchronizer(ch, newFakeFlags(), roster.WithOutbox(outbox))

		outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		m := roster.AddMutation(5, roster.DisplayFields{Email: "anna@bk.ru"}, fixedNow)
		require.NoError(t, s.Stage(ctx, nil, m))
		assert.ErrorIs(t, s.Push(ctx, m), rostererrors.ErrChannelUnavailable)
	})
}

func TestSynchronizer_Apply(t *testing.T) {
	ch := newFakeChannel()
	s := newSynchronizer(ch, newFakeFlags())

	active := true
	ev := roster.Mutation{AccountID: 3, Active: &active, At: fixedNow.Add(-time.Hour)}.ToEvent("")
	require.NoError(t, s.Apply(context.Background(), roster.MutationFromEvent(ev)))

	require.Len(t, ch.mutations, 1)
	assert.True(t, *ch.mutations[0].Active)
	assert.True(t, fixedNow.Add(-time.Hour).Equal(ch.mutations[0].At), "replays keep the original timestamp")
}

func TestSynchronizer_StartStop(t *testing.T) {
	ch := newFakeChannel()
	s := newSynchronizer(ch, newFakeFlags())

	assert.Equal(t, 0, s.Snapshot().Len())

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), rostererrors.ErrAlreadyStarted)
	require.Eventually(t, ch.subscribed, time.Second, 5*time.Millisecond)

	ch.deliverRoster([]roster.Entry{
		{AccountID: 1, Active: true},
		{AccountID: 2, Active: true},
	})
	assert.Equal(t, 2, s.Snapshot().Len())
	assert.True(t, s.Snapshot().Contains(2))

	ch.deliverRoster([]roster.Entry{})
	assert.Equal(t, 0, s.Snapshot().Len(), "a failed refresh empties the snapshot")

	s.Stop()
	assert.True(t, ch.rosterSub.isClosed())
	s.Stop()
}

func TestSynchronizer_AwaitSnapshot(t *testing.T) {
	ch := newFakeChannel()
	s := newSynchronizer(ch, newFakeFlags())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.AwaitSnapshot(ctx), context.DeadlineExceeded)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()
	require.Eventually(t, ch.subscribed, time.Second, 5*time.Millisecond)
	ch.deliverRoster([]roster.Entry{{AccountID: 4, Active: true}})

	require.NoError(t, s.AwaitSnapshot(context.Background()))
	assert.True(t, s.Snapshot().Contains(4))
}

func TestSynchronizer_StartRetries(t *testing.T) {
	ch := newFakeChannel()
	ch.subscribeErr = rostererrors.ErrChannelUnavailable
	s := newSynchronizer(ch, newFakeFlags(), roster.WithResubscribeDelay(5*time.Millisecond))

	require.NoError(t, s.Start(context.Background()))
	time.Sleep(20 * time.Millisecond)
	assert.False(t, ch.subscribed())

	ch.mu.Lock()
	ch.subscribeErr = nil
	ch.mu.Unlock()
	require.Eventually(t, ch.subscribed, time.Second, 5*time.Millisecond)

	s.Stop()
}

type eventRecorder struct {
	mu     sync.Mutex
	events []roster.MembershipEvent
}

func (r *eventRecorder) record(ev roster.MembershipEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *eventRecorder) types() []roster.MembershipEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]roster.MembershipEventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func TestSynchronizer_WatchMembership(t *testing.T) {
	ctx := context.Background()

	t.Run("hr never subscribes", func(t *testing.T) {
		ch := newFakeChannel()
		s := newSynchronizer(ch, newFakeFlags())
		rec := &eventRecorder{}

		sub, err := s.WatchMembership(ctx, "d1", 1, true, rec.record)

		require.NoError(t, err)
		assert.NoError(t, sub.Close())
		assert.Equal(t, 0, ch.accountSub)
		assert.Empty(t, rec.types())
		assert.True(t, s.IsRosterVisibleTo(ctx, 1, true))
	})

	t.Run("baseline then exactly one event per flip", func(t *testing.T) {
		ch := newFakeChannel()
		flags := newFakeFlags()
		s := newSynchronizer(ch, flags)
		rec := &eventRecorder{}

		_, err := s.WatchMembership(ctx, "d1", 7, false, rec.record)
		require.NoError(t, err)
		assert.Empty(t, rec.types(), "no cached flag, no provisional event")

		ch.deliverAccount(7, true)
		ch.deliverAccount(7, true)
		ch.deliverAccount(7, false)
		ch.deliverAccount(7, false)
		ch.deliverAccount(7, true)

		assert.Equal(t, []roster.MembershipEventType{
			roster.MembershipBaseline,
			roster.MembershipLost,
			roster.MembershipGained,
		}, rec.types())
		assert.Equal(t, 5, flags.saves, "every delivery persists the flag")

		cached, err := flags.Get(ctx, "d1", 7)
		require.NoError(t, err)
		require.NotNil(t, cached)
		assert.True(t, cached.Active)
	})

	t.Run("cached flag is provisional", func(t *testing.T) {
		ch := newFakeChannel()
		flags := newFakeFlags()
		require.NoError(t, flags.Save(ctx, &roster.MembershipFlag{DeviceID: "d1", AccountID: 7, Active: false, ObservedAt: fixedNow.Add(-time.Hour)}))
		s := newSynchronizer(ch, flags)
		rec := &eventRecorder{}

		_, err := s.WatchMembership(ctx, "d1", 7, false, rec.record)
		require.NoError(t, err)
		assert.False(t, s.IsRosterVisibleTo(ctx, 7, false))

		ch.deliverAccount(7, true)

		assert.Equal(t, []roster.MembershipEventType{
			roster.MembershipProvisional,
			roster.MembershipBaseline,
		}, rec.types(), "first live delivery is a baseline even when it differs from the cache")
		assert.True(t, s.IsRosterVisibleTo(ctx, 7, false))
	})
}

func TestSynchronizer_IsRosterVisibleTo(t *testing.T) {
	ctx := context.Background()

	t.Run("persisted flag before snapshot", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		flags := rosterMock.NewMockFlagRepository(ctrl)
		s := newSynchronizer(newFakeChannel(), flags)

		flags.EXPECT().
			LatestForAccount(gomock.Any(), int64(4)).
			Return(&roster.MembershipFlag{AccountID: 4, Active: true}, nil)

		assert.True(t, s.IsRosterVisibleTo(ctx, 4, false))
	})

	t.Run("live snapshot wins once delivered", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		flags := rosterMock.NewMockFlagRepository(ctrl)
		ch := newFakeChannel()
		s := newSynchronizer(ch, flags)
		require.NoError(t, s.Start(ctx))
		defer s.Stop()
		require.Eventually(t, ch.subscribed, time.Second, 5*time.Millisecond)
		ch.deliverRoster([]roster.Entry{{AccountID: 4, Active: true}})

		assert.True(t, s.IsRosterVisibleTo(ctx, 4, false))
		assert.False(t, s.IsRosterVisibleTo(ctx, 5, false))
	})

	t.Run("removed account loses visibility after its watch closed", func(t *testing.T) {
		ch := newFakeChannel()
		flags := newFakeFlags()
		s := newSynchronizer(ch, flags)
		require.NoError(t, s.Start(ctx))
		defer s.Stop()
		require.Eventually(t, ch.subscribed, time.Second, 5*time.Millisecond)
		ch.deliverRoster([]roster.Entry{{AccountID: 7, Active: true}})

		sub, err := s.WatchMembership(ctx, "d1", 7, false, func(roster.MembershipEvent) {})
		require.NoError(t, err)
		ch.deliverAccount(7, true)
		require.NoError(t, sub.Close())

		require.NoError(t, s.Remove(ctx, 7))
		ch.deliverRoster([]roster.Entry{})

		assert.False(t, s.Snapshot().Contains(7))
		assert.False(t, s.CachedActive(ctx, 7))
		assert.False(t, s.IsRosterVisibleTo(ctx, 7, false))

		restartedCh := newFakeChannel()
		restarted := newSynchronizer(restartedCh, flags)
		require.NoError(t, restarted.Start(ctx))
		defer restarted.Stop()
		require.Eventually(t, restartedCh.subscribed, time.Second, 5*time.Millisecond)
		restartedCh.deliverRoster([]roster.Entry{})

		assert.False(t, restarted.IsRosterVisibleTo(ctx, 7, false), "persisted flag does not outlive a live delivery")
	})
}
