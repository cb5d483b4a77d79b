package roster

import (
	"context"
	"sync"
	"testing"
	"time"

	rostererrors "github.com/rinov1/WorkWave/internal/roster/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChannel(t *testing.T) (*RedisChannel, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), Protocol: 2})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisChannel(rdb, WithResyncInterval(time.Hour)), mr
}

func boolPtr(b bool) *bool { return &b }

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestRedisChannel_UpsertEntry(t *testing.T) {
	ctx := context.Background()
	ch, mr := newTestChannel(t)

	hire := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, ch.UpsertEntry(ctx, 2, DisplayFields{Email: "zed@bk.ru", LastName: "Adams"}, boolPtr(true), t0))
	require.NoError(t, ch.UpsertEntry(ctx, 1, DisplayFields{Email: "amy@bk.ru", FirstName: "Amy", HireDate: &hire}, boolPtr(true), t0))
	require.NoError(t, ch.UpsertEntry(ctx, 3, DisplayFields{Email: "bob@bk.ru", LastName: "Brown"}, nil, t0))

	entries, err := ch.ActiveEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, int64(2), entries[0].AccountID, "sort key adams before amy@bk.ru")
	assert.Equal(t, int64(1), entries[1].AccountID)
	assert.Equal(t, "Amy", entries[1].FirstName)
	require.NotNil(t, entries[1].HireDate)
	assert.True(t, hire.Equal(*entries[1].HireDate))

	assert.Equal(t, "adams", mr.HGet("roster:entry:2", "sort_key"))
	assert.Equal(t, "", mr.HGet("roster:entry:3", "active"), "fields-only upsert leaves active unset")
	members, err := mr.Members("roster:active")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "2"}, members)
}

func TestRedisChannel_LastWriterWins(t *testing.T) {
	ctx := context.Background()
	ch, mr := newTestChannel(t)

	require.NoError(t, ch.UpsertEntry(ctx, 1, DisplayFields{Email: "a@bk.ru", Position: "Dev"}, boolPtr(true), t0))

	t.Run("older fields are ignored", func(t *testing.T) {
		require.NoError(t, ch.UpsertEntry(ctx, 1, DisplayFields{Email: "a@bk.ru", Position: "Intern"}, nil, t0.Add(-time.Minute)))
		assert.Equal(t, "Dev", mr.HGet("roster:entry:1", "position"))
	})

	t.Run("older deactivation is ignored", func(t *testing.T) {
		require.NoError(t, ch.SetActive(ctx, 1, false, t0.Add(-time.Minute)))
		assert.Equal(t, "1", mr.HGet("roster:entry:1", "active"))
	})

	t.Run("field edit never reactivates", func(t *testing.T) {
		require.NoError(t, ch.SetActive(ctx, 1, false, t0.Add(time.Minute)))
		require.NoError(t, ch.UpsertEntry(ctx, 1, DisplayFields{Email: "a@bk.ru", Position: "Lead"}, nil, t0.Add(2*time.Minute)))

		assert.Equal(t, "0", mr.HGet("roster:entry:1", "active"))
		assert.Equal(t, "Lead", mr.HGet("roster:entry:1", "position"))
		active, err := ch.AccountActive(ctx, 1)
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("created_at is kept", func(t *testing.T) {
		first := mr.HGet("roster:entry:1", "created_at")
		require.NoError(t, ch.UpsertEntry(ctx, 1, DisplayFields{Email: "a@bk.ru", CreatedAt: t0.Add(time.Hour)}, boolPtr(true), t0.Add(3*time.Minute)))
		assert.Equal(t, first, mr.HGet("roster:entry:1", "created_at"))
	})
}

func TestRedisChannel_Unavailable(t *testing.T) {
	ctx := context.Background()
	ch, mr := newTestChannel(t)
	mr.Close()

	err := ch.SetActive(ctx, 1, true, t0)
	assert.ErrorIs(t, err, rostererrors.ErrChannelUnavailable)

	_, err = ch.SubscribeActiveRoster(ctx, func([]Entry) {})
	assert.ErrorIs(t, err, rostererrors.ErrChannelUnavailable)
}

type rosterRecorder struct {
	mu    sync.Mutex
	lists [][]Entry
}

func (r *rosterRecorder) record(entries []Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists = append(r.lists, entries)
}

func (r *rosterRecorder) last() ([]Entry, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.lists) == 0 {
		return nil, 0
	}
	return r.lists[len(r.lists)-1], len(r.lists)
}

func TestRedisChannel_SubscribeActiveRoster(t *testing.T) {
	ctx := context.Background()
	ch, _ := newTestChannel(t)
	require.NoError(t, ch.UpsertEntry(ctx, 1, DisplayFields{Email: "a@bk.ru"}, boolPtr(true), t0))

	rec := &rosterRecorder{}
	sub, err := ch.SubscribeActiveRoster(ctx, rec.record)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		entries, n := rec.last()
		return n >= 1 && len(entries) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, ch.UpsertEntry(ctx, 2, DisplayFields{Email: "b@bk.ru"}, boolPtr(true), t0))
	require.Eventually(t, func() bool {
		entries, _ := rec.last()
		return len(entries) == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, ch.SetActive(ctx, 1, false, t0.Add(time.Second)))
	require.Eventually(t, func() bool {
		entries, _ := rec.last()
		return len(entries) == 1 && entries[0].AccountID == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, sub.Close())
	_, before := rec.last()
	require.NoError(t, ch.SetActive(ctx, 1, true, t0.Add(2*time.Second)))
	time.Sleep(50 * time.Millisecond)
	_, after := rec.last()
	assert.Equal(t, before, after, "no delivery after Close")
	assert.NoError(t, sub.Close())
}

func TestRedisChannel_SubscribeAccountActive(t *testing.T) {
	ctx := context.Background()
	ch, _ := newTestChannel(t)

	var (
		mu  sync.Mutex
		got []bool
	)
	sub, err := ch.SubscribeAccountActive(ctx, 7, func(active bool) {
		mu.Lock()
		got = append(got, active)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer sub.Close()

	snapshot := func() []bool {
		mu.Lock()
		defer mu.Unlock()
		return append([]bool(nil), got...)
	}

	require.Eventually(t, func() bool { return len(snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []bool{false}, snapshot())

	require.NoError(t, ch.UpsertEntry(ctx, 8, DisplayFields{Email: "other@bk.ru"}, boolPtr(true), t0))
	require.NoError(t, ch.UpsertEntry(ctx, 7, DisplayFields{Email: "me@bk.ru"}, boolPtr(true), t0))
	require.Eventually(t, func() bool { return len(snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, ch.UpsertEntry(ctx, 7, DisplayFields{Email: "me@bk.ru", Phone: "+7"}, nil, t0.Add(time.Second)))
	require.NoError(t, ch.SetActive(ctx, 7, false, t0.Add(2*time.Second)))
	require.Eventually(t, func() bool { return len(snapshot()) == 3 }, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, []bool{false, true, false}, snapshot())
}
