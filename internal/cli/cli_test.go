package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rinov1/WorkWave/internal/attendance"
	attendanceerrors "github.com/rinov1/WorkWave/internal/attendance/errors"
	attendanceMock "github.com/rinov1/WorkWave/internal/attendance/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeResyncer struct {
	pushed int
	err    error
}

func (f *fakeResyncer) ResyncRoster(context.Context) (int, error) {
	return f.pushed, f.err
}

type fakeBackend struct {
	migrateErr  error
	connectFail error
	upCalls     int
	downSteps   int
	resyncer    *fakeResyncer
	attendance  attendance.Service
	withRoster  []bool
	released    int
	location    *time.Location
}

func (b *fakeBackend) MigrateUp(context.Context) error {
	b.upCalls++
	return b.migrateErr
}

func (b *fakeBackend) MigrateDown(_ context.Context, steps int) error {
	b.downSteps = steps
	return b.migrateErr
}

func (b *fakeBackend) Roster(context.Context) (RosterResyncer, func(), error) {
	if b.connectFail != nil {
		return nil, nil, b.connectFail
	}
	return b.resyncer, func() { b.released++ }, nil
}

func (b *fakeBackend) Attendance(_ context.Context, withRoster bool) (attendance.Service, func(), error) {
	if b.connectFail != nil {
		return nil, nil, b.connectFail
	}
	b.withRoster = append(b.withRoster, withRoster)
	return b.attendance, func() { b.released++ }, nil
}

func (b *fakeBackend) Location() *time.Location {
	if b.location == nil {
		return time.UTC
	}
	return b.location
}

func execute(t *testing.T, backend Backend, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(backend)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(&fakeBackend{})
	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"roster", "resync"},
		{"summary"},
		{"clock", "in"},
		{"clock", "out"},
	} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, &fakeBackend{}, "", "migrate", "up", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestMigrate(t *testing.T) {
	b := &fakeBackend{}

	out, err := execute(t, b, "", "migrate", "up")
	require.NoError(t, err)
	assert.Equal(t, 1, b.upCalls)
	assert.Contains(t, out, "migrations applied")

	_, err = execute(t, b, "", "migrate", "down", "--steps", "2")
	require.NoError(t, err)
	assert.Equal(t, 2, b.downSteps)

	_, err = execute(t, b, "", "migrate", "down", "--steps", "0")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	b.migrateErr = errors.New("dirty database")
	_, err = execute(t, b, "", "migrate", "up")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorContains(t, err, "dirty database")
}

func TestRosterResync(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		b := &fakeBackend{resyncer: &fakeResyncer{pushed: 3}}
		out, err := execute(t, b, "", "roster", "resync")
		require.NoError(t, err)
		assert.Equal(t, "pushed 3 profile(s)\n", out)
		assert.Equal(t, 1, b.released)
	})

	t.Run("partial failure as json", func(t *testing.T) {
		b := &fakeBackend{resyncer: &fakeResyncer{pushed: 2, err: errors.New("account 5: channel unavailable")}}
		out, err := execute(t, b, "", "roster", "resync", "--format", "json")

		assert.Equal(t, ExitFailure, GetExitCode(err))
		var res resyncResult
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, 2, res.Pushed)
		assert.Contains(t, res.Error, "account 5")
	})

	t.Run("connect failure", func(t *testing.T) {
		_, err := execute(t, &fakeBackend{connectFail: errors.New("no redis")}, "", "roster", "resync")
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

func TestSummary(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, moscow)

	summary := attendance.DaySummaryResponse{
		Date:     "2026-03-02",
		TimeZone: "Europe/Moscow",
		From:     from,
		To:       from.Add(24*time.Hour - time.Millisecond),
		Accounts: []attendance.AccountSummaryResponse{{
			AccountID:    4,
			Email:        "d@bk.ru",
			DisplayName:  "Dana Doe",
			SessionCount: 2,
			TotalMinutes: 90,
			Total:        "1 h 30 min",
			FirstStart:   from.Add(9 * time.Hour),
			LastEnd:      from.Add(11 * time.Hour),
		}},
		TotalMinutes: 90,
		Total:        "1 h 30 min",
	}

	t.Run("table", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := attendanceMock.NewMockService(ctrl)
		b := &fakeBackend{attendance: svc}

		svc.EXPECT().
			DaySummary(gomock.Any(), gomock.Any(), attendance.Viewer{IsHR: true}).
			DoAndReturn(func(_ context.Context, day time.Time, _ attendance.Viewer) (attendance.DaySummaryResponse, error) {
				assert.True(t, day.Equal(from))
				assert.Equal(t, "Europe/Moscow", day.Location().String())
				return summary, nil
			})

		out, err := execute(t, b, "", "summary", "--date", "2026-03-02", "--tz", "Europe/Moscow")

		require.NoError(t, err)
		assert.Equal(t, []bool{true}, b.withRoster)
		assert.Contains(t, out, "2026-03-02 (Europe/Moscow)")
		assert.Contains(t, out, "Dana Doe")
		assert.Contains(t, out, "09:00")
		assert.Contains(t, out, "11:00")
		assert.Contains(t, out, "1 h 30 min")
	})

	t.Run("json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := attendanceMock.NewMockService(ctrl)
		svc.EXPECT().DaySummary(gomock.Any(), gomock.Any(), gomock.Any()).Return(summary, nil)

		out, err := execute(t, &fakeBackend{attendance: svc}, "", "summary", "--date", "2026-03-02", "--tz", "Europe/Moscow", "--format", "json")

		require.NoError(t, err)
		var got attendance.DaySummaryResponse
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, int64(90), got.TotalMinutes)
		require.Len(t, got.Accounts, 1)
		assert.Equal(t, "d@bk.ru", got.Accounts[0].Email)
	})

	t.Run("bad input", func(t *testing.T) {
		_, err := execute(t, &fakeBackend{}, "", "summary", "--date", "02.03.2026")
		assert.Equal(t, ExitCommandError, GetExitCode(err))

		_, err = execute(t, &fakeBackend{}, "", "summary", "--tz", "Mars/Olympus")
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

func TestClock(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("in", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := attendanceMock.NewMockService(ctrl)
		b := &fakeBackend{attendance: svc}

		svc.EXPECT().ClockIn(gomock.Any(), int64(12), "OFFICE-7", gomock.Any()).
			Return(attendance.ClockInResponse{Session: attendance.SessionResponse{
				ID: 40, AccountID: 12, OfficeID: "OFFICE-7", StartTime: start, Open: true,
			}}, nil)

		out, err := execute(t, b, "  OFFICE-7 \n", "clock", "in", "--account", "12")

		require.NoError(t, err)
		assert.Equal(t, []bool{false}, b.withRoster)
		assert.Equal(t, "session 40 open since 09:00 at OFFICE-7\n", out)
		assert.Equal(t, 1, b.released)
	})

	t.Run("out as json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := attendanceMock.NewMockService(ctrl)
		end := start.Add(8 * time.Hour)

		svc.EXPECT().ClockOut(gomock.Any(), int64(12), "OFFICE-7", gomock.Any()).
			Return(attendance.SessionResponse{ID: 40, AccountID: 12, StartTime: start, EndTime: &end}, nil)

		out, err := execute(t, &fakeBackend{attendance: svc}, "OFFICE-7\n", "clock", "out", "--account", "12", "--format", "json")

		require.NoError(t, err)
		var got attendance.SessionResponse
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.False(t, got.Open)
		require.NotNil(t, got.EndTime)
	})

	t.Run("empty scan cancels without a service call", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := attendanceMock.NewMockService(ctrl)

		_, err := execute(t, &fakeBackend{attendance: svc}, "\n", "clock", "in", "--account", "12")

		assert.ErrorIs(t, err, attendanceerrors.ErrScanCancelled)
		assert.Equal(t, ExitFailure, GetExitCode(err))
	})

	t.Run("eof cancels", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := attendanceMock.NewMockService(ctrl)

		_, err := execute(t, &fakeBackend{attendance: svc}, "", "clock", "out", "--account", "12")
		assert.ErrorIs(t, err, attendanceerrors.ErrScanCancelled)
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := execute(t, &fakeBackend{}, "OFFICE-7\n", "clock", "in")
		require.Error(t, err)
	})

	t.Run("service refusal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := attendanceMock.NewMockService(ctrl)
		svc.EXPECT().ClockOut(gomock.Any(), int64(12), "OFFICE-9", gomock.Any()).
			Return(attendance.SessionResponse{}, attendanceerrors.ErrOfficeMismatch)

		_, err := execute(t, &fakeBackend{attendance: svc}, "OFFICE-9\n", "clock", "out", "--account", "12")

		assert.ErrorIs(t, err, attendanceerrors.ErrOfficeMismatch)
		assert.Equal(t, ExitFailure, GetExitCode(err))
	})
}
