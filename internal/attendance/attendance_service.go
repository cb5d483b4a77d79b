package attendance

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"strings"
	"time"

	attendanceerrors "github.com/rinov1/WorkWave/internal/attendance/errors"
	"github.com/rinov1/WorkWave/internal/events"
	"github.com/rinov1/WorkWave/internal/messaging/kafka"
	"github.com/rinov1/WorkWave/internal/roster"
	"github.com/rinov1/WorkWave/internal/shared/contextutil"
	"github.com/rinov1/WorkWave/internal/shared/keylock"

	"go.uber.org/zap"
)

// RosterView is the part of the roster synchronizer the engine reads.
type RosterView interface {
	Snapshot() *roster.Snapshot
}

// Viewer is who asks for a day summary.
type Viewer struct {
	AccountID int64
	IsHR      bool
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, accountID int64, code string, now time.Time) (ClockInResponse, error)
	ClockOut(ctx context.Context, accountID int64, code string, now time.Time) (SessionResponse, error)
	// Current returns nil when no session is open.
	Current(ctx context.Context, accountID int64) (*SessionResponse, error)
	DaySummary(ctx context.Context, day time.Time, viewer Viewer) (DaySummaryResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	roster RosterView
	outbox kafka.OutboxRepository
	locks  *keylock.Locker[int64]
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rosterView RosterView, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, rosterView, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	rosterView RosterView,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		roster: rosterView,
		outbox: outboxRepo,
		locks:  keylock.New[int64](),
		logger: l,
	}
}

// DayBounds returns local midnight of day and the last millisecond before the next one.
func DayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	loc := day.Location()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d+1, 0, 0, 0, 0, loc).Add(-time.Millisecond)
	return start, end
}

func (s *service) ClockIn(ctx context.Context, accountID int64, code string, now time.Time) (ClockInResponse, error) {
	officeID := strings.TrimSpace(code)
	if officeID == "" {
		return ClockInResponse{}, attendanceerrors.ErrInvalidCode
	}
	log := contextutil.GetLogger(ctx, s.logger)

	unlock, err := s.locks.Lock(ctx, accountID)
	if err != nil {
		return ClockInResponse{}, err
	}
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ClockInResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	open, err := qtx.FindOpenByAccount(ctx, accountID)
	if err != nil {
		return ClockInResponse{}, err
	}
	if open != nil {
		log.Info("clock in on open session",
			zap.Int64("account_id", accountID),
			zap.Int64("session_id", open.ID),
		)
		return ClockInResponse{Session: mapToResponse(*open), AlreadyOpen: true}, nil
	}

	row := &WorkSession{
		AccountID: accountID,
		StartTime: now.UTC(),
		OfficeID:  officeID,
	}
	if err := qtx.Create(ctx, row); err != nil {
		if !isOpenSessionConflict(err) {
			return ClockInResponse{}, err
		}
		_ = tx.Rollback()
		return s.openedElsewhere(ctx, accountID, err)
	}

	if err := s.record(ctx, tx, events.WorkSessionOpenedEvent, *row, now); err != nil {
		return ClockInResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("clock in commit failed", zap.Int64("account_id", accountID), zap.Error(err))
		return ClockInResponse{}, err
	}

	log.Info("clock in",
		zap.Int64("account_id", accountID),
		zap.Int64("session_id", row.ID),
		zap.String("office_id", officeID),
	)
	return ClockInResponse{Session: mapToResponse(*row)}, nil
}

// openedElsewhere returns the session another process inserted first.
func (s *service) openedElsewhere(ctx context.Context, accountID int64, cause error) (ClockInResponse, error) {
	winner, err := s.repo.FindOpenByAccount(ctx, accountID)
	if err != nil {
		return ClockInResponse{}, err
	}
	if winner == nil {
		return ClockInResponse{}, cause
	}
	contextutil.GetLogger(ctx, s.logger).Info("clock in lost race, returning winner",
		zap.Int64("account_id", accountID),
		zap.Int64("session_id", winner.ID),
	)
	return ClockInResponse{Session: mapToResponse(*winner), AlreadyOpen: true}, nil
}

func (s *service) ClockOut(ctx context.Context, accountID int64, code string, now time.Time) (SessionResponse, error) {
	officeID := strings.TrimSpace(code)
	if officeID == "" {
		return SessionResponse{}, attendanceerrors.ErrInvalidCode
	}
	log := contextutil.GetLogger(ctx, s.logger)

	unlock, err := s.locks.Lock(ctx, accountID)
	if err != nil {
		return SessionResponse{}, err
	}
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SessionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	open, err := qtx.FindOpenByAccount(ctx, accountID)
	if err != nil {
		return SessionResponse{}, err
	}
	if open == nil {
		return SessionResponse{}, attendanceerrors.ErrNoOpenSession
	}
	if open.OfficeID != "" && open.OfficeID != officeID {
		log.Info("clock out office mismatch",
			zap.Int64("account_id", accountID),
			zap.String("expected", open.OfficeID),
			zap.String("scanned", officeID),
		)
		return SessionResponse{}, attendanceerrors.ErrOfficeMismatch
	}

	end := now.UTC()
	closed, err := qtx.Close(ctx, open.ID, end)
	if err != nil {
		return SessionResponse{}, err
	}
	if !closed {
		return SessionResponse{}, attendanceerrors.ErrNoOpenSession
	}
	open.EndTime = &end

	if err := s.record(ctx, tx, events.WorkSessionClosedEvent, *open, now); err != nil {
		return SessionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("clock out commit failed", zap.Int64("account_id", accountID), zap.Error(err))
		return SessionResponse{}, err
	}

	log.Info("clock out",
		zap.Int64("account_id", accountID),
		zap.Int64("session_id", open.ID),
		zap.Duration("worked", open.Duration()),
	)
	return mapToResponse(*open), nil
}

func (s *service) record(ctx context.Context, tx *sql.Tx, eventType string, row WorkSession, now time.Time) error {
	if s.outbox == nil {
		return nil
	}
	rid := contextutil.GetRequestID(ctx)
	event, err := kafka.NewOutboxEvent(
		ctx,
		events.WorkSessionAggregateType,
		strconv.FormatInt(row.ID, 10),
		eventType,
		events.WorkSessionTopic,
		events.WorkSessionEvent{
			EventType:  eventType,
			RequestID:  rid,
			SessionID:  row.ID,
			AccountID:  row.AccountID,
			OfficeID:   row.OfficeID,
			StartTime:  row.StartTime,
			EndTime:    row.EndTime,
			OccurredAt: now.UTC(),
		},
	)
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("work session outbox persist failed",
			zap.String("request_id", rid),
			zap.Int64("session_id", row.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) Current(ctx context.Context, accountID int64) (*SessionResponse, error) {
	open, err := s.repo.FindOpenByAccount(ctx, accountID)
	if err != nil || open == nil {
		return nil, err
	}
	res := mapToResponse(*open)
	return &res, nil
}

func (s *service) DaySummary(ctx context.Context, day time.Time, viewer Viewer) (DaySummaryResponse, error) {
	from, to := DayBounds(day)
	rows, err := s.repo.FindInRange(ctx, from, to)
	if err != nil {
		return DaySummaryResponse{}, err
	}

	snapshot := s.roster.Snapshot()
	visible := func(accountID int64) bool {
		if !viewer.IsHR && accountID != viewer.AccountID {
			return false
		}
		return snapshot.Contains(accountID)
	}

	byAccount := make(map[int64]*AccountSummaryResponse)
	for _, row := range rows {
		if row.EndTime == nil || !visible(row.AccountID) {
			continue
		}
		sum, ok := byAccount[row.AccountID]
		if !ok {
			sum = &AccountSummaryResponse{
				AccountID:  row.AccountID,
				Email:      row.Email,
				FirstStart: row.StartTime,
				LastEnd:    *row.EndTime,
			}
			if entry, found := snapshot.Entry(row.AccountID); found {
				sum.DisplayName = entry.DisplayName()
			}
			byAccount[row.AccountID] = sum
		}
		sum.SessionCount++
		sum.total += row.Duration()
		if row.StartTime.Before(sum.FirstStart) {
			sum.FirstStart = row.StartTime
		}
		if row.EndTime.After(sum.LastEnd) {
			sum.LastEnd = *row.EndTime
		}
	}

	res := DaySummaryResponse{
		Date:     from.Format(dateLayout),
		TimeZone: from.Location().String(),
		From:     from,
		To:       to,
		Accounts: make([]AccountSummaryResponse, 0, len(byAccount)),
	}
	var total time.Duration
	for _, sum := range byAccount {
		sum.FirstStart = sum.FirstStart.In(from.Location())
		sum.LastEnd = sum.LastEnd.In(from.Location())
		sum.TotalMinutes = int64(sum.total / time.Minute)
		sum.Total = FormatDuration(sum.total)
		if sum.DisplayName == "" {
			sum.DisplayName = sum.Email
		}
		total += sum.total
		res.Accounts = append(res.Accounts, *sum)
	}
	sort.Slice(res.Accounts, func(i, j int) bool {
		a, b := res.Accounts[i], res.Accounts[j]
		ea, eb := strings.ToLower(a.Email), strings.ToLower(b.Email)
		if ea != eb {
			return ea < eb
		}
		return a.AccountID < b.AccountID
	})
	res.TotalMinutes = int64(total / time.Minute)
	res.Total = FormatDuration(total)

	s.logger.Debug("day summary",
		zap.String("date", res.Date),
		zap.Bool("hr", viewer.IsHR),
		zap.Int("rows", len(rows)),
		zap.Int("accounts", len(res.Accounts)),
	)
	return res, nil
}

// FormatDuration renders whole minutes as "X h Y min".
func FormatDuration(d time.Duration) string {
	minutes := int64(d / time.Minute)
	return strconv.FormatInt(minutes/60, 10) + " h " + strconv.FormatInt(minutes%60, 10) + " min"
}
