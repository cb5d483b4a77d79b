package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rinov1/WorkWave/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// FindOpenByAccount returns nil when the account has no open session.
	FindOpenByAccount(ctx context.Context, accountID int64) (*WorkSession, error)
	Create(ctx context.Context, s *WorkSession) error
	// Close sets end_time only on a still-open row and reports whether a row changed.
	Close(ctx context.Context, id int64, end time.Time) (bool, error)
	// FindInRange returns sessions whose start lies in [from, to], oldest first.
	FindInRange(ctx context.Context, from, to time.Time) ([]SessionWithEmail, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.WithSQLTx(r.db, r.tx).WithContext(ctx)
}

func (r *repository) FindOpenByAccount(ctx context.Context, accountID int64) (*WorkSession, error) {
	var s WorkSession
	err := r.conn(ctx).
		Where("account_id = ? AND end_time IS NULL", accountID).
		Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Create(ctx context.Context, s *WorkSession) error {
	return r.conn(ctx).Create(s).Error
}

func (r *repository) Close(ctx context.Context, id int64, end time.Time) (bool, error) {
	res := r.conn(ctx).
		Model(&WorkSession{}).
		Where("id = ? AND end_time IS NULL", id).
		Update("end_time", end)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindInRange(ctx context.Context, from, to time.Time) ([]SessionWithEmail, error) {
	var rows []SessionWithEmail
	err := r.conn(ctx).
		Table("work_sessions AS ws").
		Select("ws.id, ws.account_id, ws.start_time, ws.end_time, ws.office_id, a.email").
		Joins("JOIN accounts a ON a.id = ws.account_id").
		Where("ws.start_time BETWEEN ? AND ?", from, to).
		Order("ws.start_time ASC").
		Scan(&rows).Error
	return rows, err
}
