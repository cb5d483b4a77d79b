package employee

import (
	"context"
	"database/sql"
	"errors"

	employeeerrors "github.com/rinov1/WorkWave/internal/employee/errors"
	"github.com/rinov1/WorkWave/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// Upsert inserts the profile or replaces the one stored for the same account.
	Upsert(ctx context.Context, p *Profile) error
	// FindByAccount returns nil when the account has no profile.
	FindByAccount(ctx context.Context, accountID int64) (*Profile, error)
	Delete(ctx context.Context, accountID int64) error
	ListWithNames(ctx context.Context) ([]Listing, error)
	ListAll(ctx context.Context) ([]Profile, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.WithSQLTx(r.db, r.tx).WithContext(ctx)
}

func (r *repository) Upsert(ctx context.Context, p *Profile) error {
	err := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "account_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"first_name", "last_name", "position", "phone", "avatar_ref",
				"email", "on_vacation", "hire_date", "updated_at",
			}),
		}).
		Create(p).Error
	return mapRepositoryError(err)
}

func (r *repository) FindByAccount(ctx context.Context, accountID int64) (*Profile, error) {
	var p Profile
	err := r.conn(ctx).Where("account_id = ?", accountID).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Delete(ctx context.Context, accountID int64) error {
	res := r.conn(ctx).Where("account_id = ?", accountID).Delete(&Profile{})
	if res.Error != nil {
		return mapRepositoryError(res.Error)
	}
	if res.RowsAffected == 0 {
		return employeeerrors.ErrProfileNotFound
	}
	return nil
}

// ListWithNames puts profiles without any name last, then orders by last, first and email.
func (r *repository) ListWithNames(ctx context.Context) ([]Listing, error) {
	var rows []Listing
	err := r.conn(ctx).
		Table("accounts AS a").
		Select("p.*, a.email AS account_email").
		Joins("JOIN profiles p ON p.account_id = a.id").
		Where("a.is_hr = ?", false).
		Order("(p.first_name = '' AND p.last_name = '') ASC").
		Order("LOWER(p.last_name) ASC").
		Order("LOWER(p.first_name) ASC").
		Order("LOWER(a.email) ASC").
		Scan(&rows).Error
	return rows, err
}

// ListAll returns every stored profile, HR included.
func (r *repository) ListAll(ctx context.Context) ([]Profile, error) {
	var rows []Profile
	err := r.conn(ctx).Order("account_id ASC").Find(&rows).Error
	return rows, err
}
