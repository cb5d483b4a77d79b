package account

import (
	"context"
	"database/sql"
	"errors"

	accounterrors "github.com/rinov1/WorkWave/internal/account/errors"
	"github.com/rinov1/WorkWave/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=account_repo.go -destination=mock/account_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Account) error
	// FindByEmail matches case-insensitively and returns nil when no account exists.
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id int64) (*Account, error)
	Delete(ctx context.Context, id int64) error
	ListWithoutProfile(ctx context.Context) ([]Account, error)
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

func (r *repository) Create(ctx context.Context, a *Account) error {
	a.Email = NormalizeEmail(a.Email)
	return mapRepositoryError(r.conn(ctx).Create(a).Error)
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	var a Account
	err := r.conn(ctx).
		Where("LOWER(email) = ?", NormalizeEmail(email)).
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Account, error) {
	var a Account
	err := r.conn(ctx).Where("id = ?", id).Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Delete removes the account; profile, sessions and membership flags cascade.
func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.conn(ctx).Where("id = ?", id).Delete(&Account{})
	if res.Error != nil {
		return mapRepositoryError(res.Error)
	}
	if res.RowsAffected == 0 {
		return accounterrors.ErrAccountNotFound
	}
	return nil
}

// ListWithoutProfile returns non-HR accounts that have no profile yet.
func (r *repository) ListWithoutProfile(ctx context.Context) ([]Account, error) {
	var rows []Account
	err := r.conn(ctx).
		Where("is_hr = ?", false).
		Where("NOT EXISTS (SELECT 1 FROM profiles p WHERE p.account_id = accounts.id)").
		Order("LOWER(email) ASC").
		Find(&rows).Error
	return rows, err
}
