package roster

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MembershipFlag is the last active flag a device observed for an account.
type MembershipFlag struct {
	DeviceID   string    `gorm:"column:device_id;primaryKey"`
	AccountID  int64     `gorm:"column:account_id;primaryKey"`
	Active     bool      `gorm:"column:active;not null"`
	ObservedAt time.Time `gorm:"column:observed_at;not null"`
}

func (MembershipFlag) TableName() string {
	return "membership_flags"
}

//go:generate mockgen -source=membership_flag_repo.go -destination=mock/membership_flag_repo_mock.go -package=mock
type FlagRepository interface {
	// Get returns nil when the device never observed the account.
	Get(ctx context.Context, deviceID string, accountID int64) (*MembershipFlag, error)
	Save(ctx context.Context, flag *MembershipFlag) error
	// LatestForAccount returns the most recent observation on any device, or nil.
	LatestForAccount(ctx context.Context, accountID int64) (*MembershipFlag, error)
}

type flagRepository struct {
	db *gorm.DB
}

func NewFlagRepository(db *gorm.DB) FlagRepository {
	return &flagRepository{db: db}
}

func (r *flagRepository) Get(ctx context.Context, deviceID string, accountID int64) (*MembershipFlag, error) {
	var f MembershipFlag
	err := r.db.WithContext(ctx).
		Where("device_id = ? AND account_id = ?", deviceID, accountID).
		Take(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *flagRepository) Save(ctx context.Context, flag *MembershipFlag) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "device_id"}, {Name: "account_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"active", "observed_at"}),
		}).
		Create(flag).Error
}

func (r *flagRepository) LatestForAccount(ctx context.Context, accountID int64) (*MembershipFlag, error) {
	var f MembershipFlag
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("observed_at DESC").
		Take(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}
