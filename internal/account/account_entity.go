package account

import (
	"strings"
	"time"
)

type Account struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Email        string    `gorm:"column:email;type:varchar(255);not null"`
	PasswordHash string    `gorm:"column:password_hash;type:text;not null"`
	PasswordSalt string    `gorm:"column:password_salt;type:text;not null"`
	IsHR         bool      `gorm:"column:is_hr;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz"`
}

func (Account) TableName() string {
	return "accounts"
}

// NormalizeEmail is the canonical stored form of an email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
