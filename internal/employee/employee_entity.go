package employee

import (
	"time"

	"github.com/rinov1/WorkWave/internal/roster"
)

// Profile is the employee card of an account; at most one per account.
type Profile struct {
	AccountID  int64      `gorm:"column:account_id;primaryKey;autoIncrement:false"`
	FirstName  string     `gorm:"column:first_name;type:varchar(100);not null"`
	LastName   string     `gorm:"column:last_name;type:varchar(100);not null"`
	Position   string     `gorm:"column:position;type:varchar(150);not null"`
	Phone      string     `gorm:"column:phone;type:varchar(50);not null"`
	AvatarRef  string     `gorm:"column:avatar_ref;type:text;not null"`
	Email      string     `gorm:"column:email;type:varchar(255);not null"`
	OnVacation bool       `gorm:"column:on_vacation;not null"`
	HireDate   *time.Time `gorm:"column:hire_date;type:date"`
	CreatedAt  time.Time  `gorm:"column:created_at;type:timestamptz"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;type:timestamptz"`
}

func (Profile) TableName() string {
	return "profiles"
}

// DisplayFields is the projection mirrored into the live roster.
func (p Profile) DisplayFields() roster.DisplayFields {
	return roster.DisplayFields{
		Email:      p.Email,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Position:   p.Position,
		Phone:      p.Phone,
		AvatarRef:  p.AvatarRef,
		OnVacation: p.OnVacation,
		HireDate:   p.HireDate,
		CreatedAt:  p.CreatedAt,
	}
}

// Listing is a non-HR account joined with its profile.
type Listing struct {
	Profile
	AccountEmail string `gorm:"column:account_email"`
}
