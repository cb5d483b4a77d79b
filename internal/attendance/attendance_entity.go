package attendance

import "time"

type WorkSession struct {
	ID        int64      `gorm:"column:id;primaryKey"`
	AccountID int64      `gorm:"column:account_id;not null;index"`
	StartTime time.Time  `gorm:"column:start_time;type:timestamptz;not null"`
	EndTime   *time.Time `gorm:"column:end_time;type:timestamptz"`
	OfficeID  string     `gorm:"column:office_id;type:varchar(255);not null"`
}

func (WorkSession) TableName() string {
	return "work_sessions"
}

func (w WorkSession) IsOpen() bool {
	return w.EndTime == nil
}

// Duration is zero for an open session.
func (w WorkSession) Duration() time.Duration {
	if w.EndTime == nil {
		return 0
	}
	return w.EndTime.Sub(w.StartTime)
}

// SessionWithEmail is a session joined with its account email.
type SessionWithEmail struct {
	WorkSession
	Email string `gorm:"column:email"`
}
