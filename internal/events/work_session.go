package events

import "time"

const (
	WorkSessionTopic         = "attendance.sessions.v1"
	WorkSessionOpenedEvent   = "session_opened"
	WorkSessionClosedEvent   = "session_closed"
	WorkSessionAggregateType = "work_session"
)

type WorkSessionEvent struct {
	EventType  string     `json:"event_type"`
	RequestID  string     `json:"request_id,omitempty"`
	SessionID  int64      `json:"session_id"`
	AccountID  int64      `json:"account_id"`
	OfficeID   string     `json:"office_id"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}
