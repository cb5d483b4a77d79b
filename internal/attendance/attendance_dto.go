package attendance

import "time"

const dateLayout = "2006-01-02"

type ScanRequest struct {
	Code string `json:"code"`
}

type SessionResponse struct {
	ID        int64      `json:"id"`
	AccountID int64      `json:"account_id"`
	OfficeID  string     `json:"office_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Open      bool       `json:"open"`
}

type ClockInResponse struct {
	Session     SessionResponse `json:"session"`
	AlreadyOpen bool            `json:"already_open"`
}

type CurrentResponse struct {
	Session *SessionResponse `json:"session"`
}

type AccountSummaryResponse struct {
	AccountID    int64     `json:"account_id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	SessionCount int       `json:"session_count"`
	TotalMinutes int64     `json:"total_minutes"`
	Total        string    `json:"total"`
	FirstStart   time.Time `json:"first_start"`
	LastEnd      time.Time `json:"last_end"`

	total time.Duration
}

type DaySummaryResponse struct {
	Date         string                   `json:"date"`
	TimeZone     string                   `json:"time_zone"`
	From         time.Time                `json:"from"`
	To           time.Time                `json:"to"`
	Accounts     []AccountSummaryResponse `json:"accounts"`
	TotalMinutes int64                    `json:"total_minutes"`
	Total        string                   `json:"total"`
}

func mapToResponse(w WorkSession) SessionResponse {
	return SessionResponse{
		ID:        w.ID,
		AccountID: w.AccountID,
		OfficeID:  w.OfficeID,
		StartTime: w.StartTime,
		EndTime:   w.EndTime,
		Open:      w.IsOpen(),
	}
}
