package employee

import (
	"strings"
	"time"
)

const hireDateLayout = "2006-01-02"

type AddToRosterRequest struct {
	AccountID int64  `json:"account_id" binding:"required,gt=0"`
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Position  string `json:"position" binding:"max=150"`
	Phone     string `json:"phone" binding:"max=50"`
	HireDate  string `json:"hire_date"`
}

// UpdateProfileRequest changes only the fields that are present. Email is accepted only to be
// rejected: the profile keeps a copy of the account email.
type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name" binding:"omitempty,max=100"`
	LastName   *string `json:"last_name" binding:"omitempty,max=100"`
	Phone      *string `json:"phone" binding:"omitempty,max=50"`
	Email      *string `json:"email" binding:"omitempty,email"`
	AvatarRef  *string `json:"avatar_ref"`
	Position   *string `json:"position" binding:"omitempty,max=150"`
	OnVacation *bool   `json:"on_vacation"`
	HireDate   *string `json:"hire_date"`
}

func (r UpdateProfileRequest) touchesHROnlyFields() bool {
	return r.Position != nil || r.OnVacation != nil || r.HireDate != nil
}

type EmployeeResponse struct {
	AccountID    int64  `json:"account_id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	DisplayName  string `json:"display_name"`
	Position     string `json:"position"`
	Phone        string `json:"phone"`
	AvatarRef    string `json:"avatar_ref"`
	OnVacation   bool   `json:"on_vacation"`
	HireDate     string `json:"hire_date,omitempty"`
	TenureYears  int    `json:"tenure_years"`
	Active       bool   `json:"active"`
	RosterSynced *bool  `json:"roster_synced,omitempty"`
}

type CandidateResponse struct {
	AccountID int64     `json:"account_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// TenureYears counts whole 365.25-day years since hireDate.
func TenureYears(hireDate *time.Time, now time.Time) int {
	if hireDate == nil || hireDate.IsZero() || !now.After(*hireDate) {
		return 0
	}
	const year = 365.25 * 24 * float64(time.Hour)
	return int(float64(now.Sub(*hireDate)) / year)
}

func parseHireDate(raw string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(hireDateLayout, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}

func mapToResponse(p Profile, now time.Time) EmployeeResponse {
	resp := EmployeeResponse{
		AccountID:   p.AccountID,
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DisplayName: p.DisplayFields().DisplayName(),
		Position:    p.Position,
		Phone:       p.Phone,
		AvatarRef:   p.AvatarRef,
		OnVacation:  p.OnVacation,
		TenureYears: TenureYears(p.HireDate, now),
	}
	if p.HireDate != nil {
		resp.HireDate = p.HireDate.Format(hireDateLayout)
	}
	return resp
}

func mapToListResponse(rows []Listing, now time.Time) []EmployeeResponse {
	res := make([]EmployeeResponse, len(rows))
	for i, row := range rows {
		p := row.Profile
		if p.Email == "" {
			p.Email = row.AccountEmail
		}
		res[i] = mapToResponse(p, now)
	}
	return res
}
