package roster

import "time"

type EntryResponse struct {
	AccountID   int64  `json:"account_id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
	Position    string `json:"position"`
	Phone       string `json:"phone"`
	AvatarRef   string `json:"avatar_ref,omitempty"`
	OnVacation  bool   `json:"on_vacation"`
	HireDate    string `json:"hire_date,omitempty"`
}

type MembershipResponse struct {
	AccountID int64 `json:"account_id"`
	Active    bool  `json:"active"`
	Visible   bool  `json:"visible"`
}

type MembershipEventResponse struct {
	Type      MembershipEventType `json:"type"`
	AccountID int64               `json:"account_id"`
	Active    bool                `json:"active"`
	At        time.Time           `json:"at"`
}

func mapToResponse(e Entry) EntryResponse {
	resp := EntryResponse{
		AccountID:   e.AccountID,
		Email:       e.Email,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		DisplayName: e.DisplayName(),
		Position:    e.Position,
		Phone:       e.Phone,
		AvatarRef:   e.AvatarRef,
		OnVacation:  e.OnVacation,
	}
	if e.HireDate != nil {
		resp.HireDate = e.HireDate.Format(hireDateLayout)
	}
	return resp
}

func mapToListResponse(entries []Entry) []EntryResponse {
	res := make([]EntryResponse, len(entries))
	for i, e := range entries {
		res[i] = mapToResponse(e)
	}
	return res
}
