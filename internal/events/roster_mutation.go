package events

import "time"

const (
	RosterMutationTopic     = "hr.roster.mutations.v1"
	RosterMutationEventType = "roster_mutation"
	RosterAggregateType     = "roster_entry"
)

// RosterFields is the wire form of the display projection mirrored into the live roster.
type RosterFields struct {
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Position   string     `json:"position"`
	Phone      string     `json:"phone"`
	AvatarRef  string     `json:"avatar_ref"`
	OnVacation bool       `json:"on_vacation"`
	HireDate   *time.Time `json:"hire_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// RosterMutationEvent replays one roster write. Nil Fields or Active means that part is untouched.
type RosterMutationEvent struct {
	EventType  string        `json:"event_type"`
	RequestID  string        `json:"request_id,omitempty"`
	AccountID  int64         `json:"account_id"`
	Fields     *RosterFields `json:"fields,omitempty"`
	Active     *bool         `json:"active,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}
