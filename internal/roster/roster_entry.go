package roster

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rinov1/WorkWave/internal/events"
)

// DisplayFields is the part of Account and Profile mirrored into the live roster.
type DisplayFields struct {
	Email      string
	FirstName  string
	LastName   string
	Position   string
	Phone      string
	AvatarRef  string
	OnVacation bool
	HireDate   *time.Time
	// CreatedAt is the account creation time; it is only written when the entry is new.
	CreatedAt time.Time
}

// SortKey is the lowercase last name, or the lowercase email when no last name is set.
func (f DisplayFields) SortKey() string {
	if ln := strings.TrimSpace(f.LastName); ln != "" {
		return strings.ToLower(ln)
	}
	return strings.ToLower(strings.TrimSpace(f.Email))
}

// DisplayName joins first and last name and falls back to the email.
func (f DisplayFields) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(f.FirstName) + " " + strings.TrimSpace(f.LastName))
	if name != "" {
		return name
	}
	return f.Email
}

type Entry struct {
	AccountID int64
	DisplayFields
	Active    bool
	UpdatedAt time.Time
}

// SortEntries orders by sort key, then email, then account id.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ki, kj := entries[i].SortKey(), entries[j].SortKey()
		if ki != kj {
			return ki < kj
		}
		ei, ej := strings.ToLower(entries[i].Email), strings.ToLower(entries[j].Email)
		if ei != ej {
			return ei < ej
		}
		return entries[i].AccountID < entries[j].AccountID
	})
}

// Snapshot is an immutable view of the active roster. A nil *Snapshot behaves as empty.
type Snapshot struct {
	entries    []Entry
	index      map[int64]int
	receivedAt time.Time
}

func NewSnapshot(entries []Entry, receivedAt time.Time) *Snapshot {
	cp := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Active {
			cp = append(cp, e)
		}
	}
	idx := make(map[int64]int, len(cp))
	for i, e := range cp {
		idx[e.AccountID] = i
	}
	return &Snapshot{entries: cp, index: idx, receivedAt: receivedAt}
}

func (s *Snapshot) Entries() []Entry {
	if s == nil {
		return nil
	}
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Snapshot) Contains(accountID int64) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[accountID]
	return ok
}

func (s *Snapshot) Entry(accountID int64) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	i, ok := s.index[accountID]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

func (s *Snapshot) ReceivedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.receivedAt
}

// Mutation is one roster write. Nil Fields or Active leaves that part of the entry untouched.
type Mutation struct {
	AccountID int64
	Fields    *DisplayFields
	Active    *bool
	At        time.Time
}

// AddMutation writes the fields and always activates the entry.
func AddMutation(accountID int64, fields DisplayFields, at time.Time) Mutation {
	active := true
	return Mutation{AccountID: accountID, Fields: &fields, Active: &active, At: at}
}

// FieldsMutation writes the fields and leaves the active flag alone.
func FieldsMutation(accountID int64, fields DisplayFields, at time.Time) Mutation {
	return Mutation{AccountID: accountID, Fields: &fields, At: at}
}

func RemoveMutation(accountID int64, at time.Time) Mutation {
	inactive := false
	return Mutation{AccountID: accountID, Active: &inactive, At: at}
}

// ApplyTo replays the mutation on ch.
func (m Mutation) ApplyTo(ctx context.Context, ch Channel) error {
	switch {
	case m.Fields != nil:
		return ch.UpsertEntry(ctx, m.AccountID, *m.Fields, m.Active, m.At)
	case m.Active != nil:
		return ch.SetActive(ctx, m.AccountID, *m.Active, m.At)
	default:
		return nil
	}
}

func (m Mutation) ToEvent(requestID string) events.RosterMutationEvent {
	ev := events.RosterMutationEvent{
		EventType:  events.RosterMutationEventType,
		RequestID:  requestID,
		AccountID:  m.AccountID,
		Active:     m.Active,
		OccurredAt: m.At.UTC(),
	}
	if m.Fields != nil {
		ev.Fields = &events.RosterFields{
			Email:      m.Fields.Email,
			FirstName:  m.Fields.FirstName,
			LastName:   m.Fields.LastName,
			Position:   m.Fields.Position,
			Phone:      m.Fields.Phone,
			AvatarRef:  m.Fields.AvatarRef,
			OnVacation: m.Fields.OnVacation,
			HireDate:   m.Fields.HireDate,
			CreatedAt:  m.Fields.CreatedAt,
		}
	}
	return ev
}

func MutationFromEvent(ev events.RosterMutationEvent) Mutation {
	m := Mutation{
		AccountID: ev.AccountID,
		Active:    ev.Active,
		At:        ev.OccurredAt,
	}
	if ev.Fields != nil {
		m.Fields = &DisplayFields{
			Email:      ev.Fields.Email,
			FirstName:  ev.Fields.FirstName,
			LastName:   ev.Fields.LastName,
			Position:   ev.Fields.Position,
			Phone:      ev.Fields.Phone,
			AvatarRef:  ev.Fields.AvatarRef,
			OnVacation: ev.Fields.OnVacation,
			HireDate:   ev.Fields.HireDate,
			CreatedAt:  ev.Fields.CreatedAt,
		}
	}
	return m
}
