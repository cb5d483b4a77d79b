package roster

import (
	"context"
	"time"
)

// Subscription is a live listener handle. Close must not be called from inside the
// listener's own callback.
type Subscription interface {
	Close() error
}

// Channel is the remote live roster store shared by every device.
type Channel interface {
	// UpsertEntry creates or merges an entry. A nil active leaves the flag untouched.
	UpsertEntry(ctx context.Context, accountID int64, fields DisplayFields, active *bool, at time.Time) error
	// SetActive flips only the active flag.
	SetActive(ctx context.Context, accountID int64, active bool, at time.Time) error
	// SubscribeActiveRoster delivers the full sorted list of active entries on subscribe
	// and after every change. A failed refresh delivers an empty list.
	SubscribeActiveRoster(ctx context.Context, onChange func([]Entry)) (Subscription, error)
	// SubscribeAccountActive delivers one account's active flag on subscribe and on every change.
	SubscribeAccountActive(ctx context.Context, accountID int64, onChange func(bool)) (Subscription, error)
}

type noopSubscription struct{}

func (noopSubscription) Close() error { return nil }
