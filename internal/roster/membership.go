package roster

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const flagWriteTimeout = 5 * time.Second

type MembershipEventType string

const (
	// MembershipProvisional carries the flag cached from an earlier run.
	MembershipProvisional MembershipEventType = "provisional"
	// MembershipBaseline is the first live observation; it is not a change.
	MembershipBaseline MembershipEventType = "baseline"
	MembershipGained   MembershipEventType = "gained"
	MembershipLost     MembershipEventType = "lost"
)

type MembershipEvent struct {
	Type      MembershipEventType
	AccountID int64
	Active    bool
	At        time.Time
}

// IsChange reports whether the event should be surfaced as a membership notification.
func (e MembershipEvent) IsChange() bool {
	return e.Type == MembershipGained || e.Type == MembershipLost
}

// WatchMembership follows the signed-in account's active flag on one device. HR accounts
// are always on the roster and get a no-op subscription.
func (s *Synchronizer) WatchMembership(ctx context.Context, deviceID string, accountID int64, isHR bool, onEvent func(MembershipEvent)) (Subscription, error) {
	if isHR {
		return noopSubscription{}, nil
	}

	flag, err := s.flags.Get(ctx, deviceID, accountID)
	if err != nil {
		s.logger.Warn("read cached membership flag",
			zap.String("device_id", deviceID),
			zap.Int64("account_id", accountID),
			zap.Error(err),
		)
	}
	if flag != nil {
		s.remember(accountID, flag.Active)
		onEvent(MembershipEvent{
			Type:      MembershipProvisional,
			AccountID: accountID,
			Active:    flag.Active,
			At:        flag.ObservedAt,
		})
	}

	w := &membershipWatcher{
		owner:     s,
		ctx:       context.WithoutCancel(ctx),
		deviceID:  deviceID,
		accountID: accountID,
		onEvent:   onEvent,
	}
	return s.channel.SubscribeAccountActive(ctx, accountID, w.observe)
}

type membershipWatcher struct {
	owner     *Synchronizer
	ctx       context.Context
	deviceID  string
	accountID int64
	onEvent   func(MembershipEvent)

	mu       sync.Mutex
	observed bool
	last     bool
}

func (w *membershipWatcher) observe(active bool) {
	w.mu.Lock()
	first := !w.observed
	flipped := w.observed && w.last != active
	w.observed, w.last = true, active
	w.mu.Unlock()

	s := w.owner
	at := s.now()
	s.remember(w.accountID, active)
	w.persist(active, at)

	event := MembershipEvent{AccountID: w.accountID, Active: active, At: at}
	switch {
	case first:
		event.Type = MembershipBaseline
	case flipped && active:
		event.Type = MembershipGained
	case flipped:
		event.Type = MembershipLost
	default:
		return
	}
	w.onEvent(event)
}

func (w *membershipWatcher) persist(active bool, at time.Time) {
	ctx, cancel := context.WithTimeout(w.ctx, flagWriteTimeout)
	defer cancel()

	err := w.owner.flags.Save(ctx, &MembershipFlag{
		DeviceID:   w.deviceID,
		AccountID:  w.accountID,
		Active:     active,
		ObservedAt: at,
	})
	if err != nil {
		w.owner.logger.Warn("persist membership flag",
			zap.String("device_id", w.deviceID),
			zap.Int64("account_id", w.accountID),
			zap.Error(err),
		)
	}
}

func (s *Synchronizer) remember(accountID int64, active bool) {
	s.cacheMu.Lock()
	s.cached[accountID] = active
	s.cacheMu.Unlock()
}

// CachedActive answers from the live snapshot once one has been delivered. Before that it
// falls back to the in-process cache, then the persisted flag.
func (s *Synchronizer) CachedActive(ctx context.Context, accountID int64) bool {
	if s.snapshotReceived() {
		return s.Snapshot().Contains(accountID)
	}

	s.cacheMu.RLock()
	active, ok := s.cached[accountID]
	s.cacheMu.RUnlock()
	if ok {
		return active
	}

	if s.flags == nil {
		return false
	}
	flag, err := s.flags.LatestForAccount(ctx, accountID)
	if err != nil {
		s.logger.Warn("read persisted membership flag",
			zap.Int64("account_id", accountID),
			zap.Error(err),
		)
	}
	return flag != nil && flag.Active
}

// IsRosterVisibleTo reports whether the account may see the employee roster.
func (s *Synchronizer) IsRosterVisibleTo(ctx context.Context, accountID int64, isHR bool) bool {
	return isHR || s.CachedActive(ctx, accountID)
}
