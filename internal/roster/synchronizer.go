package roster

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rinov1/WorkWave/internal/events"
	"github.com/rinov1/WorkWave/internal/messaging/kafka"
	rostererrors "github.com/rinov1/WorkWave/internal/roster/errors"
	"github.com/rinov1/WorkWave/internal/shared/apperror"
	"github.com/rinov1/WorkWave/internal/shared/contextutil"

	"go.uber.org/zap"
)

const defaultResubscribeDelay = 5 * time.Second

// Synchronizer mirrors local account and profile changes into the live roster and keeps
// an in-process snapshot of it.
type Synchronizer struct {
	channel Channel
	flags   FlagRepository
	outbox  kafka.OutboxRepository
	logger  *zap.Logger
	now     func() time.Time

	resubscribeDelay time.Duration

	snapshot  atomic.Pointer[Snapshot]
	readyOnce sync.Once
	ready     chan struct{}

	cacheMu sync.RWMutex
	cached  map[int64]bool

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Synchronizer)

// WithOutbox enables Stage, so staged mutations are published and replayed.
func WithOutbox(outbox kafka.OutboxRepository) Option {
	return func(s *Synchronizer) { s.outbox = outbox }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Synchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) {
		if now != nil {
			s.now = now
		}
	}
}

func WithResubscribeDelay(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.resubscribeDelay = d
		}
	}
}

func NewSynchronizer(channel Channel, flags FlagRepository, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		channel:          channel,
		flags:            flags,
		logger:           zap.L().Named("roster.synchronizer"),
		now:              time.Now,
		resubscribeDelay: defaultResubscribeDelay,
		cached:           make(map[int64]bool),
		ready:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot.Store(NewSnapshot(nil, time.Time{}))
	return s
}

// AddToRoster writes the display fields and marks the entry active.
func (s *Synchronizer) AddToRoster(ctx context.Context, accountID int64, fields DisplayFields) error {
	return s.Push(ctx, AddMutation(accountID, fields, s.now()))
}

// UpdateDisplayFields writes the display fields and never touches the active flag.
func (s *Synchronizer) UpdateDisplayFields(ctx context.Context, accountID int64, fields DisplayFields) error {
	return s.Push(ctx, FieldsMutation(accountID, fields, s.now()))
}

// Remove marks the entry inactive. Local profile and sessions are kept.
func (s *Synchronizer) Remove(ctx context.Context, accountID int64) error {
	return s.Push(ctx, RemoveMutation(accountID, s.now()))
}

// Apply replays a mutation received from the event stream.
func (s *Synchronizer) Apply(ctx context.Context, m Mutation) error {
	return s.applyToChannel(ctx, m)
}

// Stage records m in the outbox as part of tx. Once tx commits the worker publishes it and the
// consumer replays it, so a lost Push is retried. Without an outbox it is a no-op.
func (s *Synchronizer) Stage(ctx context.Context, tx *sql.Tx, m Mutation) error {
	if s.outbox == nil {
		return nil
	}
	event, err := kafka.NewOutboxEvent(
		ctx,
		events.RosterAggregateType,
		strconv.FormatInt(m.AccountID, 10),
		events.RosterMutationEventType,
		events.RosterMutationTopic,
		m.ToEvent(contextutil.GetRequestID(ctx)),
	)
	if err != nil {
		return err
	}

	outbox := s.outbox
	if tx != nil {
		outbox = outbox.WithTx(tx)
	}
	if err := outbox.Create(ctx, event); err != nil {
		s.logger.Error("stage roster mutation",
			zap.Int64("account_id", m.AccountID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Push writes m to the live roster. Failures are reported as ChannelUnavailable.
func (s *Synchronizer) Push(ctx context.Context, m Mutation) error {
	if err := s.applyToChannel(ctx, m); err != nil {
		s.logger.Warn("roster push failed",
			zap.Int64("account_id", m.AccountID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *Synchronizer) applyToChannel(ctx context.Context, m Mutation) error {
	err := m.ApplyTo(ctx, s.channel)
	if err == nil {
		return nil
	}
	if errors.Is(err, rostererrors.ErrChannelUnavailable) {
		return err
	}
	return apperror.WrapWith(rostererrors.ErrChannelUnavailable, err)
}

// Start subscribes to the active roster in the background. Until the first delivery the
// snapshot is empty; failed subscriptions are retried until Stop.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancel != nil {
		return rostererrors.ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(runCtx, s.done)
	return nil
}

func (s *Synchronizer) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		sub, err := s.channel.SubscribeActiveRoster(ctx, s.replaceSnapshot)
		if err == nil {
			<-ctx.Done()
			if err := sub.Close(); err != nil {
				s.logger.Warn("close roster subscription", zap.Error(err))
			}
			return
		}

		s.logger.Warn("roster subscription failed, retrying",
			zap.Duration("delay", s.resubscribeDelay),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.resubscribeDelay):
		}
	}
}

// Stop releases the roster subscription and waits for it to finish.
func (s *Synchronizer) Stop() {
	s.runMu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Synchronizer) replaceSnapshot(entries []Entry) {
	s.snapshot.Store(NewSnapshot(entries, s.now()))
	s.readyOnce.Do(func() { close(s.ready) })
}

// AwaitSnapshot blocks until the first roster delivery after Start.
func (s *Synchronizer) AwaitSnapshot(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Synchronizer) snapshotReceived() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// Snapshot returns the latest active roster. It never returns nil.
func (s *Synchronizer) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// WatchRoster subscribes a caller to full roster deliveries.
func (s *Synchronizer) WatchRoster(ctx context.Context, onChange func([]Entry)) (Subscription, error) {
	return s.channel.SubscribeActiveRoster(ctx, onChange)
}
