package roster

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	rostererrors "github.com/rinov1/WorkWave/internal/roster/errors"
	"github.com/rinov1/WorkWave/internal/shared/apperror"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultKeyPrefix      = "roster"
	defaultResyncInterval = 30 * time.Second
	maxWriteAttempts      = 5
	hireDateLayout        = "2006-01-02"
)

const (
	fieldAccountID  = "account_id"
	fieldEmail      = "email"
	fieldFirstName  = "first_name"
	fieldLastName   = "last_name"
	fieldSortKey    = "sort_key"
	fieldPosition   = "position"
	fieldPhone      = "phone"
	fieldAvatarRef  = "avatar_ref"
	fieldOnVacation = "on_vacation"
	fieldHireDate   = "hire_date"
	fieldActive     = "active"
	fieldCreatedAt  = "created_at"
	fieldUpdatedAt  = "updated_at"
	fieldFieldsAt   = "fields_at"
	fieldActiveAt   = "active_at"
)

// RedisChannel keeps one hash per entry, a set of active ids and a pub/sub change feed.
// Display fields and the active flag are versioned separately so an older replay never
// overrides a newer write.
type RedisChannel struct {
	rdb            *redis.Client
	prefix         string
	resyncInterval time.Duration
	logger         *zap.Logger
}

type RedisChannelOption func(*RedisChannel)

func WithKeyPrefix(prefix string) RedisChannelOption {
	return func(c *RedisChannel) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithResyncInterval sets how often subscriptions re-read the store to cover missed notifications.
func WithResyncInterval(d time.Duration) RedisChannelOption {
	return func(c *RedisChannel) {
		if d > 0 {
			c.resyncInterval = d
		}
	}
}

func WithChannelLogger(logger *zap.Logger) RedisChannelOption {
	return func(c *RedisChannel) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewRedisChannel(rdb *redis.Client, opts ...RedisChannelOption) *RedisChannel {
	c := &RedisChannel{
		rdb:            rdb,
		prefix:         defaultKeyPrefix,
		resyncInterval: defaultResyncInterval,
		logger:         zap.L().Named("roster.channel"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisChannel) entryKey(accountID int64) string {
	return fmt.Sprintf("%s:entry:%d", c.prefix, accountID)
}

func (c *RedisChannel) activeKey() string {
	return c.prefix + ":active"
}

func (c *RedisChannel) changesChannel() string {
	return c.prefix + ":changes"
}

func (c *RedisChannel) UpsertEntry(ctx context.Context, accountID int64, fields DisplayFields, active *bool, at time.Time) error {
	return c.write(ctx, accountID, &fields, active, at)
}

func (c *RedisChannel) SetActive(ctx context.Context, accountID int64, active bool, at time.Time) error {
	return c.write(ctx, accountID, nil, &active, at)
}

func (c *RedisChannel) write(ctx context.Context, accountID int64, fields *DisplayFields, active *bool, at time.Time) error {
	key := c.entryKey(accountID)
	atMs := at.UnixMilli()

	txf := func(tx *redis.Tx) error {
		current, err := tx.HMGet(ctx, key, fieldFieldsAt, fieldActiveAt, fieldCreatedAt).Result()
		if err != nil {
			return err
		}
		fieldsAt := parseInt(current[0])
		activeAt := parseInt(current[1])
		hasCreated := current[2] != nil

		applyFields := fields != nil && atMs >= fieldsAt
		applyActive := active != nil && atMs >= activeAt
		if !applyFields && !applyActive {
			c.logger.Debug("stale roster write ignored",
				zap.Int64("account_id", accountID),
				zap.Int64("at", atMs),
			)
			return nil
		}

		values := []any{
			fieldAccountID, strconv.FormatInt(accountID, 10),
			fieldUpdatedAt, atMs,
		}
		if !hasCreated {
			created := atMs
			if fields != nil && !fields.CreatedAt.IsZero() {
				created = fields.CreatedAt.UnixMilli()
			}
			values = append(values, fieldCreatedAt, created)
		}
		if applyFields {
			values = append(values, encodeFields(*fields)...)
			values = append(values, fieldFieldsAt, atMs)
		}
		if applyActive {
			values = append(values, fieldActive, formatBool(*active), fieldActiveAt, atMs)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, values...)
			if applyActive {
				if *active {
					pipe.SAdd(ctx, c.activeKey(), accountID)
				} else {
					pipe.SRem(ctx, c.activeKey(), accountID)
				}
			}
			pipe.Publish(ctx, c.changesChannel(), accountID)
			return nil
		})
		return err
	}

	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		err = c.rdb.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return apperror.WrapWith(rostererrors.ErrChannelUnavailable, err)
	}
	return nil
}

// ActiveEntries reads the current active roster sorted for display.
func (c *RedisChannel) ActiveEntries(ctx context.Context) ([]Entry, error) {
	ids, err := c.rdb.SMembers(ctx, c.activeKey()).Result()
	if err != nil {
		return nil, apperror.WrapWith(rostererrors.ErrChannelUnavailable, err)
	}
	if len(ids) == 0 {
		return []Entry{}, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, c.prefix+":entry:"+id)
		}
		return nil
	})
	if err != nil {
		return nil, apperror.WrapWith(rostererrors.ErrChannelUnavailable, err)
	}

	entries := make([]Entry, 0, len(ids))
	for _, cmd := range cmds {
		entry, ok := decodeEntry(cmd.Val())
		if !ok || !entry.Active {
			continue
		}
		entries = append(entries, entry)
	}
	SortEntries(entries)
	return entries, nil
}

// AccountActive reports one account's active flag. Unknown accounts are inactive.
func (c *RedisChannel) AccountActive(ctx context.Context, accountID int64) (bool, error) {
	v, err := c.rdb.HGet(ctx, c.entryKey(accountID), fieldActive).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, apperror.WrapWith(rostererrors.ErrChannelUnavailable, err)
	}
	return v == "1", nil
}

func (c *RedisChannel) SubscribeActiveRoster(ctx context.Context, onChange func([]Entry)) (Subscription, error) {
	deliver := func(ctx context.Context) {
		entries, err := c.ActiveEntries(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("active roster refresh failed", zap.Error(err))
			entries = []Entry{}
		}
		onChange(entries)
	}
	return c.subscribe(ctx, func(string) bool { return true }, deliver)
}

func (c *RedisChannel) SubscribeAccountActive(ctx context.Context, accountID int64, onChange func(bool)) (Subscription, error) {
	want := strconv.FormatInt(accountID, 10)

	var (
		delivered bool
		last      bool
	)
	deliver := func(ctx context.Context) {
		active, err := c.AccountActive(ctx, accountID)
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Warn("membership refresh failed",
					zap.Int64("account_id", accountID),
					zap.Error(err),
				)
			}
			return
		}
		if delivered && active == last {
			return
		}
		delivered, last = true, active
		onChange(active)
	}
	return c.subscribe(ctx, func(payload string) bool { return payload == want }, deliver)
}

// subscribe confirms the pub/sub subscription, then runs deliver once and again for every
// matching notification and on every resync tick. All deliveries run on one goroutine.
func (c *RedisChannel) subscribe(ctx context.Context, match func(payload string) bool, deliver func(context.Context)) (Subscription, error) {
	pubsub := c.rdb.Subscribe(ctx, c.changesChannel())
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, apperror.WrapWith(rostererrors.ErrChannelUnavailable, err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &redisSubscription{
		cancel: cancel,
		pubsub: pubsub,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.done)

		messages := pubsub.Channel()
		ticker := time.NewTicker(c.resyncInterval)
		defer ticker.Stop()

		deliver(subCtx)
		for {
			select {
			case <-subCtx.Done():
				return
			case <-ticker.C:
				deliver(subCtx)
			case msg, ok := <-messages:
				if !ok {
					return
				}
				pending := match(msg.Payload)
				// Coalesce a burst into one refresh.
			drain:
				for {
					select {
					case more, ok := <-messages:
						if !ok {
							break drain
						}
						pending = pending || match(more.Payload)
					default:
						break drain
					}
				}
				if pending && subCtx.Err() == nil {
					deliver(subCtx)
				}
			}
		}
	}()

	return sub, nil
}

type redisSubscription struct {
	cancel context.CancelFunc
	pubsub *redis.PubSub
	done   chan struct{}

	once sync.Once
	err  error
}

func (s *redisSubscription) Close() error {
	s.once.Do(func() {
		s.cancel()
		s.err = s.pubsub.Close()
		<-s.done
	})
	return s.err
}

func encodeFields(f DisplayFields) []any {
	values := []any{
		fieldFirstName, f.FirstName,
		fieldLastName, f.LastName,
		fieldSortKey, f.SortKey(),
		fieldPosition, f.Position,
		fieldPhone, f.Phone,
		fieldAvatarRef, f.AvatarRef,
		fieldOnVacation, formatBool(f.OnVacation),
	}
	if f.Email != "" {
		values = append(values, fieldEmail, f.Email)
	}
	if f.HireDate != nil {
		values = append(values, fieldHireDate, f.HireDate.Format(hireDateLayout))
	} else {
		values = append(values, fieldHireDate, "")
	}
	return values
}

func decodeEntry(h map[string]string) (Entry, bool) {
	id, err := strconv.ParseInt(h[fieldAccountID], 10, 64)
	if err != nil {
		return Entry{}, false
	}
	e := Entry{
		AccountID: id,
		DisplayFields: DisplayFields{
			Email:      h[fieldEmail],
			FirstName:  h[fieldFirstName],
			LastName:   h[fieldLastName],
			Position:   h[fieldPosition],
			Phone:      h[fieldPhone],
			AvatarRef:  h[fieldAvatarRef],
			OnVacation: h[fieldOnVacation] == "1",
			CreatedAt:  parseMillis(h[fieldCreatedAt]),
		},
		Active:    h[fieldActive] == "1",
		UpdatedAt: parseMillis(h[fieldUpdatedAt]),
	}
	if raw := h[fieldHireDate]; raw != "" {
		if d, err := time.Parse(hireDateLayout, raw); err == nil {
			e.HireDate = &d
		}
	}
	return e, true
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func parseInt(v any) int64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseMillis(s string) time.Time {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n == 0 {
		return time.Time{}
	}
	return time.UnixMilli(n).UTC()
}
