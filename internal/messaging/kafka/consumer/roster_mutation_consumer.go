package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rinov1/WorkWave/internal/events"
	"github.com/rinov1/WorkWave/internal/roster"
	rostererrors "github.com/rinov1/WorkWave/internal/roster/errors"
	"github.com/rinov1/WorkWave/internal/shared/contextutil"

	"go.uber.org/zap"
)

const DefaultRetryDelay = 2 * time.Second

type MutationApplier interface {
	Apply(ctx context.Context, m roster.Mutation) error
}

// ConsumeRosterMutations replays roster mutations onto the remote channel.
// A message is committed once applied; while the channel is unavailable the same message is
// retried every retryDelay.
func ConsumeRosterMutations(
	ctx context.Context,
	reader MessageReader,
	applier MutationApplier,
	logger *zap.Logger,
	retryDelay time.Duration,
) {
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}

	log := logger.Named("kafka.consumer.roster_mutation")
	log.Info("roster mutation consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("roster mutation consumer stopped")
				return
			}
			log.Error("fetch roster mutation message failed", zap.Error(err))
			continue
		}

		var event events.RosterMutationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil || event.AccountID <= 0 {
			log.Error("decode roster mutation event failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := contextutil.WithRequestID(ctx, headerValue(msg, "request_id"))
		mutation := roster.MutationFromEvent(event)
		for {
			err = applier.Apply(msgCtx, mutation)
			if !errors.Is(err, rostererrors.ErrChannelUnavailable) {
				break
			}
			log.Warn("roster channel unavailable, retrying",
				zap.Int64("account_id", event.AccountID),
				zap.Error(err),
			)
			select {
			case <-ctx.Done():
				log.Info("roster mutation consumer stopped")
				return
			case <-time.After(retryDelay):
			}
		}
		if err != nil {
			log.Error("apply roster mutation failed, skipping",
				zap.Int64("account_id", event.AccountID),
				zap.Error(err),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit roster mutation message failed", zap.Error(err))
			continue
		}

		log.Debug("roster mutation applied", zap.Int64("account_id", event.AccountID))
	}
}
