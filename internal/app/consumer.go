package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rinov1/WorkWave/internal/config"
	"github.com/rinov1/WorkWave/internal/events"
	"github.com/rinov1/WorkWave/internal/messaging/kafka/consumer"
	"github.com/rinov1/WorkWave/internal/roster"
	"github.com/rinov1/WorkWave/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const rosterConsumerGroup = "workwave-roster-replay"

// RunConsumer replays roster mutations from Kafka onto the Redis roster.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries)
	if err != nil {
		return err
	}
	defer rdb.Close()

	channel := roster.NewRedisChannel(rdb, roster.WithChannelLogger(logger))
	// Replays are not re-recorded, so the synchronizer needs neither flags nor an outbox.
	synchronizer := roster.NewSynchronizer(channel, nil, roster.WithLogger(logger))

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.RosterMutationTopic,
		GroupID:        rosterConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	consumer.ConsumeRosterMutations(ctx, reader, synchronizer, logger, consumer.DefaultRetryDelay)

	logger.Info("consumer shutting down")
	return nil
}
