package activity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	activityerrors "go-gatepass/internal/activity/errors"
	"go-gatepass/internal/events"
)

type DecisionConsumer struct {
	reader  *kafka.Reader
	service Service
	logger  *zap.Logger
}

func NewDecisionConsumer(
	broker string,
	groupID string,
	service Service,
	logger ...*zap.Logger,
) *DecisionConsumer {
	l := zap.L().Named("activity.consumer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("activity.consumer")
	}

	return &DecisionConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{broker},
			Topic:          events.GatePassDecidedTopic,
			GroupID:        groupID,
			CommitInterval: time.Second,
			StartOffset:    kafka.FirstOffset,
		}),
		service: service,
		logger:  l,
	}
}

func (c *DecisionConsumer) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("consume gatepass_decided failed", zap.Error(err))
				continue
			}

			var event events.GatePassDecidedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				c.logger.Error("decode gatepass_decided event failed", zap.Error(err))
				if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
					c.logger.Error("commit invalid gatepass_decided event failed", zap.Error(commitErr))
				}
				continue
			}

			if err := c.service.Record(ctx, event); err != nil {
				// Redelivered event is safe to skip.
				if errors.Is(err, activityerrors.ErrDuplicateActivity) {
					c.logger.Warn("gate activity already recorded, skipping",
						zap.String("gatepass_id", event.GatePassID),
						zap.String("action", event.Action),
					)
					if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
						c.logger.Error("commit duplicate gatepass_decided event failed", zap.Error(commitErr))
					}
					continue
				}

				c.logger.Error("record gate activity failed",
					zap.String("gatepass_id", event.GatePassID),
					zap.String("action", event.Action),
					zap.Error(err),
				)
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("commit gatepass_decided event failed", zap.Error(err))
				continue
			}

			c.logger.Info("gate activity recorded from decision event",
				zap.String("gatepass_id", event.GatePassID),
				zap.String("action", event.Action),
				zap.String("to_status", event.ToStatus),
			)
		}
	}()
}

func (c *DecisionConsumer) Close() error {
	return c.reader.Close()
}
