package consumer

import (
	"context"
	"encoding/json"
	"errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-gatepass/internal/activity"
	activityerrors "go-gatepass/internal/activity/errors"
	"go-gatepass/internal/events"
)

// ConsumeGatePassLifecycle projects created events onto the activity trail
// so the dashboard feed shows the full life of a pass, not just decisions.
func ConsumeGatePassLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	activityService activity.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.gatepass_lifecycle")
	log.Info("gate pass lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("gate pass lifecycle consumer stopped")
				return
			}
			log.Error("fetch gate pass lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.GatePassCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode gatepass_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		err = activityService.Record(ctx, events.GatePassDecidedEvent{
			EventType:  event.EventType,
			RequestID:  event.RequestID,
			GatePassID: event.GatePassID,
			PassNumber: event.PassNumber,
			Action:     events.ActionCreate,
			ActorID:    event.RequesterID,
			ActorRole:  event.RequesterKind,
			ToStatus:   event.Status,
			OccurredAt: event.OccurredAt,
		})
		if err != nil {
			if errors.Is(err, activityerrors.ErrDuplicateActivity) {
				log.Warn("gate pass creation already recorded, skipping",
					zap.String("gatepass_id", event.GatePassID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("record gate pass creation failed",
				zap.String("gatepass_id", event.GatePassID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit gate pass lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("gate pass creation recorded",
			zap.String("gatepass_id", event.GatePassID),
			zap.String("pass_number", event.PassNumber),
		)
	}
}
