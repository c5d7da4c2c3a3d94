package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-gatepass/internal/activity"
	"go-gatepass/internal/events"
	"go-gatepass/internal/messaging/kafka/consumer"
	"go-gatepass/internal/shared/connection"
)

func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	activityRepo := activity.NewRepository(gormDB)
	activityService := activity.NewService(activityRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Keputusan approval dan verifikasi gerbang
	decisionConsumer := activity.NewDecisionConsumer(
		kafkaBroker,
		"go-gatepass-activity",
		activityService,
		logger,
	)
	defer decisionConsumer.Close()
	decisionConsumer.Start(ctx)

	// Event pembuatan pass
	lifecycleReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.GatePassCreatedTopic,
		GroupID:        "go-gatepass-activity",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer lifecycleReader.Close()

	go consumer.ConsumeGatePassLifecycle(ctx, lifecycleReader, activityService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
