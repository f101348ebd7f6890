package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/config"
	"github.com/tuanvumaihuynh/product-catalog/internal/event"
	"github.com/tuanvumaihuynh/product-catalog/internal/http"
	"github.com/tuanvumaihuynh/product-catalog/internal/log"
	"github.com/tuanvumaihuynh/product-catalog/internal/relay"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/mq"
	"github.com/tuanvumaihuynh/product-catalog/internal/telemetry"
	"github.com/tuanvumaihuynh/product-catalog/pkg/cmdutil"
	"github.com/tuanvumaihuynh/product-catalog/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running catalog application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log   config.Log
		HTTP  config.HTTP
		Relay config.Relay
		Kafka config.Kafka
		Otel  config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	var producer mq.Producer = mq.NewLogProducer(logger)
	var consumer mq.Consumer
	if cfg.Kafka.Enabled() {
		kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
		if err != nil {
			return fmt.Errorf("error creating kafka producer: %w", err)
		}
		defer kafkaProducer.Close()
		producer = kafkaProducer

		kafkaConsumer, err := mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
		if err != nil {
			return fmt.Errorf("error creating kafka consumer: %w", err)
		}
		consumer = kafkaConsumer
	} else {
		logger.InfoContext(ctx, "kafka is not configured, product events are written to the log")
	}

	productValidator := catalog.NewValidator(validator.MustNewDefaultValidator())
	productRepository := repository.NewProductRepository()
	outboxMsgRepository := repository.NewOutboxMsgRepository()

	productService := service.NewProductService(productValidator, productRepository, outboxMsgRepository)

	httpSvc := http.New(cfg.HTTP, logger, productService)
	httpCleanup, err := httpSvc.Run(ctx)
	if err != nil {
		return fmt.Errorf("error running http service: %w", err)
	}
	logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	if consumer != nil {
		cleanup, err := runEventService(ctx, logger, consumer, httpCleanup)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "event service started")

		wg.Go(func() {
			<-interruptChan

			logger.InfoContext(ctx, "event service is shutting down")
			cleanup()

			logger.InfoContext(ctx, "event service is stopped")
		})
	}

	wg.Go(func() {
		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := httpCleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	wg.Go(func() {
		svc := relay.NewService(cfg.Relay, logger, outboxMsgRepository, producer)
		cleanup := svc.Run(ctx)
		logger.InfoContext(ctx, "relay service started")

		<-interruptChan

		logger.InfoContext(ctx, "relay service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "relay service is stopped")
	})

	wg.Wait()

	return nil
}

// runEventService starts consuming product events. The http service is
// already serving at this point, so it is shut down when the consumer fails
// to start.
func runEventService(
	ctx context.Context,
	logger *slog.Logger,
	consumer mq.Consumer,
	httpCleanup http.CleanupFunc,
) (event.CleanupFunc, error) {
	cleanup, err := event.New(logger, consumer).Run(ctx)
	if err != nil {
		if cerr := httpCleanup(ctx); cerr != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", cerr))
		}
		return nil, fmt.Errorf("error running event service: %w", err)
	}

	return cleanup, nil
}
