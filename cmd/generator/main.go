package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/drasi-project/price-feed-generator/cmd/generator/internal/generator"
	"github.com/drasi-project/price-feed-generator/pkg/config"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Tag every line with a run id so overlapping generator runs can be told
	// apart in the ingestion logs.
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	clock := generator.RealClock{}
	rnd := generator.RealRand{Rand: rand.New(rand.NewSource(time.Now().UnixNano()))}

	emitter, cleanup := buildEmitter(logger, cfg, clock)
	defer cleanup()

	sim := generator.NewSimulator(cfg.Generator.Volatility, rnd, clock)
	driver := generator.NewDriver(logger, sim, emitter, generator.DefaultSymbols(), rnd, clock, scheduleFromConfig(cfg))

	// Shutdown hook: first SIGINT/SIGTERM cancels the loop, the driver logs
	// its final status line on the way out.
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received")
		cancel()
	}()

	logger.Info("Starting price generator",
		zap.String("sink", cfg.Generator.Sink),
		zap.String("base_url", cfg.Generator.BaseURL),
		zap.String("source_id", cfg.Generator.SourceID))

	driver.Run(ctx)
}

func buildEmitter(logger *zap.Logger, cfg *config.Config, clock generator.Clock) (generator.Emitter, func()) {
	if cfg.Generator.Sink == config.SinkKafka {
		tc := generator.NewTopicCreator(logger, &generator.RealKafkaDialer{Dialer: kafka.DefaultDialer}, clock)
		tc.Create(context.Background(), cfg.Kafka.Brokers, cfg.Kafka.Topic)

		writer := &kafka.Writer{
			Addr:     kafka.TCP(cfg.Kafka.Brokers...),
			Topic:    cfg.Kafka.Topic,
			Balancer: &kafka.LeastBytes{},
		}
		cleanup := func() {
			if err := writer.Close(); err != nil {
				logger.Error("Error closing Kafka writer", zap.Error(err))
			} else {
				logger.Info("Kafka writer closed cleanly")
			}
		}
		return generator.NewKafkaEmitter(logger, writer, clock), cleanup
	}

	client := &http.Client{Timeout: 10 * time.Second}
	emitter := generator.NewHTTPEmitter(logger, client, cfg.Generator.BaseURL, cfg.Generator.SourceID, clock)
	return emitter, func() {}
}

func scheduleFromConfig(cfg *config.Config) generator.Schedule {
	return generator.Schedule{
		SeedInterval: time.Duration(cfg.Generator.SeedIntervalMs) * time.Millisecond,
		MinCycle:     time.Duration(cfg.Generator.MinCycleSec * float64(time.Second)),
		MaxCycle:     time.Duration(cfg.Generator.MaxCycleSec * float64(time.Second)),
		MinBatch:     cfg.Generator.MinBatch,
		MaxBatch:     cfg.Generator.MaxBatch,
	}
}
