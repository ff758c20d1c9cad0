package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/drasi-project/price-feed-generator/pkg/models"
)

// KafkaEmitter publishes the same envelopes to a Kafka topic instead of the
// HTTP source, keyed by symbol so per-symbol ordering is preserved across
// partitions.
type KafkaEmitter struct {
	logger *zap.Logger
	writer KafkaWriter
	clock  Clock
}

func NewKafkaEmitter(logger *zap.Logger, writer KafkaWriter, clock Clock) *KafkaEmitter {
	return &KafkaEmitter{
		logger: logger,
		writer: writer,
		clock:  clock,
	}
}

func (e *KafkaEmitter) Emit(ctx context.Context, obs models.PriceObservation) error {
	event := models.NewEnvelope(obs, e.clock.Now())

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	err = e.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(obs.Symbol),
		Value: payload,
	})
	if err != nil {
		e.logger.Error("Kafka write error",
			zap.String("symbol", obs.Symbol),
			zap.Error(err))
		return err
	}

	e.logger.Info("Sent price update",
		zap.String("symbol", obs.Symbol),
		zap.Float64("price", obs.Price))
	return nil
}
