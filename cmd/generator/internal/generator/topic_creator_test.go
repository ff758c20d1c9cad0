package generator_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/drasi-project/price-feed-generator/cmd/generator/internal/generator"
	"github.com/drasi-project/price-feed-generator/cmd/generator/internal/testutils"
)

func TestTopicCreator_Flow(t *testing.T) {
	mockDialer := &testutils.MockKafkaDialer{} // Will auto-create ConnSpy
	mockClock := &testutils.MockClock{}

	tc := generator.NewTopicCreator(zap.NewNop(), mockDialer, mockClock)

	tc.Create(context.Background(), []string{"broker:9092"}, "market_ticks")

	if mockDialer.ConnSpy == nil {
		t.Fatal("Dialer was never called")
	}

	if len(mockDialer.ConnSpy.CreatedTopics) == 0 {
		t.Fatal("No topics created")
	}

	if mockDialer.ConnSpy.CreatedTopics[0] != "market_ticks" {
		t.Errorf("Expected topic 'market_ticks', got %s", mockDialer.ConnSpy.CreatedTopics[0])
	}
}
