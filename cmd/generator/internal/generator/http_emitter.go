package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/drasi-project/price-feed-generator/pkg/models"
)

// cap on how much of an error response body ends up in the log
const maxErrorBody = 4096

// HTTPEmitter posts envelopes to the ingestion endpoint
// POST <base_url>/sources/<source_id>/events. No retries, no backoff:
// every send is independent and failures are only logged.
type HTTPEmitter struct {
	logger   *zap.Logger
	client   Doer
	endpoint string
	clock    Clock
}

func NewHTTPEmitter(logger *zap.Logger, client Doer, baseURL, sourceID string, clock Clock) *HTTPEmitter {
	return &HTTPEmitter{
		logger:   logger,
		client:   client,
		endpoint: fmt.Sprintf("%s/sources/%s/events", strings.TrimRight(baseURL, "/"), sourceID),
		clock:    clock,
	}
}

func (e *HTTPEmitter) Emit(ctx context.Context, obs models.PriceObservation) error {
	event := models.NewEnvelope(obs, e.clock.Now())

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Error("Failed to send price update",
			zap.String("symbol", obs.Symbol),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		e.logger.Warn("Price update rejected",
			zap.String("symbol", obs.Symbol),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	// Drain so the connection can be reused
	io.Copy(io.Discard, resp.Body)

	e.logger.Info("Sent price update",
		zap.String("symbol", obs.Symbol),
		zap.Float64("price", obs.Price))
	return nil
}
