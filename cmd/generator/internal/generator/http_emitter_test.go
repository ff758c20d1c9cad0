package generator_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/drasi-project/price-feed-generator/cmd/generator/internal/generator"
	"github.com/drasi-project/price-feed-generator/cmd/generator/internal/testutils"
	"github.com/drasi-project/price-feed-generator/pkg/models"
)

func sampleObservation() models.PriceObservation {
	return models.PriceObservation{
		Symbol:        "AAPL",
		Price:         175.42,
		PreviousClose: 174.88,
		Volume:        12_345_678,
		Timestamp:     "2025-01-01T09:30:00-05:00",
	}
}

func TestHTTPEmitter_Success(t *testing.T) {
	var received models.Envelope
	var gotPath, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("Invalid envelope JSON: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	clock := &testutils.MockClock{CurrentTime: time.Unix(1700000000, 123)}

	emitter := generator.NewHTTPEmitter(logger, server.Client(), server.URL, "price-feed", clock)

	obs := sampleObservation()
	if err := emitter.Emit(context.Background(), obs); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	if gotPath != "/sources/price-feed/events" {
		t.Errorf("Expected path /sources/price-feed/events, got %s", gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("Expected application/json, got %s", gotContentType)
	}

	// Envelope shape
	if received.Operation != "update" {
		t.Errorf("Expected operation update, got %s", received.Operation)
	}
	if received.Element.Type != "node" {
		t.Errorf("Expected element type node, got %s", received.Element.Type)
	}
	if received.Element.ID != "price_AAPL" {
		t.Errorf("Expected element id price_AAPL, got %s", received.Element.ID)
	}
	if len(received.Element.Labels) != 1 || received.Element.Labels[0] != "stock_prices" {
		t.Errorf("Expected labels [stock_prices], got %v", received.Element.Labels)
	}
	if received.Element.Properties != obs {
		t.Errorf("Observation mangled in transit: %+v", received.Element.Properties)
	}
	if received.Timestamp != clock.CurrentTime.UnixNano() {
		t.Errorf("Expected envelope timestamp %d, got %d", clock.CurrentTime.UnixNano(), received.Timestamp)
	}

	// Success line must carry symbol and price
	entries := logs.FilterMessage("Sent price update").All()
	if len(entries) != 1 {
		t.Fatalf("Expected one success log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["symbol"] != "AAPL" {
		t.Errorf("Expected symbol field AAPL, got %v", fields["symbol"])
	}
	if fields["price"] != 175.42 {
		t.Errorf("Expected price field 175.42, got %v", fields["price"])
	}
}

func TestHTTPEmitter_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("ingestion unavailable"))
	}))
	defer server.Close()

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	emitter := generator.NewHTTPEmitter(logger, server.Client(), server.URL, "price-feed", &testutils.MockClock{})

	err := emitter.Emit(context.Background(), sampleObservation())
	if err == nil {
		t.Fatal("Expected error for HTTP 500")
	}
	if !strings.Contains(err.Error(), strconv.Itoa(http.StatusInternalServerError)) {
		t.Errorf("Expected status code in error, got %v", err)
	}

	entries := logs.FilterMessage("Price update rejected").All()
	if len(entries) != 1 {
		t.Fatalf("Expected one rejection log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusInternalServerError) {
		t.Errorf("Expected status field 500, got %v", fields["status"])
	}
	if fields["body"] != "ingestion unavailable" {
		t.Errorf("Expected response body in log, got %v", fields["body"])
	}
}

func TestHTTPEmitter_TransportError(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	doer := &testutils.MockDoer{Err: errors.New("connection refused")}
	emitter := generator.NewHTTPEmitter(logger, doer, "http://localhost:9000", "price-feed", &testutils.MockClock{})

	err := emitter.Emit(context.Background(), sampleObservation())
	if err == nil {
		t.Fatal("Expected transport error")
	}

	entries := logs.FilterMessage("Failed to send price update").All()
	if len(entries) != 1 {
		t.Fatalf("Expected one failure log, got %d", len(entries))
	}
	if entries[0].ContextMap()["symbol"] != "AAPL" {
		t.Errorf("Expected symbol field in failure log, got %v", entries[0].ContextMap())
	}
}
