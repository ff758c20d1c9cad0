package models

import "time"

// PriceObservation represents a single synthetic market tick for a stock symbol
type PriceObservation struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`          // rounded to 2 decimals, never below 1.0
	PreviousClose float64 `json:"previous_close"` // rounded to 2 decimals
	Volume        int64   `json:"volume"`
	Timestamp     string  `json:"timestamp"` // ISO-8601 local time
}

// Element is the graph-node payload carried inside an Envelope.
type Element struct {
	Type       string           `json:"type"`
	ID         string           `json:"id"`
	Labels     []string         `json:"labels"`
	Properties PriceObservation `json:"properties"`
}

// Envelope is the fixed-shape event the ingestion endpoint expects: one
// observation wrapped as a graph-node update.
type Envelope struct {
	Operation string  `json:"operation"`
	Element   Element `json:"element"`
	Timestamp int64   `json:"timestamp"` // unix epoch nanoseconds
}

// NewEnvelope wraps an observation as an "update" event for the node
// "price_<symbol>" labeled "stock_prices".
func NewEnvelope(obs PriceObservation, now time.Time) Envelope {
	return Envelope{
		Operation: "update",
		Element: Element{
			Type:       "node",
			ID:         "price_" + obs.Symbol,
			Labels:     []string{"stock_prices"},
			Properties: obs,
		},
		Timestamp: now.UnixNano(),
	}
}
