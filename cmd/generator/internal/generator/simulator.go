package generator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/drasi-project/price-feed-generator/pkg/models"
)

const (
	// DefaultVolatility is the standard deviation of the price perturbation,
	// expressed as a fraction of the base price.
	DefaultVolatility = 0.02

	minPrice  = 1.0
	minVolume = 1_000_000
	maxVolume = 50_000_000
)

// Simulator fabricates synthetic price observations around a base price.
type Simulator struct {
	volatility float64
	rand       Rand
	clock      Clock
}

func NewSimulator(volatility float64, rnd Rand, clock Clock) *Simulator {
	if volatility <= 0 {
		volatility = DefaultVolatility
	}
	return &Simulator{
		volatility: volatility,
		rand:       rnd,
		clock:      clock,
	}
}

// Observe produces a fresh tick for symbol around the given base price.
// The price is a normal perturbation N(0, volatility*base) of the base,
// floored at 1.0; previous close and volume are independent random draws.
// Every positive base yields a valid observation.
func (s *Simulator) Observe(symbol string, base float64) models.PriceObservation {
	change := s.rand.NormFloat64() * s.volatility * base
	price := base + change
	if price < minPrice {
		price = minPrice
	}

	previousClose := base * (1 + s.uniform(-0.05, 0.05))

	baseVolume := minVolume + s.rand.Int63n(maxVolume-minVolume+1)
	volume := int64(float64(baseVolume) * (1 + s.uniform(-0.3, 0.3)))

	return models.PriceObservation{
		Symbol:        symbol,
		Price:         round2(price),
		PreviousClose: round2(previousClose),
		Volume:        volume,
		Timestamp:     s.clock.Now().Format(time.RFC3339Nano),
	}
}

func (s *Simulator) uniform(lo, hi float64) float64 {
	return lo + s.rand.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
