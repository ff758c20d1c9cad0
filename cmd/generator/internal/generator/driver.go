package generator

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Schedule holds the timing knobs of the two-phase emission loop.
type Schedule struct {
	SeedInterval time.Duration // pause between sends during the seed pass
	MinCycle     time.Duration // lower bound of the pause between update batches
	MaxCycle     time.Duration
	MinBatch     int // lower bound of symbols updated per batch
	MaxBatch     int
}

func DefaultSchedule() Schedule {
	return Schedule{
		SeedInterval: 100 * time.Millisecond,
		MinCycle:     1 * time.Second,
		MaxCycle:     3 * time.Second,
		MinBatch:     3,
		MaxBatch:     8,
	}
}

// Driver owns the symbol table and runs the emission loop: one seed pass over
// every symbol, then batches of random symbols forever. It is single-threaded;
// the table is mutated in place between ticks to create price drift.
type Driver struct {
	logger  *zap.Logger
	sim     *Simulator
	emitter Emitter
	rand    Rand
	clock   Clock
	sched   Schedule

	symbols []string           // seed order, fixed
	prices  map[string]float64 // current base price per symbol

	sent   int64
	failed int64
}

func NewDriver(
	logger *zap.Logger,
	sim *Simulator,
	emitter Emitter,
	seeds []SeedPrice,
	rnd Rand,
	clock Clock,
	sched Schedule,
) *Driver {
	symbols := make([]string, 0, len(seeds))
	prices := make(map[string]float64, len(seeds))
	for _, s := range seeds {
		symbols = append(symbols, s.Symbol)
		prices[s.Symbol] = s.Base
	}

	return &Driver{
		logger:  logger,
		sim:     sim,
		emitter: emitter,
		rand:    rnd,
		clock:   clock,
		sched:   sched,
		symbols: symbols,
		prices:  prices,
	}
}

// Run executes the seed pass and then the continuous update loop until ctx is
// cancelled, logging a final status line on the way out.
func (d *Driver) Run(ctx context.Context) {
	d.logger.Info("Generator started",
		zap.Int("symbols", len(d.symbols)),
		zap.Float64("volatility", d.sim.volatility))

	d.Seed(ctx)
	d.loop(ctx)

	d.logger.Info("Price generator stopped",
		zap.Int64("sent", d.sent),
		zap.Int64("failed", d.failed))
}

// Seed emits one tick per symbol in seed order, pausing briefly between sends
// so the downstream source is not hit with a burst on startup.
func (d *Driver) Seed(ctx context.Context) {
	d.logger.Info("Sending initial prices", zap.Int("symbols", len(d.symbols)))

	for _, symbol := range d.symbols {
		if ctx.Err() != nil {
			return
		}
		d.emit(ctx, symbol)
		d.clock.Sleep(d.sched.SeedInterval)
	}
}

func (d *Driver) loop(ctx context.Context) {
	d.logger.Info("Starting continuous price updates")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		for _, symbol := range d.pickBatch() {
			// Drift the stored base price slightly so consecutive ticks
			// for a symbol wander instead of oscillating around a constant.
			d.prices[symbol] *= 1 + d.uniform(-0.001, 0.001)
			d.emit(ctx, symbol)
		}

		d.clock.Sleep(d.cyclePause())
	}
}

func (d *Driver) emit(ctx context.Context, symbol string) {
	obs := d.sim.Observe(symbol, d.prices[symbol])
	// Best-effort: the emitter already reported the failure, just count it.
	if err := d.emitter.Emit(ctx, obs); err != nil {
		d.failed++
		return
	}
	d.sent++
}

// pickBatch samples a random number of distinct symbols, without replacement.
func (d *Driver) pickBatch() []string {
	n := d.sched.MinBatch + d.rand.Intn(d.sched.MaxBatch-d.sched.MinBatch+1)
	if n > len(d.symbols) {
		n = len(d.symbols)
	}

	batch := make([]string, 0, n)
	for _, i := range d.rand.Perm(len(d.symbols))[:n] {
		batch = append(batch, d.symbols[i])
	}
	return batch
}

func (d *Driver) cyclePause() time.Duration {
	lo, hi := float64(d.sched.MinCycle), float64(d.sched.MaxCycle)
	return time.Duration(d.uniform(lo, hi))
}

func (d *Driver) uniform(lo, hi float64) float64 {
	return lo + d.rand.Float64()*(hi-lo)
}
