package generator

// SeedPrice is one entry of the fixed symbol universe.
type SeedPrice struct {
	Symbol string
	Base   float64
}

// seedPrices is the built-in symbol universe. Order matters: the seed pass
// emits one tick per symbol in exactly this order.
var seedPrices = []SeedPrice{
	{"AAPL", 175.50},
	{"MSFT", 405.25},
	{"GOOGL", 140.75},
	{"TSLA", 250.30},
	{"NVDA", 880.25},
	{"META", 485.50},
	{"AMZN", 178.90},
	{"AMD", 165.30},
	{"INTC", 42.80},
	{"JPM", 195.80},
	{"BAC", 34.25},
	{"WFC", 48.90},
	{"GS", 425.60},
	{"V", 280.45},
	{"JNJ", 155.20},
	{"PFE", 28.75},
	{"UNH", 525.30},
	{"CVS", 72.45},
	{"XOM", 105.80},
	{"CVX", 145.60},
	{"DIS", 92.15},
	{"NKE", 98.40},
	{"BA", 215.70},
	{"CAT", 285.30},
}

// DefaultSymbols returns a copy of the built-in symbol universe.
func DefaultSymbols() []SeedPrice {
	out := make([]SeedPrice, len(seedPrices))
	copy(out, seedPrices)
	return out
}
