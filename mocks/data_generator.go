package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-insight/internal/types"
)

// DataGenerator generates daily bar histories for tests.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// Symbol is the security identifier (e.g., "2330", "AAPL")
	Symbol string
	// StartDate is the date of the first bar
	StartDate time.Time
	// Count is the number of trading days to generate
	Count int
	// InitialPrice is the first open
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily move)
	Volatility float64
	// Drift is the expected daily return (-0.01 to 0.01 for bearish to bullish)
	Drift float64
	// VolumeBase is the average daily volume
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Count:          120,
		InitialPrice:   100.0,
		Volatility:     0.015,
		Drift:          0.0,
		VolumeBase:     1_000_000,
		VolumeVariance: 0.3,
	}
}

// Generate creates daily bars following a geometric Brownian motion. Weekend
// dates are skipped and every bar satisfies Low <= Open, Close <= High.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Bar {
	bars := make([]types.Bar, 0, config.Count)
	currentPrice := config.InitialPrice
	date := types.Day(config.StartDate)

	for len(bars) < config.Count {
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			date = date.AddDate(0, 0, 1)

			continue
		}

		open := currentPrice

		// Box-Muller transform for a standard normal draw
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(1-u1)) * math.Cos(2*math.Pi*u2)

		closePrice := open * (1 + config.Volatility*z + config.Drift)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, closePrice) + highExtension
		low := math.Min(open, closePrice) - lowExtension

		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volume := config.VolumeBase * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars = append(bars, types.Bar{
			Date:   date,
			Open:   roundToDecimals(open, 2),
			High:   roundToDecimals(high, 2),
			Low:    roundToDecimals(low, 2),
			Close:  roundToDecimals(closePrice, 2),
			Volume: math.Round(volume),
		})

		currentPrice = closePrice
		date = date.AddDate(0, 0, 1)
	}

	return bars
}

// GenerateTable wraps Generate in a validated bar table. It panics on invalid
// output, which only happens with a broken config.
func (g *DataGenerator) GenerateTable(config GeneratorConfig) types.BarTable {
	table, err := types.NewBarTable(config.Symbol, g.Generate(config))
	if err != nil {
		panic(err)
	}

	return table
}

// BarsFromCloses builds consecutive daily bars from a close series. Open equals
// the previous close, High and Low extend the open/close range by spread.
func BarsFromCloses(closes []float64, spread float64) []types.Bar {
	bars := make([]types.Bar, len(closes))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}

		bars[i] = types.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   open,
			High:   math.Max(open, c) + spread,
			Low:    math.Max(math.Min(open, c)-spread, 0),
			Close:  c,
			Volume: 1000,
		}
	}

	return bars
}

// TableFromCloses is BarsFromCloses wrapped in a bar table.
func TableFromCloses(symbol string, closes []float64, spread float64) types.BarTable {
	table, err := types.NewBarTable(symbol, BarsFromCloses(closes, spread))
	if err != nil {
		panic(err)
	}

	return table
}

// LinearCloses returns n closes starting at start and moving by step per bar.
func LinearCloses(n int, start, step float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + step*float64(i)
	}

	return closes
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
