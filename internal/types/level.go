package types

import "github.com/moznion/go-optional"

type LevelKind string

const (
	LevelKindSupport    LevelKind = "support"
	LevelKindResistance LevelKind = "resistance"
)

// Level is a single support or resistance price.
type Level struct {
	Kind  LevelKind `json:"kind"`
	Price float64   `json:"price"`
}

// Levels are the support prices below and resistance prices above the latest
// close, nearest first.
type Levels struct {
	Support      []float64 `json:"support"`
	Resistance   []float64 `json:"resistance"`
	CurrentPrice float64   `json:"current_price"`
}

// NearestSupport returns the highest support below the current price.
func (l Levels) NearestSupport() optional.Option[float64] {
	if len(l.Support) == 0 {
		return optional.None[float64]()
	}

	return optional.Some(l.Support[0])
}

// NearestResistance returns the lowest resistance above the current price.
func (l Levels) NearestResistance() optional.Option[float64] {
	if len(l.Resistance) == 0 {
		return optional.None[float64]()
	}

	return optional.Some(l.Resistance[0])
}

// All returns every level tagged with its kind, resistance first.
func (l Levels) All() []Level {
	out := make([]Level, 0, len(l.Support)+len(l.Resistance))
	for _, price := range l.Resistance {
		out = append(out, Level{Kind: LevelKindResistance, Price: price})
	}

	for _, price := range l.Support {
		out = append(out, Level{Kind: LevelKindSupport, Price: price})
	}

	return out
}
