package levels

import (
	"sort"

	"github.com/rxtech-lab/argo-insight/internal/types"
)

// MinBars is the shortest table that can hold a swing point.
const MinBars = 5

// Detector finds support and resistance prices from swing lows and highs.
type Detector struct {
	// neighbors is the number of bars on each side a swing point must beat
	neighbors int
	maxLevels int
}

// NewDetector creates a detector that looks two bars to each side and keeps
// at most three levels per side.
func NewDetector() *Detector {
	return &Detector{
		neighbors: 2,
		maxLevels: 3,
	}
}

// Detect returns up to three support levels below and three resistance levels
// above the latest close, nearest first. Tables shorter than MinBars yield
// empty lists.
func (d *Detector) Detect(frame types.IndicatorFrame) types.Levels {
	return d.DetectTable(frame.Table)
}

// DetectTable is Detect over a bare bar table.
func (d *Detector) DetectTable(table types.BarTable) types.Levels {
	levels := types.Levels{
		Support:    []float64{},
		Resistance: []float64{},
	}

	n := table.Len()
	if n == 0 {
		return levels
	}

	levels.CurrentPrice = table.Last().Close

	if n < MinBars {
		return levels
	}

	highs := table.Highs()
	lows := table.Lows()

	for i := d.neighbors; i < n-d.neighbors; i++ {
		if d.isSwingHigh(highs, i) && highs[i] > levels.CurrentPrice {
			levels.Resistance = append(levels.Resistance, highs[i])
		}

		if d.isSwingLow(lows, i) && lows[i] < levels.CurrentPrice {
			levels.Support = append(levels.Support, lows[i])
		}
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(levels.Support)))
	sort.Float64s(levels.Resistance)

	levels.Support = truncate(levels.Support, d.maxLevels)
	levels.Resistance = truncate(levels.Resistance, d.maxLevels)

	return levels
}

// isSwingHigh reports whether highs[i] is strictly above every neighbor.
func (d *Detector) isSwingHigh(highs []float64, i int) bool {
	for j := i - d.neighbors; j <= i+d.neighbors; j++ {
		if j != i && highs[j] >= highs[i] {
			return false
		}
	}

	return true
}

// isSwingLow reports whether lows[i] is strictly below every neighbor.
func (d *Detector) isSwingLow(lows []float64, i int) bool {
	for j := i - d.neighbors; j <= i+d.neighbors; j++ {
		if j != i && lows[j] <= lows[i] {
			return false
		}
	}

	return true
}

func truncate(values []float64, limit int) []float64 {
	if len(values) > limit {
		return values[:limit]
	}

	return values
}
