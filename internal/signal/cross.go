package signal

import (
	"github.com/moznion/go-optional"
)

// pair is the value of two lines on one bar. It is only valid when both are defined.
type pair struct {
	fast, slow float64
	ok         bool
}

func newPair(fast, slow optional.Option[float64]) pair {
	if fast.IsNone() || slow.IsNone() {
		return pair{}
	}

	return pair{fast: fast.Unwrap(), slow: slow.Unwrap(), ok: true}
}

// crossedAbove reports whether fast moved from at-or-below slow to strictly above it.
func crossedAbove(prev, curr pair) bool {
	return prev.ok && curr.ok && prev.fast <= prev.slow && curr.fast > curr.slow
}

// crossedBelow reports whether fast moved from at-or-above slow to strictly below it.
func crossedBelow(prev, curr pair) bool {
	return prev.ok && curr.ok && prev.fast >= prev.slow && curr.fast < curr.slow
}
