// services/autoconf/internal/pulse/estimator.go
package pulse

import (
	"time"

	"serialprobe-go/errcode"
	"serialprobe-go/types"
	"serialprobe-go/x/mathx"
)

// Estimate derives a standard baud rate from a pulse-width sample set.
//
// The shortest observed pulse approximates one bit period: any realistic
// byte pattern contains at least one isolated 0 or 1 bit. The raw rate is
// snapped to the nearest entry of types.StandardBauds and accepted only if
// the entry is within tol (a fraction, e.g. 0.10) of the raw estimate.
//
// Failure modes are errcode.InsufficientSamples and
// errcode.NoRateInTolerance; both are recoverable and the caller falls
// back to the full sweep. The estimate is a heuristic and can misfire on
// idle lines or non-UART traffic.
func Estimate(widths []time.Duration, minSamples int, tol float64) (uint32, error) {
	if len(widths) < minSamples {
		return 0, errcode.InsufficientSamples
	}

	min := widths[0]
	for _, w := range widths[1:] {
		if w < min {
			min = w
		}
	}
	if min <= 0 {
		return 0, errcode.InsufficientSamples
	}

	// bit period ~= min pulse; baud = 1s / bit period.
	raw := mathx.RoundDiv(uint64(time.Second), uint64(min))

	best := types.StandardBauds[0]
	bestDiff := mathx.Abs(int64(best) - int64(raw))
	for _, r := range types.StandardBauds[1:] {
		if d := mathx.Abs(int64(r) - int64(raw)); d < bestDiff {
			best, bestDiff = r, d
		}
	}

	if float64(bestDiff) > tol*float64(raw) {
		return 0, errcode.NoRateInTolerance
	}
	return best, nil
}
