// services/autoconf/internal/pulse/sampler.go
package pulse

import (
	"time"

	"serialprobe-go/services/autoconf/probecore"
)

// Sampler measures edge-to-edge pulse widths on the receive line by
// polling the line level. All waits are bounded by Timeout; Measure never
// blocks past it and returns whatever was collected, possibly nothing.
type Sampler struct {
	Line  probecore.EdgeLine
	Clock probecore.Clock

	Timeout    time.Duration // overall collection window
	Poll       time.Duration // level poll interval
	MaxSamples int
	MinPulse   time.Duration // exclusive lower bound; shorter is noise
	MaxPulse   time.Duration // exclusive upper bound; longer is idle
}

// Measure collects up to MaxSamples pulse widths. Pulses outside
// (MinPulse, MaxPulse) are discarded.
func (s *Sampler) Measure() []time.Duration {
	deadline := s.Clock.Now() + s.Timeout.Nanoseconds()
	widths := make([]time.Duration, 0, s.MaxSamples)

	level := s.Line.Get()
	for {
		// Wait for an edge.
		level, _ = s.waitEdge(level, deadline)
		start := s.Clock.Now()
		if start >= deadline {
			return widths
		}

		// Wait for the next edge; the gap is one pulse.
		var end int64
		level, end = s.waitEdge(level, deadline)
		if end >= deadline {
			return widths
		}

		w := time.Duration(end - start)
		if w > s.MinPulse && w < s.MaxPulse {
			widths = append(widths, w)
		}
		if len(widths) >= s.MaxSamples {
			return widths
		}
	}
}

// waitEdge polls until the line leaves level or the deadline passes.
// Returns the new level and the time of the observation.
func (s *Sampler) waitEdge(level bool, deadline int64) (bool, int64) {
	for {
		now := s.Clock.Now()
		if now >= deadline {
			return level, now
		}
		if v := s.Line.Get(); v != level {
			return v, now
		}
		s.Clock.Sleep(s.Poll)
	}
}
