// services/autoconf/internal/pulse/pulse_test.go
package pulse

import (
	"testing"
	"time"

	"serialprobe-go/errcode"
)

// fakeClock advances only when the code under test sleeps, which makes
// the busy-wait loops deterministic.
type fakeClock struct {
	now int64
}

func (c *fakeClock) Now() int64            { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now += int64(d) }

// scriptedLine toggles its level at the scheduled times.
type scriptedLine struct {
	clock *fakeClock
	edges []int64 // nanosecond timestamps, ascending
}

func (l *scriptedLine) Get() bool {
	level := false
	for _, e := range l.edges {
		if l.clock.now >= e {
			level = !level
		}
	}
	return level
}

func us(n int64) int64 { return n * 1000 }

func newSampler(clock *fakeClock, line *scriptedLine) Sampler {
	return Sampler{
		Line:       line,
		Clock:      clock,
		Timeout:    5 * time.Millisecond,
		Poll:       time.Microsecond,
		MaxSamples: 50,
		MinPulse:   20 * time.Microsecond,
		MaxPulse:   time.Millisecond,
	}
}

func TestSamplerRejectsOutOfBoundPulses(t *testing.T) {
	clock := &fakeClock{}
	// Pulses: 10us (too short), 50us (kept), 2ms would exceed the window,
	// so use 900us (kept) and 5us (too short).
	line := &scriptedLine{clock: clock, edges: []int64{
		us(100), us(110), // 10us pulse
		us(200), us(250), // 50us pulse
		us(300), us(1200), // 900us pulse
		us(1300), us(1305), // 5us pulse
	}}
	s := newSampler(clock, line)

	widths := s.Measure()
	if len(widths) != 2 {
		t.Fatalf("expected 2 in-range pulses, got %d: %v", len(widths), widths)
	}
	for _, w := range widths {
		if w <= s.MinPulse || w >= s.MaxPulse {
			t.Errorf("pulse %v outside (%v, %v)", w, s.MinPulse, s.MaxPulse)
		}
	}
}

func TestSamplerTimeoutReturnsPartial(t *testing.T) {
	clock := &fakeClock{}
	line := &scriptedLine{clock: clock, edges: []int64{us(100), us(150)}} // one pulse, then idle
	s := newSampler(clock, line)

	widths := s.Measure()
	if len(widths) != 1 {
		t.Fatalf("expected 1 pulse before timeout, got %d", len(widths))
	}
	if clock.now > int64(s.Timeout)+int64(s.Poll) {
		t.Errorf("sampler overran its window: now=%d timeout=%d", clock.now, int64(s.Timeout))
	}
}

func TestSamplerSilentLineReturnsEmpty(t *testing.T) {
	clock := &fakeClock{}
	line := &scriptedLine{clock: clock}
	s := newSampler(clock, line)

	if widths := s.Measure(); len(widths) != 0 {
		t.Fatalf("expected no pulses on a silent line, got %v", widths)
	}
}

func TestSamplerStopsAtMaxSamples(t *testing.T) {
	clock := &fakeClock{}
	var edges []int64
	for i := int64(0); i < 40; i++ {
		edges = append(edges, us(100+50*i))
	}
	line := &scriptedLine{clock: clock, edges: edges}
	s := newSampler(clock, line)
	s.MaxSamples = 5

	if widths := s.Measure(); len(widths) != 5 {
		t.Fatalf("expected MaxSamples=5 pulses, got %d", len(widths))
	}
}

// ---- estimator ----

func manyWidths(w time.Duration, n int) []time.Duration {
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = w + time.Duration(i%3)*time.Microsecond
	}
	return out
}

func TestEstimateInsufficientSamples(t *testing.T) {
	widths := manyWidths(52*time.Microsecond, 9)
	if _, err := Estimate(widths, 10, 0.1); errcode.Of(err) != errcode.InsufficientSamples {
		t.Fatalf("expected insufficient_samples, got %v", err)
	}
	if _, err := Estimate(nil, 10, 0.1); errcode.Of(err) != errcode.InsufficientSamples {
		t.Fatalf("expected insufficient_samples for empty set, got %v", err)
	}
}

func TestEstimate115200(t *testing.T) {
	// 8.68us bit period; raw estimate 115207.
	widths := manyWidths(8680*time.Nanosecond, 12)
	baud, err := Estimate(widths, 10, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if baud != 115200 {
		t.Fatalf("expected 115200, got %d", baud)
	}
}

func TestEstimate19200(t *testing.T) {
	// 52us bit period; raw estimate ~19231.
	widths := manyWidths(52*time.Microsecond, 10)
	baud, err := Estimate(widths, 10, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if baud != 19200 {
		t.Fatalf("expected 19200, got %d", baud)
	}
}

func TestEstimateNoRateInTolerance(t *testing.T) {
	// 3us bit period -> raw 333333, not within 10% of any table entry.
	widths := manyWidths(3*time.Microsecond, 10)
	if _, err := Estimate(widths, 10, 0.1); errcode.Of(err) != errcode.NoRateInTolerance {
		t.Fatalf("expected no_rate_in_tolerance, got %v", err)
	}
}

func TestEstimateIdempotent(t *testing.T) {
	widths := manyWidths(8680*time.Nanosecond, 15)
	a, errA := Estimate(widths, 10, 0.1)
	b, errB := Estimate(widths, 10, 0.1)
	if a != b || (errA == nil) != (errB == nil) {
		t.Fatalf("estimator not idempotent: (%d,%v) vs (%d,%v)", a, errA, b, errB)
	}
}
