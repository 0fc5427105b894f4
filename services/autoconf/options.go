// services/autoconf/options.go
package autoconf

import (
	"time"

	"serialprobe-go/services/autoconf/internal/textscan"
	"serialprobe-go/x/mathx"
)

// Options centralises the timings, bounds and policies of one search run.
// The zero value is unusable; start from DefaultOptions.
type Options struct {
	// Baud detection window.
	DetectionTimeout time.Duration // overall pulse-collection window
	DetectionPoll    time.Duration // line level poll interval
	MinSamples       int           // fewer pulses => detection inconclusive
	MaxSamples       int           // stop collecting once reached
	MinPulse         time.Duration // pulses at or below are noise
	MaxPulse         time.Duration // pulses at or above are idle gaps
	Tolerance        float64       // standard-rate acceptance fraction

	// Per-candidate test. Accumulation is always bounded by TestTimeout,
	// even when the link stays silent.
	OpenTimeout time.Duration // handed to the port factory
	TestTimeout time.Duration // per-candidate accumulation bound
	MinDataLen  int           // classify as soon as this much arrived
	AccumPoll   time.Duration // sleep between buffered-data polls

	// Text plausibility policy.
	Classifier textscan.Classifier
}

// DefaultOptions mirrors the field-proven constants: 5 s detection window,
// 10/50 sample bounds, 10 µs polls, 10 % tolerance, 1 s per candidate,
// 10-byte minimum, permissive 50 % printable policy.
func DefaultOptions() Options {
	return Options{
		DetectionTimeout: 5 * time.Second,
		DetectionPoll:    10 * time.Microsecond,
		MinSamples:       10,
		MaxSamples:       50,
		MinPulse:         time.Microsecond,
		MaxPulse:         time.Second,
		Tolerance:        0.10,

		OpenTimeout: time.Second,
		TestTimeout: time.Second,
		MinDataLen:  10,
		AccumPoll:   10 * time.Millisecond,

		Classifier: textscan.Default(),
	}
}

// normalize clamps nonsense values back into working ranges.
func (o *Options) normalize() {
	o.DetectionTimeout = mathx.Clamp(o.DetectionTimeout, 100*time.Millisecond, time.Minute)
	o.DetectionPoll = mathx.Clamp(o.DetectionPoll, time.Microsecond, time.Millisecond)
	o.MinSamples = mathx.Clamp(o.MinSamples, 1, 1000)
	o.MaxSamples = mathx.Clamp(o.MaxSamples, o.MinSamples, 10000)
	if o.MinPulse <= 0 {
		o.MinPulse = time.Microsecond
	}
	if o.MaxPulse <= o.MinPulse {
		o.MaxPulse = time.Second
	}
	if o.Tolerance <= 0 || o.Tolerance >= 1 {
		o.Tolerance = 0.10
	}
	o.OpenTimeout = mathx.Clamp(o.OpenTimeout, 10*time.Millisecond, 10*time.Second)
	o.TestTimeout = mathx.Clamp(o.TestTimeout, 10*time.Millisecond, 30*time.Second)
	o.MinDataLen = mathx.Clamp(o.MinDataLen, 1, 4096)
	o.AccumPoll = mathx.Clamp(o.AccumPoll, time.Millisecond, time.Second)
	if o.Classifier.Allow == nil || o.Classifier.Threshold <= 0 {
		o.Classifier = textscan.Default()
	}
}
