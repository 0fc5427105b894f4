// services/config/config.go
package config

import (
	"time"

	"github.com/andreyvit/tinyjson"

	"serialprobe-go/errcode"
	"serialprobe-go/services/autoconf"
)

// Settings is the tunable surface of one probe run: the search options
// plus the monitor's forwarding mode.
type Settings struct {
	Options autoconf.Options
	Mode    autoconf.MonitorMode
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{Options: autoconf.DefaultOptions(), Mode: autoconf.ModeText}
}

// EmbeddedLookup resolves built-in profiles by name. Overridable so tests
// and generated code can supply their own table.
var EmbeddedLookup = func(profile string) ([]byte, bool) {
	b, ok := embeddedProfiles[profile]
	return b, ok
}

// Load resolves an embedded profile and parses it.
func Load(profile string) (Settings, error) {
	raw, ok := EmbeddedLookup(profile)
	if !ok || len(raw) == 0 {
		return Default(), &errcode.E{C: errcode.Error, Op: "config.load", Msg: "no profile " + profile}
	}
	return Parse(raw)
}

// Parse overlays a flat JSON settings object onto the defaults. Unknown
// keys are ignored; out-of-range values are clamped later by the engine.
// Durations are integer fields with a unit suffix in the key name.
func Parse(raw []byte) (Settings, error) {
	m, ok := parseObject(raw)
	if !ok {
		return Default(), &errcode.E{C: errcode.Error, Op: "config.parse", Msg: "not a JSON object"}
	}

	s := Default()
	o := &s.Options

	overlayDuration(m, "detection_timeout_ms", time.Millisecond, &o.DetectionTimeout)
	overlayDuration(m, "detection_poll_us", time.Microsecond, &o.DetectionPoll)
	overlayInt(m, "min_samples", &o.MinSamples)
	overlayInt(m, "max_samples", &o.MaxSamples)
	overlayFloat(m, "tolerance", &o.Tolerance)

	overlayDuration(m, "open_timeout_ms", time.Millisecond, &o.OpenTimeout)
	overlayDuration(m, "test_timeout_ms", time.Millisecond, &o.TestTimeout)
	overlayInt(m, "min_data_len", &o.MinDataLen)
	overlayDuration(m, "accum_poll_ms", time.Millisecond, &o.AccumPoll)

	overlayFloat(m, "printable_threshold", &o.Classifier.Threshold)

	if v, ok := strField(m, "monitor_mode"); ok {
		switch v {
		case "hex":
			s.Mode = autoconf.ModeHex
		case "text":
			s.Mode = autoconf.ModeText
		default:
			return Default(), &errcode.E{C: errcode.Error, Op: "config.parse", Msg: "bad monitor_mode " + v}
		}
	}

	return s, nil
}

// parseObject contains tinyjson decode failures; a malformed settings
// blob must degrade to an error, not a panic.
func parseObject(raw []byte) (m map[string]any, ok bool) {
	defer func() {
		if recover() != nil {
			m, ok = nil, false
		}
	}()
	r := tinyjson.Raw(raw)
	v := r.Value()
	r.EnsureEOF()
	m, ok = v.(map[string]any)
	return m, ok
}

func numField(m map[string]any, key string) (float64, bool) {
	v, present := m[key]
	if !present {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func strField(m map[string]any, key string) (string, bool) {
	v, present := m[key]
	if !present {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func overlayDuration(m map[string]any, key string, unit time.Duration, dst *time.Duration) {
	if n, ok := numField(m, key); ok && n > 0 {
		*dst = time.Duration(n) * unit
	}
}

func overlayInt(m map[string]any, key string, dst *int) {
	if n, ok := numField(m, key); ok && n > 0 {
		*dst = int(n)
	}
}

func overlayFloat(m map[string]any, key string, dst *float64) {
	if n, ok := numField(m, key); ok && n > 0 {
		*dst = n
	}
}
