// services/config/profiles.go
package config

// -----------------------------------------------------------------------------
// Embedded profiles
//
// Populate embeddedProfiles at build time (e.g. via code generation) or
// manually during development. Key: profile name. Val: raw JSON settings.
// -----------------------------------------------------------------------------

// Field-proven defaults, spelled out so a profile diff shows intent.
const profileDefault = `{
  "detection_timeout_ms": 5000,
  "detection_poll_us": 10,
  "min_samples": 10,
  "max_samples": 50,
  "tolerance": 0.10,
  "open_timeout_ms": 1000,
  "test_timeout_ms": 1000,
  "min_data_len": 10,
  "monitor_mode": "text"
}`

// Bench profile for chatty links on a desk: shorter windows, hex view.
const profileBench = `{
  "detection_timeout_ms": 2000,
  "test_timeout_ms": 500,
  "monitor_mode": "hex"
}`

var embeddedProfiles = map[string][]byte{
	"default": []byte(profileDefault),
	"bench":   []byte(profileBench),
}
