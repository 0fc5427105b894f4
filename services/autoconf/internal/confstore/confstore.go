// services/autoconf/internal/confstore/confstore.go
package confstore

import (
	"github.com/andreyvit/tinyjson"

	"serialprobe-go/errcode"
	"serialprobe-go/services/autoconf/probecore"
	"serialprobe-go/types"
	"serialprobe-go/x/conv"
)

// DefaultKey is the record key for the last known-good configuration.
const DefaultKey = "serial_config"

// Store persists the last configuration that passed the text check.
// Records are flat JSON maps with exactly the fields baud_rate, data_bits,
// parity, stop_bits. Parity is the nullable enum null=none, 0=even, 1=odd.
type Store struct {
	KV  probecore.KV
	Key string // DefaultKey if empty
}

func (s *Store) key() string {
	if s.Key == "" {
		return DefaultKey
	}
	return s.Key
}

// Load returns the persisted configuration, or ok=false when the record is
// absent, unreadable, or missing required fields. A partial or corrupt
// record is never returned.
func (s *Store) Load() (types.SerialConfig, bool) {
	raw, found := s.KV.ReadRecord(s.key())
	if !found || len(raw) == 0 {
		return types.SerialConfig{}, false
	}
	m, ok := parseRecord(raw)
	if !ok {
		return types.SerialConfig{}, false
	}

	baud, ok := fieldUint(m, "baud_rate")
	if !ok || baud == 0 {
		return types.SerialConfig{}, false
	}
	dataBits, ok := fieldUint(m, "data_bits")
	if !ok || (dataBits != 7 && dataBits != 8) {
		return types.SerialConfig{}, false
	}
	stopBits, ok := fieldUint(m, "stop_bits")
	if !ok || (stopBits != 1 && stopBits != 2) {
		return types.SerialConfig{}, false
	}
	parity, ok := fieldParity(m, "parity")
	if !ok {
		return types.SerialConfig{}, false
	}

	return types.SerialConfig{
		BaudRate: uint32(baud),
		DataBits: uint8(dataBits),
		Parity:   parity,
		StopBits: uint8(stopBits),
	}, true
}

// Save overwrites the record. The returned error carries
// errcode.PersistenceFailed; callers log it and keep the in-memory result.
func (s *Store) Save(cfg types.SerialConfig) error {
	var tmp [20]byte
	b := make([]byte, 0, 80)
	b = append(b, `{"baud_rate":`...)
	b = append(b, conv.Utoa(tmp[:], uint64(cfg.BaudRate))...)
	b = append(b, `,"data_bits":`...)
	b = append(b, conv.Utoa(tmp[:], uint64(cfg.DataBits))...)
	b = append(b, `,"parity":`...)
	switch cfg.Parity {
	case types.ParityEven:
		b = append(b, '0')
	case types.ParityOdd:
		b = append(b, '1')
	default:
		b = append(b, "null"...)
	}
	b = append(b, `,"stop_bits":`...)
	b = append(b, conv.Utoa(tmp[:], uint64(cfg.StopBits))...)
	b = append(b, '}')

	if err := s.KV.WriteRecord(s.key(), b); err != nil {
		return &errcode.E{C: errcode.PersistenceFailed, Op: "confstore.save", Err: err}
	}
	return nil
}

// parseRecord decodes one flat JSON object. A torn or truncated flash
// record must degrade to "absent", so decode failures are contained here.
func parseRecord(raw []byte) (m map[string]any, ok bool) {
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

func fieldUint(m map[string]any, key string) (uint64, bool) {
	v, present := m[key]
	if !present {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if n < 0 || n != float64(uint64(n)) {
			return 0, false
		}
		return uint64(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case uint64:
		return n, true
	default:
		return 0, false
	}
}

func fieldParity(m map[string]any, key string) (types.Parity, bool) {
	v, present := m[key]
	if !present {
		return types.ParityNone, false
	}
	if v == nil {
		return types.ParityNone, true
	}
	n, ok := fieldUint(m, key)
	if !ok {
		return types.ParityNone, false
	}
	switch n {
	case 0:
		return types.ParityEven, true
	case 1:
		return types.ParityOdd, true
	default:
		return types.ParityNone, false
	}
}
