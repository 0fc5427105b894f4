// services/autoconf/probecore/types.go
package probecore

import (
	"time"

	"serialprobe-go/types"
	"serialprobe-go/x/timex"
)

// Port is an open serial peripheral with its parameters fixed at
// construction. Read drains whatever is buffered without blocking.
type Port interface {
	Read(p []byte) (int, error)
	Buffered() int
	Flush() error
	Close() error
}

// PortFactory opens a Port for one candidate configuration. The engine
// tears the Port down and opens a fresh one for every candidate; only one
// logical owner holds a Port at a time.
type PortFactory interface {
	Open(cfg types.SerialConfig, timeout time.Duration) (Port, error)
}

// EdgeLine exposes the raw receive-line level for pulse sampling.
type EdgeLine interface {
	Get() bool
}

// Clock abstracts time for the busy-wait loops so they are testable.
// Now is nanoseconds; Sleep is a cooperative yield.
type Clock interface {
	Now() int64
	Sleep(d time.Duration)
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() int64            { return timex.NowNs() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// KV is the persistent record store. ReadRecord returns false when the key
// is absent or the store is unreadable; callers treat both the same way.
type KV interface {
	ReadRecord(key string) ([]byte, bool)
	WriteRecord(key string, b []byte) error
}
