package timex

import "time"

// NowNs returns a monotonic-ish timestamp in nanoseconds. Pulse widths and
// deadlines are measured as differences of these values.
func NowNs() int64 { return time.Now().UnixNano() }

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }
