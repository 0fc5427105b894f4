// services/autoconf/monitor.go
package autoconf

import (
	"context"
	"runtime"
	"time"

	"serialprobe-go/errcode"
	"serialprobe-go/services/autoconf/probecore"
	"serialprobe-go/services/notify"
	"serialprobe-go/types"
	"serialprobe-go/x/conv"
)

// MonitorMode selects how received chunks are forwarded.
type MonitorMode uint8

const (
	// ModeText decodes permissively and forwards cleaned-up lines.
	ModeText MonitorMode = iota
	// ModeHex skips decoding and forwards the hex dump of raw bytes.
	ModeHex
)

// Monitor relays bytes from a confirmed configuration to the sink until
// the context is cancelled. It owns the port for its whole lifetime.
type Monitor struct {
	Ports probecore.PortFactory
	Clock probecore.Clock // nil means probecore.SystemClock
	Sink  notify.Sink     // nil means notify.Discard
	Mode  MonitorMode

	OpenTimeout time.Duration // zero means 1s
	Poll        time.Duration // zero means 10ms
	YieldEvery  int           // loop iterations between scheduler yields; zero means 100
}

// Run opens the port with cfg and forwards received data until ctx is
// cancelled. The port is closed on every exit path. The only error that
// is not the context's own is a failure to open the confirmed config.
func (m *Monitor) Run(ctx context.Context, cfg types.SerialConfig) error {
	clock := m.Clock
	if clock == nil {
		clock = probecore.SystemClock{}
	}
	sink := m.Sink
	if sink == nil {
		sink = notify.Discard{}
	}
	openTO := m.OpenTimeout
	if openTO <= 0 {
		openTO = time.Second
	}
	poll := m.Poll
	if poll <= 0 {
		poll = 10 * time.Millisecond
	}
	yieldEvery := m.YieldEvery
	if yieldEvery <= 0 {
		yieldEvery = 100
	}

	port, err := m.Ports.Open(cfg, openTO)
	if err != nil {
		return &errcode.E{C: errcode.AcquisitionFailed, Op: "monitor.open", Err: err}
	}
	defer port.Close()

	sink.SetStatus(notify.StatusMonitoring)
	sink.ShowLine("monitoring "+cfg.String(), notify.SevInfo)

	buf := make([]byte, 256)
	iters := 0
	for {
		select {
		case <-ctx.Done():
			sink.ShowLine("monitoring stopped", notify.SevInfo)
			return ctx.Err()
		default:
		}

		if port.Buffered() > 0 {
			n, rerr := port.Read(buf)
			if n > 0 {
				m.forward(sink, buf[:n])
			}
			if rerr != nil {
				sink.ShowLine("read error: "+rerr.Error(), notify.SevError)
				return rerr
			}
		} else {
			clock.Sleep(poll)
		}

		// Long monitoring sessions interleave scheduler yields so the
		// runtime can reclaim memory and service other goroutines.
		iters++
		if iters%yieldEvery == 0 {
			runtime.Gosched()
		}
	}
}

func (m *Monitor) forward(sink notify.Sink, chunk []byte) {
	if m.Mode == ModeHex {
		dump := conv.AppendHex(make([]byte, 0, 2*len(chunk)), chunk)
		sink.ShowLine("HEX: "+string(dump), notify.SevInfo)
		return
	}

	// Permissive decode: fold CR/LF into spaces, drop blank chunks.
	line := make([]byte, 0, len(chunk))
	blank := true
	for _, b := range chunk {
		switch b {
		case '\r':
			// ignore
		case '\n':
			line = append(line, ' ')
		default:
			line = append(line, b)
			if b != ' ' && b != '\t' {
				blank = false
			}
		}
	}
	if blank {
		return
	}
	sink.ShowLine("RX: "+string(line), notify.SevInfo)
}
