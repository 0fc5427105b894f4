// services/autoconf/monitor_test.go
package autoconf

import (
	"context"
	"errors"
	"testing"
	"time"

	"serialprobe-go/errcode"
	"serialprobe-go/services/autoconf/probecore"
	"serialprobe-go/services/notify"
	"serialprobe-go/types"
)

// cancelAfter returns a fake clock that cancels ctx once the monitor has
// gone idle for n polls.
func cancelAfter(n int, cancel context.CancelFunc) *fakeClock {
	c := &fakeClock{}
	sleeps := 0
	c.onSleep = func() {
		sleeps++
		if sleeps >= n {
			cancel()
		}
	}
	return c
}

func TestMonitorForwardsText(t *testing.T) {
	conf := cfg(115200, 8, types.ParityNone, 1)
	f := &fakeFactory{}
	f.respond(conf, "hello\r\nworld")
	sink := &recordingSink{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := &Monitor{Ports: f, Clock: cancelAfter(2, cancel), Sink: sink}

	err := m.Run(ctx, conf)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	want := []string{"monitoring 115200 8N1", "RX: hello world", "monitoring stopped"}
	if len(sink.lines) != len(want) {
		t.Fatalf("lines %v, want %v", sink.lines, want)
	}
	for i := range want {
		if sink.lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, sink.lines[i], want[i])
		}
	}
	if len(sink.statuses) != 1 || sink.statuses[0] != notify.StatusMonitoring {
		t.Fatalf("statuses %v, want [monitoring]", sink.statuses)
	}
	if !f.allClosed() {
		t.Fatal("port left open after cancellation")
	}
}

func TestMonitorSkipsBlankChunks(t *testing.T) {
	conf := cfg(9600, 8, types.ParityNone, 1)
	f := &fakeFactory{}
	f.respond(conf, "\r\n  \r\n")
	sink := &recordingSink{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := &Monitor{Ports: f, Clock: cancelAfter(2, cancel), Sink: sink}

	if err := m.Run(ctx, conf); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	for _, l := range sink.lines {
		if len(l) > 3 && l[:3] == "RX:" {
			t.Fatalf("blank chunk forwarded as %q", l)
		}
	}
}

func TestMonitorHexMode(t *testing.T) {
	conf := cfg(115200, 8, types.ParityNone, 1)
	f := &fakeFactory{}
	f.responses = map[types.SerialConfig][]byte{conf: {0x00, 0xFF, 0x55, 0xAA}}
	sink := &recordingSink{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := &Monitor{Ports: f, Clock: cancelAfter(2, cancel), Sink: sink, Mode: ModeHex}

	if err := m.Run(ctx, conf); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	found := false
	for _, l := range sink.lines {
		if l == "HEX: 00ff55aa" {
			found = true
		}
	}
	if !found {
		t.Fatalf("hex dump missing from %v", sink.lines)
	}
}

func TestMonitorOpenFailure(t *testing.T) {
	conf := cfg(115200, 8, types.ParityNone, 1)
	f := &fakeFactory{}
	f.fail(conf)

	m := &Monitor{Ports: f, Clock: &fakeClock{}}
	err := m.Run(context.Background(), conf)
	if errcode.Of(err) != errcode.AcquisitionFailed {
		t.Fatalf("expected acquisition_failed, got %v", err)
	}
}

type readErrPort struct {
	fakePort
	err error
}

func (p *readErrPort) Read(b []byte) (int, error) {
	n, _ := p.fakePort.Read(b)
	if len(p.fakePort.data) == 0 {
		return n, p.err
	}
	return n, nil
}

type singlePortFactory struct{ port *readErrPort }

func (f *singlePortFactory) Open(types.SerialConfig, time.Duration) (probecore.Port, error) {
	return f.port, nil
}

func TestMonitorReadErrorStops(t *testing.T) {
	wantErr := errors.New("device unplugged")
	p := &readErrPort{fakePort: fakePort{data: []byte("last words")}, err: wantErr}
	f := &singlePortFactory{port: p}
	sink := &recordingSink{}

	m := &Monitor{Ports: f, Clock: &fakeClock{}, Sink: sink}
	err := m.Run(context.Background(), cfg(115200, 8, types.ParityNone, 1))
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected read error, got %v", err)
	}
	if !p.closed {
		t.Fatal("port left open after read error")
	}
}
