// drivers/hostserial/hostserial.go
//go:build !rp2040 && !rp2350

package hostserial

import (
	"io"
	"time"

	"github.com/tarm/serial"

	"serialprobe-go/errcode"
	"serialprobe-go/services/autoconf/probecore"
	"serialprobe-go/types"
	"serialprobe-go/x/mathx"
)

// Factory opens an OS serial device (e.g. /dev/ttyUSB0) with the candidate
// parameters. Each Open returns a fresh handle; parameters are fixed for
// its lifetime, matching the MCU hardware model.
type Factory struct {
	Device string
}

func (f *Factory) Open(cfg types.SerialConfig, timeout time.Duration) (probecore.Port, error) {
	var par serial.Parity
	switch cfg.Parity {
	case types.ParityEven:
		par = serial.ParityEven
	case types.ParityOdd:
		par = serial.ParityOdd
	default:
		par = serial.ParityNone
	}
	var stop serial.StopBits
	if cfg.StopBits == 2 {
		stop = serial.Stop2
	} else {
		stop = serial.Stop1
	}

	// Short read timeout keeps Buffered polls lively; the engine owns the
	// overall per-candidate deadline.
	sc := &serial.Config{
		Name:        f.Device,
		Baud:        int(cfg.BaudRate),
		Size:        byte(cfg.DataBits),
		Parity:      par,
		StopBits:    stop,
		ReadTimeout: mathx.Clamp(timeout/10, time.Millisecond, 100*time.Millisecond),
	}
	p, err := serial.OpenPort(sc)
	if err != nil {
		return nil, &errcode.E{C: errcode.AcquisitionFailed, Op: "hostserial.open", Err: err}
	}
	return &port{p: p}, nil
}

type port struct {
	p     *serial.Port
	stash []byte
	tmp   [64]byte
}

// Buffered probes the device with one bounded read and reports how much is
// ready to drain.
func (p *port) Buffered() int {
	if len(p.stash) == 0 {
		if n, err := p.p.Read(p.tmp[:]); n > 0 && err == nil {
			p.stash = append(p.stash, p.tmp[:n]...)
		}
	}
	return len(p.stash)
}

func (p *port) Read(b []byte) (int, error) {
	if len(p.stash) > 0 {
		n := copy(b, p.stash)
		p.stash = p.stash[n:]
		return n, nil
	}
	n, err := p.p.Read(b)
	if err == io.EOF {
		// tarm reports an exhausted read timeout as EOF; that is "no
		// data yet" for a live serial line.
		return n, nil
	}
	return n, err
}

func (p *port) Flush() error {
	p.stash = p.stash[:0]
	return p.p.Flush()
}

func (p *port) Close() error { return p.p.Close() }
