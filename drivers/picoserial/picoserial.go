// drivers/picoserial/picoserial.go
//go:build rp2040 || rp2350

package picoserial

import (
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"serialprobe-go/errcode"
	"serialprobe-go/services/autoconf/probecore"
	"serialprobe-go/types"
)

// Factory hands out the single hardware UART, reconfigured per candidate.
// The engine guarantees one owner at a time; Open after Close is the
// "tear down and recreate" cycle on this target.
type Factory struct {
	UART *uartx.UART
	TX   machine.Pin
	RX   machine.Pin
}

func (f *Factory) Open(cfg types.SerialConfig, _ time.Duration) (probecore.Port, error) {
	if err := f.UART.Configure(uartx.UARTConfig{
		BaudRate: cfg.BaudRate,
		TX:       f.TX,
		RX:       f.RX,
	}); err != nil {
		return nil, &errcode.E{C: errcode.AcquisitionFailed, Op: "picoserial.configure", Err: err}
	}

	var par uartx.UARTParity
	switch cfg.Parity {
	case types.ParityEven:
		par = uartx.ParityEven
	case types.ParityOdd:
		par = uartx.ParityOdd
	default:
		par = uartx.ParityNone
	}
	if err := f.UART.SetFormat(cfg.DataBits, cfg.StopBits, par); err != nil {
		return nil, &errcode.E{C: errcode.AcquisitionFailed, Op: "picoserial.format", Err: err}
	}
	return &port{u: f.UART}, nil
}

type port struct {
	u   *uartx.UART
	tmp [32]byte
}

func (p *port) Buffered() int              { return p.u.Buffered() }
func (p *port) Read(b []byte) (int, error) { return p.u.Read(b) }

func (p *port) Flush() error {
	for p.u.Buffered() > 0 {
		if _, err := p.u.Read(p.tmp[:]); err != nil {
			return err
		}
	}
	return nil
}

// Close releases logical ownership. The peripheral itself stays powered;
// the next Open reconfigures it.
func (p *port) Close() error { return nil }

// RXLine samples the raw receive pin level for pulse-width detection.
// Configure it before a detection window; opening the UART afterwards
// returns the pin to its UART function.
type RXLine struct {
	Pin machine.Pin
}

func (l *RXLine) Configure() {
	l.Pin.Configure(machine.PinConfig{Mode: machine.PinInput})
}

func (l *RXLine) Get() bool { return l.Pin.Get() }

// LEDPin adapts a GPIO to the status LED sink.
type LEDPin struct {
	Pin machine.Pin
}

func (l *LEDPin) Configure() {
	l.Pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
}

func (l *LEDPin) Set(on bool) { l.Pin.Set(on) }
func (l *LEDPin) Get() bool   { return l.Pin.Get() }
