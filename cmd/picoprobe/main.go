//go:build rp2040 || rp2350

package main

import (
	"context"
	"image/color"
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/st7735"

	"serialprobe-go/drivers/picoserial"
	"serialprobe-go/drivers/st7735term"
	"serialprobe-go/drivers/statusled"
	"serialprobe-go/services/autoconf"
	"serialprobe-go/services/config"
	"serialprobe-go/services/notify"
)

// Pin map matches the reference wiring: UART0 on GP0/GP1, ST7735 on SPI0
// (DC=GP8, CS=GP9, RST=GP12), status LED on GP25.
func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("picoprobe boot")

	led := &picoserial.LEDPin{Pin: machine.Pin(25)}
	led.Configure()

	spi := machine.SPI0
	_ = spi.Configure(machine.SPIConfig{Frequency: 40 * machine.MHz})
	disp := st7735.New(spi, machine.Pin(12), machine.Pin(8), machine.Pin(9), machine.NoPin)
	disp.Configure(st7735.Config{})
	disp.FillScreen(color.RGBA{A: 0xFF})

	term := st7735term.New(&disp)
	sink := notify.NewDispatcher(32, term, &statusled.Sink{P: led})
	defer sink.Close()

	rx := &picoserial.RXLine{Pin: machine.Pin(1)}
	rx.Configure()

	ports := &picoserial.Factory{
		UART: uartx.UART0,
		TX:   machine.Pin(0),
		RX:   machine.Pin(1),
	}

	settings, err := config.Load("default")
	if err != nil {
		settings = config.Default()
	}

	eng := &autoconf.Engine{
		Ports: ports,
		Line:  rx,
		Sink:  sink,
		Opts:  settings.Options,
		// No writable record store is wired on this board yet; each boot
		// runs detection from scratch.
	}

	ctx := context.Background()
	cfg, err := eng.Run(ctx)
	if err != nil {
		println("exhausted:", err.Error())
		return
	}
	println("found", cfg.String())

	mon := &autoconf.Monitor{Ports: ports, Sink: sink, Mode: settings.Mode}
	if err := mon.Run(ctx, cfg); err != nil {
		println("monitor:", err.Error())
	}
}
