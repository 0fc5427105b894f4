//go:build !rp2040 && !rp2350

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"serialprobe-go/drivers/filekv"
	"serialprobe-go/drivers/hostserial"
	"serialprobe-go/services/autoconf"
	"serialprobe-go/services/config"
	"serialprobe-go/services/notify"
	"serialprobe-go/x/strx"
)

// loadSettings resolves, in order: a settings file named by
// SERIAL_SETTINGS, the embedded profile named by SERIAL_PROFILE, the
// built-in defaults.
func loadSettings() config.Settings {
	if path := os.Getenv("SERIAL_SETTINGS"); path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			s, perr := config.Parse(raw)
			if perr == nil {
				return s
			}
			println("settings:", perr.Error())
		} else {
			println("settings:", err.Error())
		}
	}
	if profile := os.Getenv("SERIAL_PROFILE"); profile != "" {
		s, err := config.Load(profile)
		if err == nil {
			return s
		}
		println("settings:", err.Error())
	}
	return config.Default()
}

func main() {
	device := strx.Coalesce(os.Getenv("SERIAL_DEVICE"), "/dev/ttyUSB0")
	stateDir := strx.Coalesce(os.Getenv("SERIAL_STATE_DIR"), ".")
	settings := loadSettings()

	println("serialprobe:", device)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ports := &hostserial.Factory{Device: device}
	sink := notify.Console{}
	eng := &autoconf.Engine{
		Ports: ports,
		// No raw line access on a host tty; detection is skipped and the
		// engine goes straight to the sweeps.
		KV:   &filekv.Store{Dir: stateDir},
		Sink: sink,
		Opts: settings.Options,
	}

	cfg, err := eng.Run(ctx)
	if err != nil {
		println("no working configuration:", err.Error())
		os.Exit(1)
	}

	mon := &autoconf.Monitor{Ports: ports, Sink: sink, Mode: settings.Mode}
	if err := mon.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		println("monitor:", err.Error())
		os.Exit(1)
	}
}
