//go:build !rp2040 && !rp2350

package main

import (
	"os"
	"strconv"
	"time"

	"github.com/tarm/serial"

	"serialprobe-go/x/strx"
)

// sendtest feeds a known byte stream into the link under test from a
// second port: plain text messages, a continuous counter, or binary noise
// to exercise the negative classifier path.
//
//	sendtest [messages|counter|binary]
//
// SERIAL_DEVICE and SERIAL_BAUD override the defaults.
func main() {
	device := strx.Coalesce(os.Getenv("SERIAL_DEVICE"), "/dev/ttyUSB1")
	baud := 115200
	if v := os.Getenv("SERIAL_BAUD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			baud = n
		}
	}
	mode := "messages"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	p, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
	if err != nil {
		println("open:", err.Error())
		os.Exit(1)
	}
	defer p.Close()

	println("sendtest:", device, "@", baud, "mode", mode)

	switch mode {
	case "counter":
		counter(p)
	case "binary":
		binary(p)
	default:
		messages(p)
	}
}

var testMessages = []string{
	"Hello World!",
	"This is a test message",
	"Serial communication working!",
	"Auto-configuration test data",
	"Testing 123...",
	"Lorem ipsum dolor sit amet",
	"The quick brown fox jumps over the lazy dog",
	"0123456789",
	"Special chars: !@#$%^&*()_+-=",
}

func messages(p *serial.Port) {
	for i := 0; ; i++ {
		msg := testMessages[i%len(testMessages)]
		if _, err := p.Write([]byte(msg)); err != nil {
			println("write:", err.Error())
			return
		}
		println("sent:", msg)
		time.Sleep(2 * time.Second)
	}
}

func counter(p *serial.Port) {
	for n := 0; ; n++ {
		line := "counter " + strconv.Itoa(n) + " t=" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "\n"
		if _, err := p.Write([]byte(line)); err != nil {
			println("write:", err.Error())
			return
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func binary(p *serial.Port) {
	blob := []byte{0x00, 0xFF, 0x55, 0xAA, 0x01, 0x02, 0x03, 0x04, 0x05}
	for {
		if _, err := p.Write(blob); err != nil {
			println("write:", err.Error())
			return
		}
		time.Sleep(time.Second)
	}
}
