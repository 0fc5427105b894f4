// drivers/statusled/statusled_test.go
package statusled

import (
	"testing"

	"serialprobe-go/services/notify"
)

type fakePin struct{ on bool }

func (p *fakePin) Set(on bool) { p.on = on }
func (p *fakePin) Get() bool   { return p.on }

func TestStatusMapping(t *testing.T) {
	pin := &fakePin{}
	s := &Sink{P: pin}

	s.SetStatus(notify.StatusTesting)
	if pin.on {
		t.Fatal("testing should leave the LED off")
	}
	s.SetStatus(notify.StatusOK)
	if !pin.on {
		t.Fatal("ok should turn the LED on")
	}
	s.SetStatus(notify.StatusFailed)
	if pin.on {
		t.Fatal("failed should turn the LED off")
	}
	s.SetStatus(notify.StatusMonitoring)
	if !pin.on {
		t.Fatal("monitoring should turn the LED on")
	}
}

func TestProgressToggles(t *testing.T) {
	pin := &fakePin{}
	s := &Sink{P: pin}

	s.SetStatus(notify.StatusTesting)
	for i := 1; i <= 4; i++ {
		before := pin.on
		s.ShowProgress(i, 96)
		if pin.on == before {
			t.Fatalf("progress %d did not toggle the LED", i)
		}
	}
}

func TestLinesAreIgnored(t *testing.T) {
	pin := &fakePin{on: true}
	s := &Sink{P: pin}
	s.ShowLine("anything", notify.SevError)
	if !pin.on {
		t.Fatal("ShowLine must not touch the LED")
	}
}
