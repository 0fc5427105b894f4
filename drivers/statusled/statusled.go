// drivers/statusled/statusled.go
package statusled

import "serialprobe-go/services/notify"

// Pin is the minimal output the LED needs. machine.Pin adapters and host
// fakes both satisfy it.
type Pin interface {
	Set(on bool)
	Get() bool
}

// Sink drives a single status LED: toggling while candidates are tested,
// solid once a configuration is found or monitoring runs, dark on failure.
type Sink struct {
	P Pin
}

func (s *Sink) ShowLine(string, notify.Severity) {}

func (s *Sink) ShowProgress(int, int) {
	s.P.Set(!s.P.Get())
}

func (s *Sink) SetStatus(st notify.Status) {
	switch st {
	case notify.StatusOK, notify.StatusMonitoring:
		s.P.Set(true)
	case notify.StatusFailed:
		s.P.Set(false)
	case notify.StatusTesting:
		s.P.Set(false)
	}
}
