// services/notify/notify.go
package notify

// Severity of one operator-visible line.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarn
	SevError
)

// Status is the coarse state shown on the status indicator.
type Status uint8

const (
	StatusOK Status = iota
	StatusTesting
	StatusFailed
	StatusMonitoring
)

func (s Status) String() string {
	switch s {
	case StatusTesting:
		return "testing"
	case StatusFailed:
		return "failed"
	case StatusMonitoring:
		return "monitoring"
	default:
		return "ok"
	}
}

// Sink is the operator-facing consumer: display plus status indicator,
// treated as one logical unit. Calls are observability only; no engine
// control flow ever depends on them.
type Sink interface {
	ShowLine(text string, sev Severity)
	ShowProgress(index, total int)
	SetStatus(s Status)
}

// Console logs to the default output. Works on host and MCU builds.
type Console struct{}

func (Console) ShowLine(text string, sev Severity) {
	switch sev {
	case SevWarn:
		println("[warn]", text)
	case SevError:
		println("[err] ", text)
	default:
		println("[info]", text)
	}
}

func (Console) ShowProgress(index, total int) {
	println("[prog]", index, "/", total)
}

func (Console) SetStatus(s Status) {
	println("[stat]", s.String())
}

// Multi fans out synchronously to several sinks.
type Multi []Sink

func (m Multi) ShowLine(text string, sev Severity) {
	for _, s := range m {
		s.ShowLine(text, sev)
	}
}

func (m Multi) ShowProgress(index, total int) {
	for _, s := range m {
		s.ShowProgress(index, total)
	}
}

func (m Multi) SetStatus(st Status) {
	for _, s := range m {
		s.SetStatus(st)
	}
}

// Discard drops everything. Useful as a default and in tests.
type Discard struct{}

func (Discard) ShowLine(string, Severity) {}
func (Discard) ShowProgress(int, int)     {}
func (Discard) SetStatus(Status)          {}
