// services/notify/dispatch.go
package notify

// Dispatcher decouples the sweep from slow sinks (an SPI display redraw
// takes milliseconds). Events go through a bounded queue; when the queue
// is full the oldest event is dropped, so producers never stall.

type eventKind uint8

const (
	evLine eventKind = iota
	evProgress
	evStatus
)

type event struct {
	kind   eventKind
	text   string
	sev    Severity
	index  int
	total  int
	status Status
}

type Dispatcher struct {
	q    chan event
	done chan struct{}
}

// NewDispatcher starts a delivery goroutine fanning out to sinks.
func NewDispatcher(queueLen int, sinks ...Sink) *Dispatcher {
	if queueLen <= 0 {
		queueLen = 16
	}
	d := &Dispatcher{
		q:    make(chan event, queueLen),
		done: make(chan struct{}),
	}
	go func() {
		defer close(d.done)
		for ev := range d.q {
			for _, s := range sinks {
				switch ev.kind {
				case evLine:
					s.ShowLine(ev.text, ev.sev)
				case evProgress:
					s.ShowProgress(ev.index, ev.total)
				case evStatus:
					s.SetStatus(ev.status)
				}
			}
		}
	}()
	return d
}

func (d *Dispatcher) ShowLine(text string, sev Severity) {
	d.enqueue(event{kind: evLine, text: text, sev: sev})
}

func (d *Dispatcher) ShowProgress(index, total int) {
	d.enqueue(event{kind: evProgress, index: index, total: total})
}

func (d *Dispatcher) SetStatus(s Status) {
	d.enqueue(event{kind: evStatus, status: s})
}

func (d *Dispatcher) enqueue(ev event) {
	select {
	case d.q <- ev:
	default:
		// drop oldest if queue full
		select {
		case <-d.q:
		default:
		}
		select {
		case d.q <- ev:
		default:
		}
	}
}

// Close drains queued events into the sinks, then stops the goroutine.
func (d *Dispatcher) Close() {
	close(d.q)
	<-d.done
}
