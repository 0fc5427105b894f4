// services/autoconf/engine.go
package autoconf

import (
	"context"

	"serialprobe-go/errcode"
	"serialprobe-go/services/autoconf/internal/confstore"
	"serialprobe-go/services/autoconf/internal/pulse"
	"serialprobe-go/services/autoconf/probecore"
	"serialprobe-go/services/notify"
	"serialprobe-go/types"
	"serialprobe-go/x/conv"
)

// SearchProgress is emitted after every candidate attempt. Observability
// only; nothing reads it back.
type SearchProgress struct {
	Index  int
	Total  int
	Config types.SerialConfig
}

// TestOutcome is the result of exercising one candidate configuration.
type TestOutcome struct {
	Success bool
	Data    []byte
	Config  types.SerialConfig
}

// Engine walks TryStored -> DetectBaud -> SweepDetectedBaud -> FullSweep
// until a candidate configuration produces plausible text, then persists
// the winner. Single-threaded; every wait is bounded.
type Engine struct {
	Ports probecore.PortFactory
	Line  probecore.EdgeLine // nil skips baud detection
	Clock probecore.Clock    // nil means probecore.SystemClock
	KV    probecore.KV       // nil disables the fast path and persistence
	Sink  notify.Sink        // nil means notify.Discard
	Opts  Options

	// StoreKey overrides the record key; empty means confstore.DefaultKey.
	StoreKey string

	// OnProgress, when set, receives every SearchProgress in addition to
	// the sink. Used by tests to observe candidate order.
	OnProgress func(SearchProgress)

	store *confstore.Store

	// A stored config that already failed is skipped when the sweeps
	// reach the same tuple; one verdict per candidate per run.
	tested    types.SerialConfig
	hasTested bool
}

// Run executes the search. The returned error is errcode.Exhausted when no
// configuration in the full cross-product matched, or the context error if
// the caller cancelled mid-sweep. All per-candidate failures are absorbed.
func (e *Engine) Run(ctx context.Context) (types.SerialConfig, error) {
	e.Opts.normalize()
	if e.Clock == nil {
		e.Clock = probecore.SystemClock{}
	}
	if e.Sink == nil {
		e.Sink = notify.Discard{}
	}
	if e.KV != nil {
		e.store = &confstore.Store{KV: e.KV, Key: e.StoreKey}
	}

	e.Sink.SetStatus(notify.StatusTesting)

	// Fast path: a link that has not changed since last run.
	if e.store != nil {
		if stored, ok := e.store.Load(); ok {
			e.Sink.ShowLine("trying stored "+stored.String(), notify.SevInfo)
			out := e.testConfiguration(ctx, stored)
			e.emit(SearchProgress{Index: 1, Total: 1, Config: stored})
			if out.Success {
				return e.found(stored)
			}
			e.tested, e.hasTested = stored, true
			e.Sink.ShowLine("stored config stale", notify.SevWarn)
		}
	}
	if err := ctx.Err(); err != nil {
		return types.SerialConfig{}, err
	}

	// Detection narrows the sweep to one baud when it works; a wrong or
	// absent estimate just costs the 12-combo detour.
	if baud, ok := e.detectBaud(); ok {
		if cfg, found, err := e.sweep(ctx, []uint32{baud}); err != nil {
			return types.SerialConfig{}, err
		} else if found {
			return e.found(cfg)
		}
		e.Sink.ShowLine("detected baud had no match", notify.SevWarn)
	}

	cfg, found, err := e.sweep(ctx, types.StandardBauds[:])
	if err != nil {
		return types.SerialConfig{}, err
	}
	if found {
		return e.found(cfg)
	}

	e.Sink.ShowLine("no working configuration", notify.SevError)
	e.Sink.SetStatus(notify.StatusFailed)
	return types.SerialConfig{}, errcode.Exhausted
}

// detectBaud runs the pulse sampler and estimator. Any failure is
// reported and swallowed; the caller falls back to the full sweep.
func (e *Engine) detectBaud() (uint32, bool) {
	if e.Line == nil {
		return 0, false
	}
	e.Sink.ShowLine("detecting baud, send data now", notify.SevInfo)

	s := pulse.Sampler{
		Line:       e.Line,
		Clock:      e.Clock,
		Timeout:    e.Opts.DetectionTimeout,
		Poll:       e.Opts.DetectionPoll,
		MaxSamples: e.Opts.MaxSamples,
		MinPulse:   e.Opts.MinPulse,
		MaxPulse:   e.Opts.MaxPulse,
	}
	baud, err := pulse.Estimate(s.Measure(), e.Opts.MinSamples, e.Opts.Tolerance)
	if err != nil {
		e.Sink.ShowLine("detection failed: "+string(errcode.Of(err)), notify.SevWarn)
		return 0, false
	}

	var tmp [20]byte
	e.Sink.ShowLine("detected baud "+string(conv.Utoa(tmp[:], uint64(baud))), notify.SevInfo)
	return baud, true
}

// sweep tests bauds x FrameCombos in the fixed order: ascending baud
// outermost, then the 12 frame tuples. First success wins.
func (e *Engine) sweep(ctx context.Context, bauds []uint32) (types.SerialConfig, bool, error) {
	total := len(bauds) * len(types.FrameCombos)
	index := 0
	for _, baud := range bauds {
		for _, fp := range types.FrameCombos {
			if err := ctx.Err(); err != nil {
				return types.SerialConfig{}, false, err
			}
			index++
			cfg := fp.With(baud)
			if e.hasTested && cfg == e.tested {
				continue
			}
			out := e.testConfiguration(ctx, cfg)
			e.emit(SearchProgress{Index: index, Total: total, Config: cfg})
			if out.Success {
				e.showSample(out.Data)
				return cfg, true, nil
			}
		}
	}
	return types.SerialConfig{}, false, nil
}

// testConfiguration exercises one candidate: open, flush stale bytes,
// accumulate until MinDataLen or TestTimeout, classify. A port that
// cannot be opened with these parameters is a non-match, not an error.
func (e *Engine) testConfiguration(ctx context.Context, cfg types.SerialConfig) TestOutcome {
	port, err := e.Ports.Open(cfg, e.Opts.OpenTimeout)
	if err != nil {
		return TestOutcome{Config: cfg}
	}
	defer port.Close()

	_ = port.Flush()

	deadline := e.Clock.Now() + e.Opts.TestTimeout.Nanoseconds()
	data := make([]byte, 0, 2*e.Opts.MinDataLen)
	buf := make([]byte, 64)

	for e.Clock.Now() < deadline && ctx.Err() == nil {
		if port.Buffered() > 0 {
			n, rerr := port.Read(buf)
			if n > 0 {
				data = append(data, buf[:n]...)
				if len(data) >= e.Opts.MinDataLen {
					break
				}
			}
			if rerr != nil {
				break
			}
		}
		e.Clock.Sleep(e.Opts.AccumPoll)
	}

	if len(data) > 0 && e.Opts.Classifier.Plausible(data) {
		return TestOutcome{Success: true, Data: data, Config: cfg}
	}
	return TestOutcome{Data: data, Config: cfg}
}

// found persists the winner and reports terminal success. A store failure
// is logged, not fatal: the in-memory result is still good.
func (e *Engine) found(cfg types.SerialConfig) (types.SerialConfig, error) {
	if e.store != nil {
		if err := e.store.Save(cfg); err != nil {
			e.Sink.ShowLine("save failed: "+string(errcode.Of(err)), notify.SevWarn)
		}
	}
	e.Sink.ShowLine("found "+cfg.String(), notify.SevInfo)
	e.Sink.SetStatus(notify.StatusOK)
	return cfg, nil
}

func (e *Engine) showSample(data []byte) {
	if len(data) == 0 {
		return
	}
	if len(data) > 50 {
		data = data[:50]
	}
	e.Sink.ShowLine("sample: "+string(data), notify.SevInfo)
}

func (e *Engine) emit(p SearchProgress) {
	e.Sink.ShowProgress(p.Index, p.Total)
	if e.OnProgress != nil {
		e.OnProgress(p)
	}
}
