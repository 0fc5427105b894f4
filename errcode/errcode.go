package errcode

// Code is a stable, user-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Candidate testing: port could not be opened/configured with the
	// requested parameters. Recoverable; the sweep moves on.
	AcquisitionFailed Code = "acquisition_failed"

	// Baud detection outcomes. Both are recoverable and fall back to the
	// full sweep.
	InsufficientSamples Code = "insufficient_samples"
	NoRateInTolerance   Code = "no_rate_in_tolerance"

	// Persistent store unreadable/unwritable. Recoverable; the engine runs
	// without the cached fast path or without saving.
	PersistenceFailed Code = "persistence_failed"

	// Terminal: no configuration in the full cross-product produced
	// plausible text.
	Exhausted Code = "exhausted"

	Timeout Code = "timeout"
	Error   Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
