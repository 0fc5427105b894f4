// services/autoconf/internal/textscan/textscan.go
package textscan

import (
	"unicode"
	"unicode/utf8"
)

// Classifier is the heuristic oracle for "these bytes decode to real
// text". There is no ground truth for a link of unknown provenance, so
// false positives and negatives are an accepted limitation; the allow-list
// and threshold are policy, not constants.
type Classifier struct {
	// Threshold is the minimum fraction of allowed characters, exclusive.
	Threshold float64
	// Allow decides whether one decoded rune counts as plausible text.
	Allow func(r rune) bool
}

// AllowPrintable accepts anything printable plus whitespace. Paired with a
// 0.50 threshold it matches the permissive policy variant.
func AllowPrintable(r rune) bool {
	return unicode.IsPrint(r) || unicode.IsSpace(r)
}

// AllowASCII accepts letters, digits, common punctuation and whitespace
// only. Paired with a higher threshold (0.85) it is the restrictive
// policy variant for noisy links.
func AllowASCII(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == ' ', r == '\t', r == '\r', r == '\n':
		return true
	}
	switch r {
	case '.', ',', ';', ':', '!', '?', '\'', '"', '-', '_', '(', ')', '[', ']',
		'{', '}', '/', '\\', '@', '#', '$', '%', '^', '&', '*', '+', '=', '<', '>', '|', '~', '`':
		return true
	}
	return false
}

// Default returns the permissive policy used by the engine unless
// configured otherwise.
func Default() Classifier {
	return Classifier{Threshold: 0.5, Allow: AllowPrintable}
}

// Plausible reports whether buf looks like decoded text. Decoding is
// permissive: invalid UTF-8 sequences are consumed one byte at a time and
// count against the ratio instead of failing the check. An empty or
// all-whitespace buffer is never plausible.
func (c Classifier) Plausible(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	allow := c.Allow
	if allow == nil {
		allow = AllowPrintable
	}

	total, allowed, blank := 0, 0, true
	for i := 0; i < len(buf); {
		r, size := utf8.DecodeRune(buf[i:])
		if r == utf8.RuneError && size == 1 {
			// Undecodable byte: counts as one disallowed character.
			total++
			i++
			blank = false
			continue
		}
		total++
		if allow(r) {
			allowed++
		}
		if !unicode.IsSpace(r) {
			blank = false
		}
		i += size
	}
	if blank || total == 0 {
		return false
	}
	return float64(allowed)/float64(total) > c.Threshold
}
