// services/autoconf/internal/textscan/textscan_test.go
package textscan

import "testing"

func TestEmptyBufferIsNotPlausible(t *testing.T) {
	c := Default()
	if c.Plausible(nil) {
		t.Fatal("nil buffer classified as text")
	}
	if c.Plausible([]byte{}) {
		t.Fatal("empty buffer classified as text")
	}
}

func TestWhitespaceOnlyIsNotPlausible(t *testing.T) {
	c := Default()
	if c.Plausible([]byte("   \r\n\t  ")) {
		t.Fatal("whitespace-only buffer classified as text")
	}
}

func TestAsciiTextIsPlausible(t *testing.T) {
	c := Default()
	for _, s := range []string{
		"Hello World!",
		"The quick brown fox jumps over the lazy dog",
		"Counter: 42, Time: 123456\n",
		"Special chars: !@#$%^&*()_+-=",
	} {
		if !c.Plausible([]byte(s)) {
			t.Errorf("%q not classified as text", s)
		}
	}
}

func TestBinaryIsNotPlausible(t *testing.T) {
	c := Default()
	blob := []byte{0x00, 0xFF, 0x55, 0xAA, 0x01, 0x02, 0x03, 0x04, 0x05}
	var buf []byte
	for i := 0; i < 4; i++ {
		buf = append(buf, blob...)
	}
	if c.Plausible(buf) {
		t.Fatal("binary noise classified as text")
	}
}

func TestInvalidUTF8DegradesGracefully(t *testing.T) {
	c := Default()
	// Mostly text with a few broken sequences; must not error out and the
	// ratio still carries it.
	buf := append([]byte("legible text with noise "), 0xC3, 0x28, 0xA0)
	buf = append(buf, []byte(" and more legible text")...)
	if !c.Plausible(buf) {
		t.Fatal("mostly-text buffer rejected")
	}
}

func TestRestrictivePolicy(t *testing.T) {
	strict := Classifier{Threshold: 0.85, Allow: AllowASCII}
	loose := Default()

	// Half text, half noise: passes the 50% policy, fails the 85% one.
	buf := append([]byte("readable half"), 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07)
	if !loose.Plausible(buf) {
		t.Fatal("permissive policy rejected half-text buffer")
	}
	if strict.Plausible(buf) {
		t.Fatal("restrictive policy accepted half-text buffer")
	}

	if !strict.Plausible([]byte("Entirely clean ASCII line 123.")) {
		t.Fatal("restrictive policy rejected clean ASCII")
	}
}

func TestNilAllowFallsBack(t *testing.T) {
	c := Classifier{Threshold: 0.5}
	if !c.Plausible([]byte("still works")) {
		t.Fatal("nil Allow should fall back to printable")
	}
}
