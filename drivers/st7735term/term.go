// drivers/st7735term/term.go
package st7735term

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"serialprobe-go/services/notify"
	"serialprobe-go/x/conv"
)

// Device is the slice of an ST7735 (or compatible) driver the terminal
// needs. *st7735.Device satisfies it.
type Device interface {
	drivers.Displayer
	FillScreen(c color.RGBA)
}

const (
	cellW = 6
	cellH = 8
)

var (
	colInfo = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colWarn = color.RGBA{R: 0xFF, G: 0xC8, B: 0x00, A: 0xFF}
	colErr  = color.RGBA{R: 0xFF, G: 0x20, B: 0x20, A: 0xFF}
	colBG   = color.RGBA{A: 0xFF}
)

type line struct {
	text string
	c    color.RGBA
}

// Terminal is a scrolling text log on a small pixel display, the
// operator-facing half of the notification sink. Feed it through a
// notify.Dispatcher; redraws are slow relative to the sweep.
type Terminal struct {
	d     Device
	font  tinyfont.Fonter
	lines []line
	rows  int
	cols  int
}

func New(d Device) *Terminal {
	w, h := d.Size()
	t := &Terminal{
		d:    d,
		font: &tinyfont.Org01,
		rows: int(h) / cellH,
		cols: int(w) / cellW,
	}
	t.d.FillScreen(colBG)
	return t
}

func (t *Terminal) ShowLine(text string, sev notify.Severity) {
	c := colInfo
	switch sev {
	case notify.SevWarn:
		c = colWarn
	case notify.SevError:
		c = colErr
	}
	t.push(text, c)
}

func (t *Terminal) ShowProgress(index, total int) {
	var tmp [20]byte
	b := make([]byte, 0, 24)
	b = append(b, "config "...)
	b = append(b, conv.Itoa(tmp[:], int64(index))...)
	b = append(b, '/')
	b = append(b, conv.Itoa(tmp[:], int64(total))...)
	t.push(string(b), colInfo)
}

func (t *Terminal) SetStatus(s notify.Status) {
	c := colInfo
	if s == notify.StatusFailed {
		c = colErr
	}
	t.push("-- "+s.String()+" --", c)
}

func (t *Terminal) push(text string, c color.RGBA) {
	if len(text) > t.cols {
		text = text[:t.cols]
	}
	t.lines = append(t.lines, line{text: text, c: c})
	if len(t.lines) > t.rows {
		t.lines = t.lines[len(t.lines)-t.rows:]
	}
	t.redraw()
}

func (t *Terminal) redraw() {
	t.d.FillScreen(colBG)
	for i, l := range t.lines {
		y := int16(i*cellH + cellH - 1)
		tinyfont.WriteLine(t.d, t.font, 0, y, l.text, l.c)
	}
	_ = t.d.Display()
}
