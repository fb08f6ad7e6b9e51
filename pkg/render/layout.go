package render

import (
	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/stackscope/pkg/trace"
)

// Layout holds the column widths computed for one backtrace before any
// text is emitted.
type Layout struct {
	// FrameNoWidth is the number of digits in the highest frame number.
	FrameNoWidth int
	// LineNoWidth is the number of digits in the highest source line
	// number plus three: wide enough for the last line of a snippet
	// without reading the file a second time. Worst case it over-pads
	// every snippet line by one space.
	LineNoWidth int
	// TotalWidth is the banner width: the widest frame display line,
	// clamped to the terminal.
	TotalWidth int
}

// NewLayout computes the layout for bt. termWidth is the detected terminal
// column count; pass 0 or less when undetectable and the 80-column
// fallback applies.
func NewLayout(bt trace.Backtrace, termWidth int) Layout {
	if termWidth <= 0 {
		termWidth = 80
	}

	maxFrameNo := 0
	maxLineNo := 0
	for _, f := range bt.Frames {
		if f.FrameNo > maxFrameNo {
			maxFrameNo = f.FrameNo
		}
		if f.Source != nil && f.Source.Line > maxLineNo {
			maxLineNo = f.Source.Line
		}
	}

	l := Layout{
		FrameNoWidth: digits(maxFrameNo),
		LineNoWidth:  digits(maxLineNo + 3),
		TotalWidth:   termWidth,
	}

	widest := 0
	for _, f := range bt.Frames {
		if w := l.frameWidth(f); w > widest {
			widest = w
		}
	}
	if widest > 0 && widest < termWidth {
		l.TotalWidth = widest
	}
	return l
}

// frameWidth is the number of columns the frame's widest line occupies:
// either the header ("NN: function") or, when present, the source line
// ("  at file:line:col" under the frame-number gutter).
func (l Layout) frameWidth(f trace.Frame) int {
	w := l.FrameNoWidth + 2 + runewidth.StringWidth(f.Function)
	if f.Source != nil {
		s := f.Source
		sw := l.FrameNoWidth + runewidth.StringWidth(s.File) + digits(s.Line) + digits(s.Col) + 9
		if sw > w {
			w = sw
		}
	}
	return w
}

// digits counts decimal digits, minimum 1.
func digits(n int) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}
