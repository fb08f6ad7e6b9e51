// Package render prints assembled backtraces as styled terminal text:
// a banner, the frames newest-first with hidden runs collapsed, source
// locations with optional hyperlinks and code snippets, and the panic
// message that triggered the trace.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/stackscope/pkg/hide"
	"github.com/dkoosis/stackscope/pkg/trace"
)

// Renderer prints backtraces using a fixed theme and link configuration.
// Layout is computed per backtrace at render time.
type Renderer struct {
	theme     Theme
	links     Hyperlinks
	termWidth int
}

// New creates a Renderer. termWidth is the terminal column count, 0 when
// unknown.
func New(theme Theme, links Hyperlinks, termWidth int) *Renderer {
	return &Renderer{theme: theme, links: links, termWidth: termWidth}
}

// Render writes one backtrace to w, consulting filter for every frame in
// display order. Frames print newest call first, so the stored parse order
// is walked in reverse. A run of consecutive hidden frames collapses into
// a single banner. Rendering an empty backtrace is a no-op.
//
// A snippet read error aborts the render mid-way; everything already
// written to w stands.
func (r *Renderer) Render(w io.Writer, bt trace.Backtrace, filter *hide.Filter) error {
	if len(bt.Frames) == 0 {
		return nil
	}
	filter.Reset()

	layout := NewLayout(bt, r.termWidth)
	fmt.Fprintf(w, "\n%s\n", center(" BACKTRACE ", '━', layout.TotalWidth))

	hidden := 0
	for i := len(bt.Frames) - 1; i >= 0; i-- {
		frame := bt.Frames[i]
		if filter.Hide(frame) {
			hidden++
			continue
		}
		r.hiddenBanner(w, hidden, layout)
		hidden = 0
		if err := r.renderFrame(w, frame, layout); err != nil {
			return err
		}
	}
	r.hiddenBanner(w, hidden, layout)

	if bt.Panic != nil {
		r.renderPanic(w, bt.Panic)
	}
	fmt.Fprintln(w)
	return nil
}

func (r *Renderer) hiddenBanner(w io.Writer, hidden int, layout Layout) {
	if hidden == 0 {
		return
	}
	msg := fmt.Sprintf(" (%d frames hidden) ", hidden)
	if hidden == 1 {
		msg = " (1 frame hidden) "
	}
	fmt.Fprintln(w, r.theme.Hidden.Render(center(msg, '┄', layout.TotalWidth)))
}

func (r *Renderer) renderFrame(w io.Writer, frame trace.Frame, layout Layout) error {
	fmt.Fprintf(w, "%*d: %s\n",
		layout.FrameNoWidth, frame.FrameNo, r.theme.Function.Render(frame.Function))
	if frame.Source == nil {
		return nil
	}
	r.renderSource(w, *frame.Source, layout)
	return r.renderSnippet(w, *frame.Source, layout)
}

// renderSource prints the "at file:line:col" line under the frame-number
// gutter, wrapped in a hyperlink when links are enabled and the path
// canonicalizes. An unresolvable path degrades to plain text.
func (r *Renderer) renderSource(w io.Writer, src trace.SourceInfo, layout Layout) {
	text := fmt.Sprintf("%s:%d:%d", src.File, src.Line, src.Col)
	gutter := strings.Repeat(" ", layout.FrameNoWidth)
	if r.links.Enabled {
		if path, err := canonicalPath(src.File); err == nil {
			url := r.links.Expand(path, src.Line, src.Col)
			fmt.Fprintf(w, "%s  at %s\n", gutter, hyperlink(url, text))
			return
		}
	}
	fmt.Fprintf(w, "%s  at %s\n", gutter, text)
}

func (r *Renderer) renderPanic(w io.Writer, p *trace.PanicInfo) {
	style := r.theme.Panic
	fmt.Fprintln(w, style.Render(fmt.Sprintf("thread '%s' panicked at %s", p.Thread, p.At)))
	for _, line := range p.Message {
		fmt.Fprintln(w, style.Render(line))
	}
}

// center pads s to width with fill on both sides, the spare column going
// right. Width is measured in display cells, not bytes.
func center(s string, fill rune, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	left := gap / 2
	return strings.Repeat(string(fill), left) + s + strings.Repeat(string(fill), gap-left)
}
