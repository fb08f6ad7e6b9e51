package trace

// Backtraces walks the accumulated events in a single forward pass and
// returns every complete backtrace found. A backtrace is only emitted when
// at least one frame accumulated since the previous boundary, so repeated
// "stack backtrace:" markers with nothing between them produce nothing.
//
// Panic info gathered before a boundary attaches to whichever backtrace
// follows it. Panic info that is never followed by a frame before the end
// of input is dropped; that matches the observed behavior of the runtime
// wrapper this replaces, ambiguous as it is.
func (p *Parser) Backtraces() []Backtrace {
	var out []Backtrace
	var frames []Frame
	var panicInfo *PanicInfo
	collecting := false

	for i := 0; i < len(p.events); i++ {
		switch ev := p.events[i].(type) {
		case ThreadPanic:
			// A frameless in-progress panic is overwritten, not flushed.
			collecting = true
			panicInfo = &PanicInfo{Thread: ev.Thread, At: ev.At}
		case Other:
			if panicInfo != nil && collecting {
				panicInfo.Message = append(panicInfo.Message, ev.Text)
			}
		case BacktraceStart:
			collecting = false
			if len(frames) > 0 {
				out = append(out, Backtrace{Frames: frames, Panic: panicInfo})
				frames = nil
				panicInfo = nil
			}
		case FrameHeader:
			collecting = false
			frame := Frame{Function: ev.Function, FrameNo: ev.FrameNo}
			// One token of lookahead: a source line immediately after a
			// header belongs to that header's frame.
			if i+1 < len(p.events) {
				if src, ok := p.events[i+1].(FrameSource); ok {
					source := src.Source
					frame.Source = &source
					i++
				}
			}
			frames = append(frames, frame)
		case FrameSource:
			// Unreachable in well-formed input: source lines are consumed
			// by the preceding header. A stray one is dropped.
			collecting = false
		}
	}

	if len(frames) > 0 {
		out = append(out, Backtrace{Frames: frames, Panic: panicInfo})
	}
	return out
}
