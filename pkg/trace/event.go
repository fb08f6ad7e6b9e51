package trace

// Event is one classified input line. Events are pure data; the assembler
// decides what they mean in sequence. The set of implementations is closed:
// consumers switch exhaustively over the concrete types.
type Event interface {
	event()
}

// ThreadPanic is a line of the form
//
//	thread 'main' panicked at src/main.rs:3:5:
//
// At keeps everything after "panicked at" verbatim.
type ThreadPanic struct {
	Thread string
	At     string
}

// BacktraceStart is the literal "stack backtrace:" marker.
type BacktraceStart struct{}

// FrameHeader is the first line of a frame, carrying its ordinal and
// function name:
//
//	  28: rustc_middle::ty::context::tls::enter_context
type FrameHeader struct {
	Function string
	FrameNo  int
}

// FrameSource is the indented "at file:line:col" line that follows a frame
// header.
type FrameSource struct {
	Source SourceInfo
}

// Other is any line that matches none of the backtrace patterns. Text is
// preserved byte for byte.
type Other struct {
	Text string
}

func (ThreadPanic) event()    {}
func (BacktraceStart) event() {}
func (FrameHeader) event()    {}
func (FrameSource) event()    {}
func (Other) event()          {}
