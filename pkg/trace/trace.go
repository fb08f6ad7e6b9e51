// Package trace turns a stream of diagnostic text lines into structured
// backtraces. Lines are classified one at a time into typed events; a
// single forward pass over the event stream then assembles zero or more
// backtraces with their associated panic metadata.
package trace

import "regexp"

// Backtrace is one complete captured stack trace plus optional panic
// metadata. Frames are stored in parse order: frame 0 (the innermost call)
// first, as the runtime emits them.
type Backtrace struct {
	Frames []Frame
	Panic  *PanicInfo
}

// Frame is one entry in a backtrace.
type Frame struct {
	Function string
	FrameNo  int
	Source   *SourceInfo
}

// SourceInfo locates a frame in a source file. Line and Col are 1-based.
type SourceInfo struct {
	File string
	Line int
	Col  int
}

// PanicInfo holds the panic line preceding a backtrace. At is the location
// text exactly as reported; Message holds any free-form lines that followed
// the panic line before the backtrace itself started.
type PanicInfo struct {
	Thread  string
	At      string
	Message []string
}

var atLocationRe = regexp.MustCompile(`^([^:]+):(\d+):(\d+):?$`)

// Location decomposes At into a SourceInfo when it has the strict
// file:line:col shape some panic formats emit. The trailing colon the
// runtime appends after the column is tolerated. Reports false for
// free-form location text.
func (p *PanicInfo) Location() (SourceInfo, bool) {
	m := atLocationRe.FindStringSubmatch(p.At)
	if m == nil {
		return SourceInfo{}, false
	}
	line, ok1 := parseDigits(m[2])
	col, ok2 := parseDigits(m[3])
	if !ok1 || !ok2 {
		return SourceInfo{}, false
	}
	return SourceInfo{File: m[1], Line: line, Col: col}, true
}

func parseDigits(s string) (int, bool) {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
		if n < 0 {
			return 0, false
		}
	}
	return n, len(s) > 0
}
