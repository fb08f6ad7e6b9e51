package trace

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Parser accumulates classified lines and assembles them into backtraces.
// Feed it lines in the order they arrive, then call Backtraces once the
// stream is exhausted.
type Parser struct {
	panicRe  *regexp.Regexp
	frameRe  *regexp.Regexp
	sourceRe *regexp.Regexp
	events   []Event
}

// NewParser returns a Parser with its patterns precompiled.
func NewParser() *Parser {
	return &Parser{
		panicRe:  regexp.MustCompile(`^thread\s+'([^']+)'\s+panicked\s+at\s+(.+)`),
		frameRe:  regexp.MustCompile(`^\s+(\d+):\s+(?:\w+\s+-\s+)?(.+)`),
		sourceRe: regexp.MustCompile(`^\s+at\s+([^:]+):(\d+):(\d+)`),
	}
}

// ParseLine classifies one line and appends the resulting event. The only
// error path is a numeric capture that fails to parse, which the patterns
// are supposed to make impossible; it is reported rather than swallowed
// because a silent zero would corrupt frame ordering.
func (p *Parser) ParseLine(line string) error {
	ev, err := p.Classify(line)
	if err != nil {
		return err
	}
	p.events = append(p.events, ev)
	return nil
}

// Classify pattern-matches a single line into an event. Patterns are tried
// in a fixed priority order; the first match wins and anything left over is
// an Other carrying the line verbatim.
func (p *Parser) Classify(line string) (Event, error) {
	if strings.EqualFold(line, "stack backtrace:") {
		return BacktraceStart{}, nil
	}
	if m := p.panicRe.FindStringSubmatch(line); m != nil {
		return ThreadPanic{Thread: m[1], At: m[2]}, nil
	}
	if m := p.frameRe.FindStringSubmatch(line); m != nil {
		frameNo, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("frame number %q in %q: %w", m[1], line, err)
		}
		return FrameHeader{Function: m[2], FrameNo: frameNo}, nil
	}
	if m := p.sourceRe.FindStringSubmatch(line); m != nil {
		lineNo, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("line number %q in %q: %w", m[2], line, err)
		}
		col, err := strconv.Atoi(m[3])
		if err != nil {
			return nil, fmt.Errorf("column %q in %q: %w", m[3], line, err)
		}
		return FrameSource{Source: SourceInfo{File: m[1], Line: lineNo, Col: col}}, nil
	}
	return Other{Text: line}, nil
}
