// Package hide decides which backtrace frames to suppress. Rules come in
// two shapes: a Pattern hides any frame whose function matches, and a Span
// hides a contiguous run of frames between a begin match and an optional
// end match, both boundary frames included.
package hide

import (
	"regexp"

	"github.com/dkoosis/stackscope/pkg/trace"
)

// Rule is one hide rule. The set of implementations is closed.
type Rule interface {
	isRule()
}

// Pattern hides every frame whose function name matches Re. Stateless.
type Pattern struct {
	Re *regexp.Regexp
}

// Span hides the frames from a Begin match through an End match inclusive.
// With a nil End the span never closes: everything from the first Begin
// match to the end of the backtrace is hidden.
type Span struct {
	Begin *regexp.Regexp
	End   *regexp.Regexp
}

func (Pattern) isRule() {}
func (Span) isRule()    {}

// Filter applies a rule set to frames presented in display order. Span
// rules carry an "inside" flag across consecutive Hide calls, so a Filter
// must be Reset before each backtrace traversal.
type Filter struct {
	rules  []Rule
	inside []bool
}

// NewFilter builds a filter over rules. The rule set is borrowed and never
// mutated; all traversal state lives in the Filter itself.
func NewFilter(rules []Rule) *Filter {
	return &Filter{rules: rules, inside: make([]bool, len(rules))}
}

// Reset rearms every span rule. Call it at the start of each backtrace so
// one trace's spans never leak into the next.
func (f *Filter) Reset() {
	for i := range f.inside {
		f.inside[i] = false
	}
}

// Hide reports whether frame should be suppressed. Rules are tried in
// order and the first one that hides wins, so a span rule after a matching
// rule does not observe this frame.
func (f *Filter) Hide(frame trace.Frame) bool {
	for i, rule := range f.rules {
		if f.match(i, rule, frame.Function) {
			return true
		}
	}
	return false
}

func (f *Filter) match(i int, rule Rule, function string) bool {
	switch r := rule.(type) {
	case Pattern:
		return r.Re.MatchString(function)
	case Span:
		if f.inside[i] {
			if r.End == nil {
				return true
			}
			// The frame matching End is still hidden; the span closes
			// for the frame after it.
			f.inside[i] = !r.End.MatchString(function)
			return true
		}
		f.inside[i] = r.Begin.MatchString(function)
		return f.inside[i]
	default:
		return false
	}
}
