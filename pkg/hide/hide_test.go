package hide

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/stackscope/pkg/trace"
)

// hiddenSet is a test helper that runs one traversal over functions and
// returns which of them the filter hid.
func hiddenSet(t *testing.T, f *Filter, functions ...string) []bool {
	t.Helper()
	f.Reset()
	out := make([]bool, len(functions))
	for i, fn := range functions {
		out[i] = f.Hide(trace.Frame{Function: fn})
	}
	return out
}

func TestFilter_When_PatternRule_HidesEveryMatch(t *testing.T) {
	t.Parallel()

	f := NewFilter([]Rule{Pattern{Re: regexp.MustCompile(`core::panicking`)}})

	got := hiddenSet(t, f,
		"core::panicking::panic_fmt",
		"my_crate::run",
		"core::panicking::panic",
	)
	assert.Equal(t, []bool{true, false, true}, got)
}

func TestFilter_When_SpanRule_HidesBothBoundaryFrames(t *testing.T) {
	t.Parallel()

	f := NewFilter([]Rule{Span{
		Begin: regexp.MustCompile(`^b$`),
		End:   regexp.MustCompile(`^c$`),
	}})

	got := hiddenSet(t, f, "a", "b", "c", "d")
	assert.Equal(t, []bool{false, true, true, false}, got)
}

func TestFilter_When_SpanRuleWithoutEnd_HidesToEndOfTraversal(t *testing.T) {
	t.Parallel()

	f := NewFilter([]Rule{Span{Begin: regexp.MustCompile(`^b$`)}})

	got := hiddenSet(t, f, "a", "b", "c", "d")
	assert.Equal(t, []bool{false, true, true, true}, got)
}

func TestFilter_When_SpanNeverBegins_HidesNothing(t *testing.T) {
	t.Parallel()

	f := NewFilter([]Rule{Span{Begin: regexp.MustCompile(`absent`)}})

	got := hiddenSet(t, f, "a", "b", "c")
	assert.Equal(t, []bool{false, false, false}, got)
}

func TestFilter_When_AnyRuleMatches_FrameIsHidden(t *testing.T) {
	t.Parallel()

	f := NewFilter([]Rule{
		Pattern{Re: regexp.MustCompile(`^x$`)},
		Pattern{Re: regexp.MustCompile(`^y$`)},
	})

	got := hiddenSet(t, f, "x", "y", "z")
	assert.Equal(t, []bool{true, true, false}, got)
}

func TestFilter_When_Reset_SpanStateDoesNotLeakAcrossBacktraces(t *testing.T) {
	t.Parallel()

	f := NewFilter([]Rule{Span{Begin: regexp.MustCompile(`^begin$`)}})

	first := hiddenSet(t, f, "a", "begin", "b")
	require.Equal(t, []bool{false, true, true}, first)

	// A fresh traversal must start outside the span again.
	second := hiddenSet(t, f, "c", "d")
	assert.Equal(t, []bool{false, false}, second)
}

func TestFilter_When_SpanReopens_AfterClosing(t *testing.T) {
	t.Parallel()

	f := NewFilter([]Rule{Span{
		Begin: regexp.MustCompile(`^open$`),
		End:   regexp.MustCompile(`^close$`),
	}})

	got := hiddenSet(t, f, "open", "close", "between", "open", "inside")
	assert.Equal(t, []bool{true, true, false, true, true}, got)
}

func TestFilter_When_NoRules_HidesNothing(t *testing.T) {
	t.Parallel()

	f := NewFilter(nil)
	got := hiddenSet(t, f, "anything")
	assert.Equal(t, []bool{false}, got)
}
