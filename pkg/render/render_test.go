package render

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/dkoosis/stackscope/pkg/hide"
	"github.com/dkoosis/stackscope/pkg/trace"
)

// renderPlain is a test helper that renders bt with the mono theme and no
// links, returning the output with any ANSI escapes stripped.
func renderPlain(t *testing.T, bt trace.Backtrace, rules []hide.Rule) string {
	t.Helper()
	var buf bytes.Buffer
	r := New(MonoTheme(), Hyperlinks{}, 80)
	if err := r.Render(&buf, bt, hide.NewFilter(rules)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return stripANSI(buf.String())
}

func stripANSI(s string) string {
	var result strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 'A' || s[j] > 'Z') && (s[j] < 'a' || s[j] > 'z') {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j
		} else {
			result.WriteByte(s[i])
			i++
		}
	}
	return result.String()
}

func TestRender_When_EmptyBacktrace_EmitsNothing(t *testing.T) {
	out := renderPlain(t, trace.Backtrace{}, nil)
	if out != "" {
		t.Errorf("empty backtrace should produce no output, got %q", out)
	}
}

func TestRender_EmitsHeaderBand(t *testing.T) {
	bt := trace.Backtrace{Frames: []trace.Frame{{Function: "main", FrameNo: 0}}}
	out := renderPlain(t, bt, nil)

	if !strings.Contains(out, " BACKTRACE ") {
		t.Error("output missing ' BACKTRACE ' header label")
	}
	if !strings.Contains(out, "━") {
		t.Error("header band missing heavy rule fill")
	}
}

func TestRender_FramesPrintNewestFirst(t *testing.T) {
	bt := trace.Backtrace{Frames: []trace.Frame{
		{Function: "innermost", FrameNo: 0},
		{Function: "outermost", FrameNo: 1},
	}}
	out := renderPlain(t, bt, nil)

	inner := strings.Index(out, "innermost")
	outer := strings.Index(out, "outermost")
	if inner < 0 || outer < 0 {
		t.Fatalf("both frames should appear, got:\n%s", out)
	}
	if outer > inner {
		t.Errorf("frame 1 should print before frame 0, got:\n%s", out)
	}
}

func TestRender_FrameNumbersRightAligned(t *testing.T) {
	frames := make([]trace.Frame, 12)
	for i := range frames {
		frames[i] = trace.Frame{Function: "f", FrameNo: i}
	}
	out := renderPlain(t, trace.Backtrace{Frames: frames}, nil)

	if !strings.Contains(out, "11: f") {
		t.Error("output missing widest frame number '11: f'")
	}
	if !strings.Contains(out, " 0: f") {
		t.Error("frame 0 should be right-aligned to ' 0: f'")
	}
}

func TestRender_HiddenRun_CoalescesIntoOneBanner(t *testing.T) {
	// Parse order is innermost first; display order is the reverse:
	// shown, hidden, hidden, shown.
	bt := trace.Backtrace{Frames: []trace.Frame{
		{Function: "bottom", FrameNo: 0},
		{Function: "noise::one", FrameNo: 1},
		{Function: "noise::two", FrameNo: 2},
		{Function: "top", FrameNo: 3},
	}}
	rules := []hide.Rule{hide.Pattern{Re: regexp.MustCompile(`^noise::`)}}
	out := renderPlain(t, bt, rules)

	if got := strings.Count(out, "frames hidden"); got != 1 {
		t.Errorf("want exactly one hidden-run banner, got %d in:\n%s", got, out)
	}
	if !strings.Contains(out, "(2 frames hidden)") {
		t.Errorf("banner should read '(2 frames hidden)', got:\n%s", out)
	}
	if !strings.Contains(out, "┄") {
		t.Error("banner missing dotted rule fill")
	}
	if strings.Contains(out, "noise::one") || strings.Contains(out, "noise::two") {
		t.Error("hidden frames should not be printed")
	}

	// The banner sits between the two shown frames.
	top := strings.Index(out, "top")
	banner := strings.Index(out, "frames hidden")
	bottom := strings.Index(out, "bottom")
	if !(top < banner && banner < bottom) {
		t.Errorf("banner should appear between 'top' and 'bottom', got:\n%s", out)
	}
}

func TestRender_HiddenRun_SingularPhrasing(t *testing.T) {
	bt := trace.Backtrace{Frames: []trace.Frame{
		{Function: "bottom", FrameNo: 0},
		{Function: "noise::only", FrameNo: 1},
		{Function: "top", FrameNo: 2},
	}}
	rules := []hide.Rule{hide.Pattern{Re: regexp.MustCompile(`^noise::`)}}
	out := renderPlain(t, bt, rules)

	if !strings.Contains(out, "(1 frame hidden)") {
		t.Errorf("want singular '(1 frame hidden)', got:\n%s", out)
	}
}

func TestRender_HiddenRun_FlushesAtEndOfTraversal(t *testing.T) {
	// The innermost frames are last in display order; a run reaching the
	// end must still produce its banner.
	bt := trace.Backtrace{Frames: []trace.Frame{
		{Function: "noise::inner", FrameNo: 0},
		{Function: "noise::deeper", FrameNo: 1},
		{Function: "top", FrameNo: 2},
	}}
	rules := []hide.Rule{hide.Pattern{Re: regexp.MustCompile(`^noise::`)}}
	out := renderPlain(t, bt, rules)

	if !strings.Contains(out, "(2 frames hidden)") {
		t.Errorf("trailing hidden run should flush, got:\n%s", out)
	}
	banner := strings.Index(out, "frames hidden")
	top := strings.Index(out, "top")
	if banner < top {
		t.Errorf("trailing banner should print after the last shown frame, got:\n%s", out)
	}
}

func TestRender_PanicInfo_PrintsThreadLocationAndMessage(t *testing.T) {
	bt := trace.Backtrace{
		Frames: []trace.Frame{{Function: "main", FrameNo: 0}},
		Panic: &trace.PanicInfo{
			Thread:  "main",
			At:      "src/main.rs:3:5:",
			Message: []string{"assertion failed: x > 0"},
		},
	}
	out := renderPlain(t, bt, nil)

	if !strings.Contains(out, "thread 'main' panicked at src/main.rs:3:5:") {
		t.Errorf("output missing panic line, got:\n%s", out)
	}
	if !strings.Contains(out, "assertion failed: x > 0") {
		t.Errorf("output missing panic message line, got:\n%s", out)
	}
}

func TestRender_EndsWithBlankLine(t *testing.T) {
	bt := trace.Backtrace{Frames: []trace.Frame{{Function: "main", FrameNo: 0}}}
	out := renderPlain(t, bt, nil)

	if !strings.HasSuffix(out, "\n\n") {
		t.Errorf("output should end with a blank line, got %q", out[len(out)-4:])
	}
}

func TestRender_SourceLine_PrintsUnderFrameGutter(t *testing.T) {
	bt := trace.Backtrace{Frames: []trace.Frame{
		{Function: "foo::bar", FrameNo: 0, Source: &trace.SourceInfo{
			File: "no/such/file.rs", Line: 3, Col: 5,
		}},
	}}
	out := renderPlain(t, bt, nil)

	if !strings.Contains(out, "  at no/such/file.rs:3:5") {
		t.Errorf("output missing source location line, got:\n%s", out)
	}
}

func TestRender_FullPipeline_RoundTrip(t *testing.T) {
	p := trace.NewParser()
	for _, line := range []string{
		"thread 'main' panicked at src/main.rs:3:5:",
		"stack backtrace:",
		"   0: foo::bar",
		"             at src/main.rs:3:5",
		"   1: main",
	} {
		if err := p.ParseLine(line); err != nil {
			t.Fatalf("ParseLine(%q): %v", line, err)
		}
	}
	bts := p.Backtraces()
	if len(bts) != 1 {
		t.Fatalf("want 1 backtrace, got %d", len(bts))
	}
	out := renderPlain(t, bts[0], nil)

	for _, want := range []string{
		" BACKTRACE ",
		"1: main",
		"0: foo::bar",
		"  at src/main.rs:3:5",
		"thread 'main' panicked at src/main.rs:3:5:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q, got:\n%s", want, out)
		}
	}
}
