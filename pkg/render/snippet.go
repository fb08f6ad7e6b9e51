package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/dkoosis/stackscope/pkg/trace"
)

// renderSnippet prints up to five source lines centered on the reported
// line: two of leading context, the line itself in the target style, two
// of trailing context, clipped at file boundaries. A file that does not
// exist locally is skipped without error; a read failure mid-snippet is
// reported and leaves whatever was already printed.
func (r *Renderer) renderSnippet(w io.Writer, src trace.SourceInfo, layout Layout) error {
	f, err := os.Open(src.File)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("opening %s: %w", src.File, err)
	}
	defer f.Close()

	start := src.Line - 2
	if start < 1 {
		start = 1
	}
	stop := src.Line + 2

	gutter := strings.Repeat(" ", layout.FrameNoWidth)
	sc := bufio.NewScanner(f)
	for n := 1; n <= stop && sc.Scan(); n++ {
		if n < start {
			continue
		}
		line := fmt.Sprintf("%s    %*d | %s", gutter, layout.LineNoWidth, n, sc.Text())
		if n == src.Line {
			line = r.theme.Target.Render(line)
		}
		fmt.Fprintln(w, line)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", src.File, err)
	}
	return nil
}
