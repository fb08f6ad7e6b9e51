package render

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Hyperlinks configures clickable source locations. URL is a template with
// ${FILE_PATH}, ${LINE} and ${COLUMN} placeholders. Substitution is plain
// string replacement with no percent-encoding, so paths containing URL
// metacharacters produce malformed links; callers that care should pick a
// template that tolerates them.
type Hyperlinks struct {
	Enabled bool
	URL     string
}

// Expand fills the template placeholders. file should already be
// canonicalized.
func (h Hyperlinks) Expand(file string, line, col int) string {
	s := strings.ReplaceAll(h.URL, "${LINE}", strconv.Itoa(line))
	s = strings.ReplaceAll(s, "${COLUMN}", strconv.Itoa(col))
	return strings.ReplaceAll(s, "${FILE_PATH}", file)
}

// hyperlink wraps text in an OSC 8 terminal escape targeting url.
func hyperlink(url, text string) string {
	return "\x1b]8;;" + url + "\x1b\\" + text + "\x1b]8;;\x1b\\"
}

// canonicalPath resolves path to an absolute, symlink-free form for use in
// link URLs. Fails when the path does not resolve on the local filesystem.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
