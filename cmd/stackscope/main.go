// stackscope runs a command, captures its stderr, and re-renders any Rust
// panic backtraces it finds with colors, collapsed noise frames, source
// snippets, and optional hyperlinks.
//
// Usage:
//
//	stackscope [flags] -- cargo run
//	stackscope --style full -- cargo test
//
// The captured lines are echoed as they arrive (disable with
// --hide-output or echo = false in stackscope.toml); the prettified
// backtraces print after the child exits. The child's exit code is
// propagated.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"

	"github.com/dkoosis/stackscope/internal/config"
	"github.com/dkoosis/stackscope/pkg/hide"
	"github.com/dkoosis/stackscope/pkg/render"
	"github.com/dkoosis/stackscope/pkg/trace"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	style         string
	libBacktrace  string
	clicolorForce string
	hideOutput    bool
	theme         string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("stackscope", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	fs.StringVar(&opts.style, "style", "",
		"Backtrace style: short (RUST_BACKTRACE=1) or full (RUST_BACKTRACE=full)")
	fs.StringVar(&opts.libBacktrace, "lib-backtrace", "no",
		"Enable Backtrace::capture in the child: yes or no (no sets RUST_LIB_BACKTRACE=0)")
	fs.StringVar(&opts.clicolorForce, "clicolor-force", "yes",
		"Force colored child output: yes sets CLICOLOR_FORCE=1")
	fs.BoolVar(&opts.hideOutput, "hide-output", false,
		"Suppress the live echo of captured lines")
	fs.StringVar(&opts.theme, "theme", "default", "Theme: default, mono")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cmdArgs := fs.Args()
	if len(cmdArgs) == 0 {
		fmt.Fprintln(stderr, "stackscope: no command given")
		fs.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "stackscope: %v\n", err)
		return 2
	}
	if err := applyFlags(&cfg, opts); err != nil {
		fmt.Fprintf(stderr, "stackscope: %v\n", err)
		return 2
	}
	rules, err := cfg.CompileRules()
	if err != nil {
		fmt.Fprintf(stderr, "stackscope: %v\n", err)
		return 2
	}

	child := exec.Command(cmdArgs[0], cmdArgs[1:]...)
	child.Stdin = stdin
	child.Stdout = stdout
	child.Env = childEnv(os.Environ(), cfg, opts)
	pipe, err := child.StderrPipe()
	if err != nil {
		fmt.Fprintf(stderr, "stackscope: %v\n", err)
		return 2
	}

	fmt.Fprintf(stdout, "$ %s\n", strings.Join(cmdArgs, " "))
	if err := child.Start(); err != nil {
		fmt.Fprintf(stderr, "stackscope: starting %s: %v\n", cmdArgs[0], err)
		return 2
	}

	echo := cfg.Echo && !opts.hideOutput
	parser := trace.NewParser()
	sc := bufio.NewScanner(pipe)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if echo {
			fmt.Fprintln(stderr, line)
		}
		if err := parser.ParseLine(line); err != nil {
			fmt.Fprintf(stderr, "stackscope: internal error: %v\n", err)
			_ = child.Process.Kill()
			_ = child.Wait()
			return 2
		}
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(stderr, "stackscope: reading child stderr: %v\n", err)
		_ = child.Wait()
		return 2
	}

	code := 0
	if err := child.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(stderr, "stackscope: %v\n", err)
			return 2
		}
		code = exitErr.ExitCode()
	}

	theme := render.ThemeByName(opts.theme)
	if os.Getenv("NO_COLOR") != "" {
		theme = render.MonoTheme()
	}
	links := render.Hyperlinks{Enabled: cfg.Hyperlinks.Enabled, URL: cfg.Hyperlinks.URL}
	renderer := render.New(theme, links, termWidth(stderr))
	filter := hide.NewFilter(rules)
	for _, bt := range parser.Backtraces() {
		if err := renderer.Render(stderr, bt, filter); err != nil {
			fmt.Fprintf(stderr, "stackscope: %v\n", err)
			return 2
		}
	}
	return code
}

// applyFlags overlays CLI flags onto the resolved configuration and
// validates the yes/no flags.
func applyFlags(cfg *config.Config, opts options) error {
	if opts.style != "" {
		if opts.style != config.StyleShort && opts.style != config.StyleFull {
			return fmt.Errorf("--style must be %q or %q, got %q",
				config.StyleShort, config.StyleFull, opts.style)
		}
		cfg.Style = opts.style
	}
	for name, value := range map[string]string{
		"lib-backtrace":  opts.libBacktrace,
		"clicolor-force": opts.clicolorForce,
	} {
		if value != "yes" && value != "no" {
			return fmt.Errorf("--%s must be \"yes\" or \"no\", got %q", name, value)
		}
	}
	return nil
}

// childEnv builds the child's environment: the parent's, plus the
// backtrace-related variables and the config env table.
func childEnv(base []string, cfg config.Config, opts options) []string {
	env := append([]string(nil), base...)
	env = append(env, "RUST_BACKTRACE="+cfg.BacktraceEnv())
	if opts.libBacktrace == "no" {
		env = append(env, "RUST_LIB_BACKTRACE=0")
	}
	if opts.clicolorForce == "yes" {
		env = append(env, "CLICOLOR_FORCE=1")
	}
	for k, v := range cfg.Env {
		env = append(env, k+"="+v)
	}
	return env
}

// termWidth returns the terminal column count for w, or 0 when w is not a
// terminal; the layout falls back to 80 columns in that case.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return 0
}
