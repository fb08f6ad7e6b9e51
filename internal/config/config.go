package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/dkoosis/stackscope/pkg/hide"
)

// Styles accepted for the style option, controlling the RUST_BACKTRACE
// value injected into the child process.
const (
	StyleShort = "short"
	StyleFull  = "full"
)

// Config is the fully resolved configuration.
type Config struct {
	Style      string
	Echo       bool
	Hyperlinks Hyperlinks
	Env        map[string]string
	Hide       []HideRule
}

// Hyperlinks configures clickable source locations in rendered output.
type Hyperlinks struct {
	Enabled bool
	URL     string
}

// HideRule is one validated [[hide]] entry: either Pattern is set, or
// Begin is set with End optional.
type HideRule struct {
	Pattern string
	Begin   string
	End     string
}

// Default returns the built-in configuration: short style, echo on, links
// off, and a single open span hiding the panic machinery frames.
func Default() Config {
	return Config{
		Style: StyleShort,
		Echo:  true,
		Hyperlinks: Hyperlinks{
			Enabled: false,
			URL:     "file://${FILE_PATH}",
		},
		Hide: []HideRule{
			{Begin: "core::panicking::panic_explicit"},
		},
	}
}

// BacktraceEnv maps the style to its RUST_BACKTRACE value.
func (c Config) BacktraceEnv() string {
	if c.Style == StyleFull {
		return "full"
	}
	return "1"
}

// CompileRules compiles the hide rules into frame filter rules. Regex
// compile errors are configuration errors and are reported with the rule's
// position.
func (c Config) CompileRules() ([]hide.Rule, error) {
	rules := make([]hide.Rule, 0, len(c.Hide))
	for i, h := range c.Hide {
		rule, err := h.compile()
		if err != nil {
			return nil, fmt.Errorf("hide rule %d: %w", i+1, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (h HideRule) compile() (hide.Rule, error) {
	if h.Pattern != "" {
		re, err := regexp.Compile(h.Pattern)
		if err != nil {
			return nil, err
		}
		return hide.Pattern{Re: re}, nil
	}
	begin, err := regexp.Compile(h.Begin)
	if err != nil {
		return nil, err
	}
	span := hide.Span{Begin: begin}
	if h.End != "" {
		if span.End, err = regexp.Compile(h.End); err != nil {
			return nil, err
		}
	}
	return span, nil
}

// Load resolves the configuration from disk: defaults, then the home
// directory file, then the nearest file walking up from the working
// directory. Missing files are fine; unreadable or invalid ones are not.
func Load() (Config, error) {
	cfg := Default()
	if path := findHomeFile(); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if path := findLocalFile(); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// fileConfig mirrors the on-disk schema. Pointer fields distinguish "not
// set" from zero values so partial files merge correctly.
type fileConfig struct {
	Style      *string             `toml:"style"`
	Echo       *bool               `toml:"echo"`
	Hyperlinks *hyperlinksSection  `toml:"hyperlinks"`
	Env        map[string]string   `toml:"env"`
	Hide       []map[string]string `toml:"hide"`
}

type hyperlinksSection struct {
	Enabled *bool   `toml:"enabled"`
	URL     *string `toml:"url"`
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := merge(cfg, fc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// merge overlays the fields fc sets onto cfg.
func merge(cfg *Config, fc fileConfig) error {
	if fc.Style != nil {
		if *fc.Style != StyleShort && *fc.Style != StyleFull {
			return fmt.Errorf("style must be %q or %q, got %q", StyleShort, StyleFull, *fc.Style)
		}
		cfg.Style = *fc.Style
	}
	if fc.Echo != nil {
		cfg.Echo = *fc.Echo
	}
	if fc.Hyperlinks != nil {
		if fc.Hyperlinks.Enabled != nil {
			cfg.Hyperlinks.Enabled = *fc.Hyperlinks.Enabled
		}
		if fc.Hyperlinks.URL != nil {
			cfg.Hyperlinks.URL = *fc.Hyperlinks.URL
		}
	}
	if fc.Env != nil {
		cfg.Env = fc.Env
	}
	if fc.Hide != nil {
		rules := make([]HideRule, 0, len(fc.Hide))
		for i, entry := range fc.Hide {
			rule, err := decodeHideRule(entry)
			if err != nil {
				return fmt.Errorf("hide rule %d: %w", i+1, err)
			}
			rules = append(rules, rule)
		}
		cfg.Hide = rules
	}
	return nil
}

func decodeHideRule(entry map[string]string) (HideRule, error) {
	pattern, hasPattern := entry["pattern"]
	begin, hasBegin := entry["begin"]
	switch {
	case hasPattern && hasBegin:
		return HideRule{}, fmt.Errorf("cannot use `pattern` and `begin` together")
	case hasPattern:
		return HideRule{Pattern: pattern}, nil
	case hasBegin:
		return HideRule{Begin: begin, End: entry["end"]}, nil
	default:
		return HideRule{}, fmt.Errorf("missing field `pattern` or `begin`")
	}
}

var fileNames = []string{"stackscope.toml", ".stackscope.toml"}

func findHomeFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return findFileIn(home)
}

// findLocalFile walks from the working directory toward the filesystem
// root and returns the first config file found.
func findLocalFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if path := findFileIn(dir); path != "" {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func findFileIn(dir string) string {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
