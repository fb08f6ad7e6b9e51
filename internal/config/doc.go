// Package config handles configuration loading and merging for stackscope.
//
// # Configuration Precedence
//
// Values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--style, --hide-output, --theme, etc.)
//  2. The nearest stackscope.toml or .stackscope.toml walking up from the
//     working directory
//  3. stackscope.toml or .stackscope.toml in the home directory
//  4. Hardcoded defaults
//
// A file only overrides the fields it sets; everything else falls through
// to the layer below. The hide rule list and the env table are replaced
// wholesale when set, not merged entry by entry.
//
// # Hide Rules
//
// Each [[hide]] table takes either a pattern key, hiding every frame whose
// function matches, or a begin key with an optional end key, hiding the
// inclusive span of frames between the two matches:
//
//	[[hide]]
//	pattern = "core::panicking"
//
//	[[hide]]
//	begin = "std::sys::backtrace::__rust_begin_short_backtrace"
//	end = "std::rt::lang_start"
//
// pattern and begin are mutually exclusive; supplying both, or neither, is
// a configuration error.
package config
