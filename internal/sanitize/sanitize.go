// Package sanitize escapes text destined for error displays and fix renderings.
//
// Error messages and fix descriptions often embed fragments copied from
// compiler output, config files or user input. Those fragments may carry
// terminal escape sequences or other control bytes. Everything rendered by the
// engine passes through this package so report layers can print it verbatim.
package sanitize

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Text escapes every control character except newline and tab.
//
// Escapes use Go's \xHH form for bytes below 0x80 and \u form otherwise.
// Invalid UTF-8 bytes become U+FFFD.
//
// Examples:
//
//	"plain"        -> "plain"
//	"a\x1b[31mb"   -> "a\\x1b[31mb"
//	"line1\nline2" -> "line1\nline2"
func Text(s string) string {
	return escape(s, func(r rune) bool { return r == '\n' || r == '\t' })
}

// Line escapes every control character, including newline and tab.
// Use it for values that must stay on one line, such as shell commands.
func Line(s string) string {
	return escape(s, func(rune) bool { return false })
}

// Clean reports whether s contains no control characters other than
// newline and tab.
func Clean(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if r == '\n' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func escape(s string, keep func(rune) bool) string {
	if !needsEscape(s, keep) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch {
		case r == utf8.RuneError:
			b.WriteRune('�')
		case unicode.IsControl(r) && !keep(r):
			if r < utf8.RuneSelf {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				fmt.Fprintf(&b, `\u%04x`, r)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsEscape(s string, keep func(rune) bool) bool {
	if !utf8.ValidString(s) {
		return true
	}
	for _, r := range s {
		if unicode.IsControl(r) && !keep(r) {
			return true
		}
	}
	return false
}
