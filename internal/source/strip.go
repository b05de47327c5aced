package source

import (
	"bytes"
	"fmt"
	"strings"
)

// StripMode selects a whitespace pre-pass applied to template bytes before
// tokenization. Delimiter trim markers still apply afterwards.
type StripMode uint8

const (
	// StripNone keeps the input untouched.
	StripNone StripMode = iota
	// StripTail removes a single trailing '\n'. A preceding '\r' stays.
	StripTail
	// StripTrim trims every line and drops empty lines.
	StripTrim
	// StripEager trims lines and collapses inner runs of ASCII whitespace
	// (space, tab, CR, form feed) to one space. Vertical tab is kept.
	StripEager
)

var stripNames = [...]string{"none", "tail", "trim", "eager"}

func (m StripMode) String() string {
	if int(m) < len(stripNames) {
		return stripNames[m]
	}
	return fmt.Sprintf("StripMode(%d)", m)
}

// ParseStripMode accepts the names produced by String. An empty string means none.
func ParseStripMode(s string) (StripMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return StripNone, nil
	case "tail":
		return StripTail, nil
	case "trim":
		return StripTrim, nil
	case "eager":
		return StripEager, nil
	}
	return StripNone, fmt.Errorf("unknown strip mode %q (want none, tail, trim or eager)", s)
}

// Apply returns the stripped content. The input is not modified.
func (m StripMode) Apply(content []byte) []byte {
	switch m {
	case StripTail:
		if n := len(content); n > 0 && content[n-1] == '\n' {
			return content[:n-1]
		}
		return content
	case StripTrim, StripEager:
		out := make([]byte, 0, len(content))
		for line := range bytes.Lines(content) {
			line = bytes.TrimSpace(line)
			if len(line) == 0 {
				continue
			}
			if len(out) > 0 {
				out = append(out, '\n')
			}
			if m == StripEager {
				out = appendCollapsed(out, line)
			} else {
				out = append(out, line...)
			}
		}
		return out
	default:
		return content
	}
}

func appendCollapsed(out, line []byte) []byte {
	inSpace := false
	for _, b := range line {
		if b == ' ' || b == '\t' || b == '\r' || b == '\f' {
			if !inSpace {
				out = append(out, ' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		out = append(out, b)
	}
	return out
}
