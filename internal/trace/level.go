package trace

import (
	"fmt"
	"slices"
	"strings"
)

// Level controls how much is recorded.
type Level uint8

const (
	LevelOff Level = iota
	// LevelError streams nothing; commands and passes are kept in the
	// ring so they can be printed when a command fails.
	LevelError
	LevelPhase  // CLI commands and pipeline passes
	LevelDetail // plus per-template compilations
	LevelDebug  // plus includes
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the names printed by Level.String, case-insensitively.
func ParseLevel(s string) (Level, error) {
	if i := slices.Index(levelNames[:], strings.ToLower(strings.TrimSpace(s))); i >= 0 {
		return Level(i), nil
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// Scope orders events from coarse to fine.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // a natec command
	ScopePass                    // generate, check
	ScopeTemplate                // one compilation and its phases
	ScopeInclude                 // an included file
)

var scopeNames = [...]string{"", "driver", "pass", "template", "include"}

func (s Scope) String() string {
	if s > 0 && int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// deepest scope each level lets through
var levelScope = [...]Scope{
	LevelOff:    0,
	LevelError:  ScopePass,
	LevelPhase:  ScopePass,
	LevelDetail: ScopeTemplate,
	LevelDebug:  ScopeInclude,
}

// Allows reports whether events of scope are recorded at level l.
func (l Level) Allows(scope Scope) bool {
	if int(l) >= len(levelScope) {
		return false
	}
	return scope != 0 && scope <= levelScope[l]
}
