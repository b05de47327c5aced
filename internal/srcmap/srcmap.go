// Package srcmap maps lines of generated Go files back to template
// positions using the //nate:addr comments the generator writes.
package srcmap

import (
	"bytes"
	"sort"
	"strconv"
	"strings"

	"nate/internal/codegen"
	"nate/internal/lexer"
)

// Addr is a template position recorded in generated code.
type Addr struct {
	// Line is the generated line holding the comment.
	Line   int
	Path   string
	Offset int
	Row    int
	Col    int
}

// Dep is a template file referenced by a //nate:dep marker.
type Dep struct {
	Path   string
	SHA256 string
}

// Map indexes the markers of one generated file.
type Map struct {
	Addrs []Addr // sorted by Line
	Deps  []Dep
	// Generated reports whether the file carries the natec header.
	Generated bool
}

// Parse scans content for natec markers.
func Parse(content []byte) *Map {
	m := &Map{}
	first, _, _ := bytes.Cut(content, []byte("\n"))
	m.Generated = string(bytes.TrimRight(first, "\r")) == codegen.Header

	line := 0
	for raw := range bytes.Lines(content) {
		line++
		text := strings.TrimSpace(string(raw))
		if rest, ok := strings.CutPrefix(text, codegen.AddrMarker+" "); ok {
			if a, ok := parseAddr(rest); ok {
				a.Line = line
				m.Addrs = append(m.Addrs, a)
			}
			continue
		}
		// Only the scope line opening a spliced file counts; the marker can
		// also appear inside literal text.
		if rest, ok := strings.CutPrefix(text, "{ "+lexer.DepMarker+" "); ok {
			fields := parseFields(rest)
			if fields["path"] != "" {
				m.Deps = append(m.Deps, Dep{Path: fields["path"], SHA256: fields["sha256"]})
			}
		}
	}
	return m
}

// Lookup returns the nearest address at or above the generated line.
func (m *Map) Lookup(line int) (Addr, bool) {
	i := sort.Search(len(m.Addrs), func(i int) bool { return m.Addrs[i].Line > line })
	if i == 0 {
		return Addr{}, false
	}
	return m.Addrs[i-1], true
}

func parseAddr(s string) (Addr, bool) {
	fields := parseFields(s)
	path, ok := fields["path"]
	if !ok {
		return Addr{}, false
	}
	a := Addr{Path: path}
	for _, f := range []struct {
		key string
		dst *int
	}{{"offset", &a.Offset}, {"row", &a.Row}, {"col", &a.Col}} {
		n, err := strconv.Atoi(fields[f.key])
		if err != nil {
			return Addr{}, false
		}
		*f.dst = n
	}
	return a, true
}

// parseFields reads space-separated key=value pairs; values may be Go-quoted.
func parseFields(s string) map[string]string {
	out := map[string]string{}
	for {
		s = strings.TrimLeft(s, " \t")
		key, rest, ok := strings.Cut(s, "=")
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			return out
		}
		var val string
		if strings.HasPrefix(rest, `"`) {
			q, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return out
			}
			val, _ = strconv.Unquote(q)
			rest = rest[len(q):]
		} else {
			end := strings.IndexAny(rest, " \t")
			if end < 0 {
				end = len(rest)
			}
			val, rest = rest[:end], rest[end:]
		}
		out[key] = val
		s = rest
	}
}
