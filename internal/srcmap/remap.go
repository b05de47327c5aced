package srcmap

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"fortio.org/safecast"
)

// compiler diagnostics: path.go:line:col: msg or path.go:line: msg
var diagLine = regexp.MustCompile(`^(\s*)(\S+\.go):(\d+)(?::(\d+))?: (.*)$`)

// Opener reads a file named in compiler output.
type Opener func(path string) ([]byte, error)

// Remap copies compiler output from r to w. Lines pointing into generated
// files are rewritten to point at the template instead; everything else
// passes through unchanged.
func Remap(r io.Reader, w io.Writer, open Opener) error {
	maps := map[string]*Map{}
	lookup := func(path string) *Map {
		if m, ok := maps[path]; ok {
			return m
		}
		var m *Map
		if content, err := open(path); err == nil {
			if parsed := Parse(content); parsed.Generated {
				m = parsed
			}
		}
		maps[path] = m
		return m
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	bw := bufio.NewWriter(w)
	for sc.Scan() {
		line := sc.Text()
		if out, ok := remapLine(line, lookup); ok {
			line = out
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return bw.Flush()
}

func remapLine(line string, lookup func(string) *Map) (string, bool) {
	sub := diagLine.FindStringSubmatch(line)
	if sub == nil {
		return "", false
	}
	indent, path, lineStr, colStr, msg := sub[1], sub[2], sub[3], sub[4], sub[5]
	m := lookup(path)
	if m == nil {
		return "", false
	}
	n, err := strconv.Atoi(lineStr)
	if err != nil {
		return "", false
	}
	a, ok := m.Lookup(n)
	if !ok {
		return "", false
	}
	gen := path + ":" + lineStr
	if colStr != "" {
		gen += ":" + colStr
	}
	return fmt.Sprintf("%s%s:%d:%d: %s (generated %s)", indent, a.Path, a.Row, a.Col, msg, gen), true
}

func toU32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0
	}
	return v
}
