package render

import (
	"bytes"
	"io"
	"strings"
)

const reserved = "\"&'<>"

// entities is indexed by c - '"'; all reserved bytes fall in '"'..'>'.
var entities = [...]string{
	'"' - '"':  "&#34;",
	'&' - '"':  "&#38;",
	'\'' - '"': "&#39;",
	'<' - '"':  "&#60;",
	'>' - '"':  "&#62;",
}

// EscapeString writes s to w with the XML-reserved characters replaced by
// numeric entities.
func EscapeString(w io.Writer, s string) error {
	for len(s) > 0 {
		i := strings.IndexAny(s, reserved)
		if i < 0 {
			_, err := io.WriteString(w, s)
			return err
		}
		if i > 0 {
			if _, err := io.WriteString(w, s[:i]); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, entities[s[i]-'"']); err != nil {
			return err
		}
		s = s[i+1:]
	}
	return nil
}

// EscapeBytes is EscapeString for byte slices.
func EscapeBytes(w io.Writer, b []byte) error {
	for len(b) > 0 {
		i := bytes.IndexAny(b, reserved)
		if i < 0 {
			_, err := w.Write(b)
			return err
		}
		if i > 0 {
			if _, err := w.Write(b[:i]); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, entities[b[i]-'"']); err != nil {
			return err
		}
		b = b[i+1:]
	}
	return nil
}

// EscapeWriter escapes everything written through it.
type EscapeWriter struct {
	w io.Writer
}

// NewEscapeWriter wraps w.
func NewEscapeWriter(w io.Writer) *EscapeWriter {
	return &EscapeWriter{w: w}
}

// Write reports len(p) on success; the count written to the underlying
// writer is larger when entities were substituted.
func (e *EscapeWriter) Write(p []byte) (int, error) {
	if err := EscapeBytes(e.w, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (e *EscapeWriter) WriteString(s string) (int, error) {
	if err := EscapeString(e.w, s); err != nil {
		return 0, err
	}
	return len(s), nil
}
