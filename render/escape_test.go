package render_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nate/render"
)

func escaped(s string) string {
	var sb strings.Builder
	if err := render.EscapeString(&sb, s); err != nil {
		panic(err)
	}
	return sb.String()
}

func TestEscapeReservedCharacters(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"`, "&#34;"},
		{`&`, "&#38;"},
		{`'`, "&#39;"},
		{`<`, "&#60;"},
		{`>`, "&#62;"},
		{`<a href="x">Tom & Jerry's</a>`, "&#60;a href=&#34;x&#34;&#62;Tom &#38; Jerry&#39;s&#60;/a&#62;"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escaped(tt.in), "input %q", tt.in)
	}
}

func TestEscapeLeavesOtherBytesAlone(t *testing.T) {
	// Every ASCII byte except the reserved five, plus multi-byte UTF-8.
	var sb strings.Builder
	for c := 0; c < 0x80; c++ {
		if !strings.ContainsRune(`"&'<>`, rune(c)) {
			sb.WriteByte(byte(c))
		}
	}
	sb.WriteString("привет ✓ 世界 #$%()*+-./:;=?@[]^_`{|}~")
	in := sb.String()
	assert.Equal(t, in, escaped(in))
}

func TestEscapeIsInjective(t *testing.T) {
	seen := map[string]string{}
	for _, in := range []string{`"`, `&`, `'`, `<`, `>`, `&#34;`, `&#38;`} {
		out := escaped(in)
		if prev, ok := seen[out]; ok {
			t.Fatalf("%q and %q both escape to %q", prev, in, out)
		}
		seen[out] = in
	}
}

func TestEscapeBytesMatchesString(t *testing.T) {
	in := `x<y & "z"`
	var sb strings.Builder
	require.NoError(t, render.EscapeBytes(&sb, []byte(in)))
	assert.Equal(t, escaped(in), sb.String())
}

func TestEscapeWriter(t *testing.T) {
	var sb strings.Builder
	ew := render.NewEscapeWriter(&sb)
	n, err := ew.Write([]byte("<b>"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	_, err = ew.WriteString("&")
	require.NoError(t, err)
	assert.Equal(t, "&#60;b&#62;&#38;", sb.String())
}

type failWriter struct{ after int }

var errSink = errors.New("sink closed")

func (f *failWriter) Write(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errSink
	}
	f.after--
	return len(p), nil
}

func TestEscapePropagatesWriterError(t *testing.T) {
	for after := 0; after < 3; after++ {
		err := render.EscapeString(&failWriter{after: after}, "a<b>c")
		assert.ErrorIs(t, err, errSink, "failing after %d writes", after)
	}
}
