// Package codegen turns emission units into a Go source file that declares
// render methods on a user type.
package codegen

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"nate/internal/block"
	"nate/internal/source"
	"nate/internal/unit"
)

// Header is the first line of every generated file.
const Header = "// Code generated by natec. DO NOT EDIT."

// AddrMarker prefixes the comments that map generated lines back to template
// positions.
const AddrMarker = "//nate:addr"

// Generate renders the Go file for decl. The output depends only on its
// inputs, so equal templates produce byte-identical files.
func Generate(decl Decl, units []unit.Unit) ([]byte, error) {
	if err := decl.Validate(); err != nil {
		return nil, err
	}
	imports, err := decl.imports()
	if err != nil {
		return nil, err
	}
	typeArgs, err := ReceiverTypeArgs(decl.TypeParams)
	if err != nil {
		return nil, err
	}

	g := generator{decl: decl}
	g.line(Header)
	if decl.Source != "" {
		g.line("// source: " + decl.Source)
	}
	g.line("")
	g.line("package " + decl.Package)
	g.line("")
	g.line("import (")
	for _, imp := range imports {
		g.line("\t" + imp.String())
	}
	g.line(")")
	g.line("")

	rt := runtimeName
	recvType := decl.Type + typeArgs
	if decl.Pointer {
		recvType = "*" + recvType
	}
	recv := "(" + decl.receiver() + " " + recvType + ")"

	g.line("// RenderInto writes the rendered template to w.")
	g.line("func " + recv + " RenderInto(w io.Writer) error {")
	for _, u := range units {
		switch u.Kind {
		case unit.Code:
			g.code(u)
		case unit.Write:
			g.write(u, rt)
		}
	}
	g.line("\treturn nil")
	g.line("}")
	g.line("")

	self := decl.receiver()
	g.line("// String renders the template; render errors are reported inline.")
	g.line("func " + recv + " String() string { return " + rt + ".String(" + self + ") }")
	g.line("")
	g.line("// WriteTo renders the template into w.")
	g.line("func " + recv + " WriteTo(w io.Writer) (int64, error) { return " + rt + ".WriteTo(" + self + ", w) }")
	g.line("")
	g.line("// RenderString renders the template into a string.")
	g.line("func " + recv + " RenderString() (string, error) { return " + rt + ".ToString(" + self + ") }")
	g.line("")
	g.line("// RenderBytes renders the template into a byte slice.")
	g.line("func " + recv + " RenderBytes() ([]byte, error) { return " + rt + ".ToBytes(" + self + ") }")
	return g.buf.Bytes(), nil
}

type generator struct {
	decl Decl
	buf  bytes.Buffer
}

func (g *generator) line(s string) {
	g.buf.WriteString(s)
	g.buf.WriteByte('\n')
}

// addr writes the position comment for span; virtual spans get none.
func (g *generator) addr(indent string, span source.Span) {
	if span.Virtual() {
		return
	}
	pos := span.Pos()
	path := pos.Path
	if g.decl.Root != "" {
		if rel, err := source.RelativePath(path, g.decl.Root); err == nil {
			path = rel
		}
	}
	fmt.Fprintf(&g.buf, "%s%s path=%s offset=%d row=%d col=%d\n",
		indent, AddrMarker, strconv.Quote(path), pos.Offset, pos.Line, pos.Col)
}

func (g *generator) code(u unit.Unit) {
	for _, span := range u.Code {
		g.addr("\t", span)
		g.line(span.Text())
	}
}

func (g *generator) write(u unit.Unit, rt string) {
	if len(u.Parts) == 0 {
		return
	}
	g.addr("\t", u.Parts[0].Span)
	if !u.HasArgs() {
		g.line("\tif err := " + rt + ".WriteString(w, " + strconv.Quote(u.Literal()) + "); err != nil {")
		g.line("\t\treturn err")
		g.line("\t}")
		return
	}
	g.line("\tif err := " + rt + ".Writef(w, " + strconv.Quote(u.Format()) + ",")
	for _, arg := range u.Args() {
		g.addr("\t\t", arg.Span)
		expr := arg.Span.Text()
		// a line comment in the expression would swallow the closing parens
		if strings.Contains(expr, "//") {
			expr += "\n\t\t"
		}
		g.line("\t\t" + rt + "." + wrapper(arg.Data) + "((" + expr + ")),")
	}
	g.line("\t); err != nil {")
	g.line("\t\treturn err")
	g.line("\t}")
}

func wrapper(k block.DataKind) string {
	switch k {
	case block.Raw:
		return "Raw"
	case block.Debug:
		return "Debug"
	case block.Verbose:
		return "Verbose"
	default:
		return "Escape"
	}
}
