package block

import "fmt"

// Kind represents the category of a template block.
type Kind uint8

const (
	// Invalid marks the zero Block.
	Invalid Kind = iota
	// Literal is text copied to the output as-is.
	Literal
	// Code is Go source spliced verbatim into the render method.
	Code
	// Comment is dropped.
	Comment
	// Include names another template file to splice in place.
	Include
	// Data is an expression whose value is formatted into the output.
	Data
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "Literal"
	case Code:
		return "Code"
	case Comment:
		return "Comment"
	case Include:
		return "Include"
	case Data:
		return "Data"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// DataKind selects how a Data block is rendered.
type DataKind uint8

const (
	// Escaped output is XML-escaped unless the value is known to be safe: {{ … }}.
	Escaped DataKind = iota
	// Raw output is written without escaping: {{{ … }}}.
	Raw
	// Debug output uses the %#v representation, escaped: {{{{ … }}}}.
	Debug
	// Verbose output is a pretty-printed dump, escaped: {{{{{ … }}}}}.
	Verbose
)

func (k DataKind) String() string {
	switch k {
	case Escaped:
		return "Escaped"
	case Raw:
		return "Raw"
	case Debug:
		return "Debug"
	case Verbose:
		return "Verbose"
	}
	return fmt.Sprintf("DataKind(%d)", k)
}

// Delimiters describes the opener and closer of a delimited block form.
type Delimiters struct {
	Kind  Kind
	Data  DataKind
	Open  string
	Close string
	// Name is used in diagnostics ("unterminated raw data block").
	Name string
}

// Forms lists every delimited form in the priority order openers are tried:
// longer brace runs first, so "{{{" is never read as "{{" followed by "{".
var Forms = [...]Delimiters{
	{Kind: Data, Data: Verbose, Open: "{{{{{", Close: "}}}}}", Name: "verbose data block"},
	{Kind: Data, Data: Debug, Open: "{{{{", Close: "}}}}", Name: "debug data block"},
	{Kind: Data, Data: Raw, Open: "{{{", Close: "}}}", Name: "raw data block"},
	{Kind: Data, Data: Escaped, Open: "{{", Close: "}}", Name: "data block"},
	{Kind: Code, Open: "{%", Close: "%}", Name: "code block"},
	{Kind: Comment, Open: "{#", Close: "#}", Name: "comment block"},
	{Kind: Include, Open: "{<", Close: ">}", Name: "include block"},
}
