// Package render is the runtime used by code that natec generates.
//
// A generated template has a RenderInto(io.Writer) error method whose body
// is a sequence of Writef calls. Each formatted argument is wrapped in one of
// Raw, Escape, Debug or Verbose according to the delimiter used in the
// template source; the wrapper then picks an output strategy from the value's
// dynamic type:
//
//   - Markup and Template values write themselves.
//   - Values marked safe (the Safe interface or MarkSafe) are never escaped.
//   - Booleans and numbers take a strconv fast path and are never escaped.
//   - Strings and byte slices are XML-escaped directly.
//   - Anything else is formatted with fmt and escaped on the way out.
//
// A Template nested in an escaped {{ }} block is written unescaped, exactly
// as in a raw {{{ }}} block. The nested template already escaped its own data,
// so escaping again would mangle its markup. This differs from escaping the
// nested output; wrap the value in XMLEscape to get that.
//
// Escaping replaces the five XML-reserved characters with numeric entities
// (&#34; &#38; &#39; &#60; &#62;) and leaves every other byte untouched.
//
// Errors returned by the output writer are passed through unchanged.
package render
