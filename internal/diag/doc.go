// Package diag defines the error taxonomy and diagnostic model of the
// template compiler.
//
// Three typed errors flow out of a compilation as ordinary Go errors:
//
//   - ParseError: malformed template input, positioned by a source.Span.
//   - IoError: a failed filesystem operation, wrapping the OS error.
//   - HostCompileError: malformed declaration metadata, or generated code
//     that does not parse, positioned at the template location it came from.
//
// A compilation is fail-fast: the first error aborts it. The pipeline runs
// many compilations and gathers their failures into a Bag with FromError, so
// the CLI can sort and render them through internal/diagfmt.
//
// Package diag does not perform formatting beyond Error() strings.
package diag
