// Package block defines the units produced by the template scanner.
// Invariants:
//   - Block.Span is a slice of the original template file (no copies).
//   - For delimited blocks Span covers the trimmed body, not the delimiters.
//   - Data and Include blocks are never empty; Code blocks may be.
//   - Comment blocks never leave the scanner.
//   - Trim flags are resolved: a block's Trailing flag equals the next
//     block's Leading flag.
package block
