// Package lexer turns template text into blocks.
//
// The Scanner recognises seven delimited forms plus literal text. Openers are
// tried longest first, so "{{{{{" always starts a verbose data block and never
// a shorter form. A closer is located by scanning for its first byte or a trim
// hyphen and verifying the full closer; the scan never backtracks.
//
// A hyphen just inside a delimiter ("{%-", "-%}") requests whitespace
// trimming on that side. The request is shared with the neighbouring block,
// so "A {{- x }} B" trims the space after A and "{{ x -}}" trims the text that
// follows. Literal blocks are trimmed accordingly; the bodies of delimited
// blocks are always trimmed.
//
// Loader.Expand adds include handling on top: include blocks are replaced by
// the blocks of the named file, recursively, with cycle detection.
package lexer
