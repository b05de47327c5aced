package source

import (
	"unicode/utf8"
)

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32+1)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) // #nosec G115 -- size checked by FileSet.Add
		}
	}
	return out
}

// lineStart returns the byte offset where the line containing off begins and
// the 0-based line number.
func lineStart(lineIdx []uint32, off uint32) (start uint32, line int) {
	// бинпоиск: количество переводов строк строго до off
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return 0, 0
	}
	return lineIdx[lo-1] + 1, lo
}

func toLineCol(content []byte, lineIdx []uint32, off uint32) LineCol {
	if int(off) > len(content) {
		off = uint32(len(content)) // #nosec G115 -- size checked by FileSet.Add
	}
	start, line := lineStart(lineIdx, off)
	col := utf8.RuneCount(content[start:off])
	return LineCol{Line: uint32(line + 1), Col: uint32(col + 1)} // #nosec G115 -- bounded by content length
}
