package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (generated scope blocks, tests).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска
	FileHadBOM
	// FileStripped marks content rewritten by a whitespace strip mode.
	FileStripped
)

// File captures metadata and content for a single template file.
// A File is immutable once added to a FileSet; every Span derived from it
// shares the same backing Content.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	// Hash is the SHA-256 of the bytes as read from disk, before BOM removal
	// and stripping. Dependency markers record it.
	Hash  [32]byte
	Flags FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, в рунах
}

// Position is a fully resolved location: path, byte offset and LineCol.
type Position struct {
	Path   string
	Offset uint32
	LineCol
}
