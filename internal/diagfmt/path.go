package diagfmt

import (
	"nate/internal/source"
)

func (m PathMode) mode() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	}
	return "auto"
}

// displayPath formats pos.Path (or the span's file path) according to mode.
func displayPath(f *source.File, path string, mode PathMode, baseDir string) string {
	if f != nil {
		return f.FormatPath(mode.mode(), baseDir)
	}
	if path == "" {
		return ""
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := source.AbsolutePath(path); err == nil {
			return abs
		}
	case PathModeRelative:
		if baseDir == "" {
			return source.DisplayPath(path)
		}
		if rel, err := source.RelativePath(path, baseDir); err == nil {
			return rel
		}
	case PathModeBasename:
		return source.BaseName(path)
	case PathModeAuto:
		return source.DisplayPath(path)
	}
	return path
}
