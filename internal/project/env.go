package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables consulted by Settings.
const (
	EnvCacheDir = "NATE_CACHE_DIR"
	EnvJobs     = "NATE_JOBS"
)

// LoadEnv reads <root>/.env when present. Variables already set in the
// process environment win.
func LoadEnv(root string) error {
	path := filepath.Join(root, ".env")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Settings are the effective knobs of a run after applying precedence:
// flags, then environment, then nate.toml, then defaults.
type Settings struct {
	CacheDir string
	Jobs     int
}

// Overrides carries values given on the command line; zero means unset.
type Overrides struct {
	CacheDir string
	Jobs     int
}

// Resolve computes Settings for m (which may be nil).
func Resolve(m *Manifest, o Overrides) (Settings, error) {
	var s Settings

	switch {
	case o.CacheDir != "":
		s.CacheDir = o.CacheDir
	case os.Getenv(EnvCacheDir) != "":
		s.CacheDir = os.Getenv(EnvCacheDir)
	case m != nil && strings.TrimSpace(m.Project.CacheDir) != "":
		s.CacheDir = strings.TrimSpace(m.Project.CacheDir)
		if !filepath.IsAbs(s.CacheDir) {
			s.CacheDir = filepath.Join(m.Root, filepath.FromSlash(s.CacheDir))
		}
	default:
		dir, err := DefaultCacheDir("nate")
		if err != nil {
			return Settings{}, err
		}
		s.CacheDir = dir
	}

	switch {
	case o.Jobs > 0:
		s.Jobs = o.Jobs
	case os.Getenv(EnvJobs) != "":
		n, err := strconv.Atoi(os.Getenv(EnvJobs))
		if err != nil || n <= 0 {
			return Settings{}, fmt.Errorf("%s=%q: want a positive integer", EnvJobs, os.Getenv(EnvJobs))
		}
		s.Jobs = n
	case m != nil && m.Project.Jobs > 0:
		s.Jobs = m.Project.Jobs
	default:
		s.Jobs = runtime.GOMAXPROCS(0)
	}
	return s, nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/<app>, falling back to ~/.cache/<app>.
func DefaultCacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}
