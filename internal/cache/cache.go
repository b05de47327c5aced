// Package cache is the content-addressed store for generated Go files.
package cache

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/natefinch/atomic"
	"github.com/vmihailenco/msgpack/v5"

	"nate/internal/diag"
	"nate/internal/project"
)

// Current schema version - increment when Meta format changes
const SchemaVersion uint16 = 1

const (
	artifactExt = ".go"
	metaExt     = ".mp"
)

// Store keeps generated files under <dir>/<hex>.go. Safe for concurrent use:
// two writers of one key always write identical bytes.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// Dep is one template file an artifact was generated from.
type Dep struct {
	Path   string
	SHA256 string
}

// Meta is the msgpack sidecar stored next to every artifact.
type Meta struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Type     string // declared Go type
	Template string // root-relative template path
	Output   string // where the artifact was embedded
	Size     int64
	Deps     []Dep
	Created  time.Time
}

// Artifact describes a stored file.
type Artifact struct {
	Key    project.Digest
	Path   string
	Size   int64
	Reused bool
}

// Entry is a listed artifact with its sidecar.
type Entry struct {
	Key  project.Digest
	Path string
	Meta Meta
}

// Open creates dir if needed and returns a store rooted there.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("cache: empty directory")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, diag.NewIoError(diag.OpWrite, abs, err)
	}
	return &Store{dir: abs}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// PathFor returns the artifact path for key.
func (s *Store) PathFor(key project.Digest) string {
	return filepath.Join(s.dir, key.Hex()+artifactExt)
}

func (s *Store) metaPath(key project.Digest) string {
	return filepath.Join(s.dir, key.Hex()+metaExt)
}

// Put stores content under its BLAKE2b-256 hash. When a file of the same size
// already exists the write is skipped and the artifact is marked Reused.
func (s *Store) Put(content []byte, meta Meta) (Artifact, error) {
	if s == nil {
		return Artifact{}, errors.New("cache: nil store")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := project.Sum(content)
	art := Artifact{Key: key, Path: s.PathFor(key), Size: int64(len(content))}

	st, err := os.Stat(art.Path)
	switch {
	case err == nil && st.Mode().IsRegular() && st.Size() == art.Size:
		art.Reused = true
	case err == nil || errors.Is(err, fs.ErrNotExist):
		if err := atomic.WriteFile(art.Path, bytes.NewReader(content)); err != nil {
			return Artifact{}, diag.NewIoError(diag.OpWrite, art.Path, err)
		}
	default:
		return Artifact{}, diag.NewIoError(diag.OpStat, art.Path, err)
	}

	if _, err := os.Stat(s.metaPath(key)); err == nil && art.Reused {
		return art, nil
	}
	meta.Schema = SchemaVersion
	meta.Size = art.Size
	if meta.Created.IsZero() {
		meta.Created = time.Now().UTC()
	}
	payload, err := msgpack.Marshal(&meta)
	if err != nil {
		return Artifact{}, fmt.Errorf("cache: encode meta: %w", err)
	}
	if err := atomic.WriteFile(s.metaPath(key), bytes.NewReader(payload)); err != nil {
		return Artifact{}, diag.NewIoError(diag.OpWrite, s.metaPath(key), err)
	}
	return art, nil
}

// Get reads the artifact stored under key.
func (s *Store) Get(key project.Digest) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.PathFor(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, diag.NewIoError(diag.OpRead, s.PathFor(key), err)
	}
	return data, true, nil
}

// Meta reads the sidecar of key. Sidecars from another schema version are
// reported as missing.
func (s *Store) Meta(key project.Digest) (Meta, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readMeta(s.metaPath(key))
}

func (s *Store) readMeta(path string) (Meta, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Meta{}, false, nil
		}
		return Meta{}, false, diag.NewIoError(diag.OpOpen, path, err)
	}
	defer f.Close()

	var meta Meta
	if err := msgpack.NewDecoder(f).Decode(&meta); err != nil {
		return Meta{}, false, fmt.Errorf("cache: decode %s: %w", filepath.Base(path), err)
	}
	if meta.Schema != SchemaVersion {
		return Meta{}, false, nil
	}
	return meta, true, nil
}

// List returns all artifacts with a readable sidecar, sorted by key.
func (s *Store) List() ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dirents, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, diag.NewIoError(diag.OpRead, s.dir, err)
	}
	var out []Entry
	for _, de := range dirents {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, metaExt) {
			continue
		}
		key, err := project.ParseDigest(strings.TrimSuffix(name, metaExt))
		if err != nil {
			continue
		}
		meta, ok, err := s.readMeta(filepath.Join(s.dir, name))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, Entry{Key: key, Path: s.PathFor(key), Meta: meta})
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].Key[:], out[j].Key[:]) < 0
	})
	return out, nil
}

// Clean removes the cache directory. Reopen the store before using it again.
func (s *Store) Clean() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// переименуем каталог, чтобы параллельный Open не увидел половину
	old := s.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(s.dir, old); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return diag.NewIoError(diag.OpRemove, s.dir, err)
	}
	if err := os.RemoveAll(old); err != nil {
		return diag.NewIoError(diag.OpRemove, old, err)
	}
	return nil
}

// WriteDebug writes content to path, always replacing it.
func WriteDebug(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return diag.NewIoError(diag.OpWrite, path, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(content)); err != nil {
		return diag.NewIoError(diag.OpWrite, path, err)
	}
	return nil
}

// Embed writes content to path unless the file already holds exactly those
// bytes. It reports whether the file changed.
func Embed(path string, content []byte) (bool, error) {
	old, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(old, content):
		return false, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return false, diag.NewIoError(diag.OpRead, path, err)
	}
	if err := WriteDebug(path, content); err != nil {
		return false, err
	}
	return true, nil
}
