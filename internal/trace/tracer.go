package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives events. Implementations must be safe for concurrent use:
// pipeline workers emit from several goroutines.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	Close() error
}

type nop struct{}

func (nop) Emit(*Event)  {}
func (nop) Level() Level { return LevelOff }
func (nop) Close() error { return nil }

// Nop records nothing.
var Nop Tracer = nop{}

// Mode selects where events go.
type Mode uint8

const (
	ModeStream Mode = iota + 1
	ModeRing
	ModeBoth
)

var modeNames = map[string]Mode{"stream": ModeStream, "ring": ModeRing, "both": ModeBoth}

// ParseMode parses stream, ring or both.
func ParseMode(s string) (Mode, error) {
	if m, ok := modeNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return ModeRing, fmt.Errorf("invalid trace mode: %q (expected: stream|ring|both)", s)
}

// Config describes a tracer built by Open.
type Config struct {
	Level Level
	Mode  Mode
	// Output receives streamed events. When nil, Path is opened instead;
	// an empty Path or "-" means stderr.
	Output   io.Writer
	Path     string
	Format   Format
	RingSize int
}

const defaultRingSize = 4096

// Open builds the tracer described by cfg.
func Open(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = defaultRingSize
	}
	if cfg.Format == FormatAuto {
		cfg.Format = formatForPath(cfg.Path)
	}

	switch cfg.Mode {
	case ModeRing:
		return NewRing(cfg.RingSize, cfg.Level), nil
	case ModeStream, ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		stream := NewStream(w, cfg.Level, cfg.Format)
		if cfg.Mode == ModeStream {
			return stream, nil
		}
		return Fanout{stream, NewRing(cfg.RingSize, cfg.Level)}, nil
	}
	return nil, fmt.Errorf("unknown trace mode %d", cfg.Mode)
}

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.Path == "" || cfg.Path == "-":
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, nil
}

// Fanout sends every event to each of its tracers.
type Fanout []Tracer

func (f Fanout) Emit(ev *Event) {
	for _, t := range f {
		t.Emit(ev)
	}
}

// Level is the most verbose level among the members.
func (f Fanout) Level() Level {
	var l Level
	for _, t := range f {
		l = max(l, t.Level())
	}
	return l
}

func (f Fanout) Close() error {
	var errs []error
	for _, t := range f {
		errs = append(errs, t.Close())
	}
	return errors.Join(errs...)
}

// RingOf finds the in-memory ring behind t, if there is one.
func RingOf(t Tracer) (*Ring, bool) {
	switch t := t.(type) {
	case *Ring:
		return t, true
	case Fanout:
		for _, member := range t {
			if r, ok := RingOf(member); ok {
				return r, true
			}
		}
	}
	return nil, false
}
