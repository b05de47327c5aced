package trace

import (
	"io"
	"os"
	"sync"
)

// Stream writes each event to w as soon as it is emitted.
type Stream struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

func NewStream(w io.Writer, level Level, format Format) *Stream {
	if format == FormatAuto {
		format = FormatText
	}
	return &Stream{w: w, level: level, format: format}
}

func (s *Stream) Emit(ev *Event) {
	if s.level <= LevelError || !s.level.Allows(ev.Scope) {
		return
	}
	line := FormatEvent(ev, s.format)
	s.mu.Lock()
	// ошибки записи трассы не должны ронять генерацию
	_, _ = s.w.Write(line)
	s.mu.Unlock()
}

func (s *Stream) Level() Level { return s.level }

// Close closes w unless it is a standard stream.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == os.Stderr || s.w == os.Stdout {
		return nil
	}
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Ring keeps the last cap events.
type Ring struct {
	mu     sync.Mutex
	events []Event
	next   uint64 // total events ever stored
	level  Level
}

func NewRing(capacity int, level Level) *Ring {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &Ring{events: make([]Event, capacity), level: level}
}

func (r *Ring) Emit(ev *Event) {
	if !r.level.Allows(ev.Scope) {
		return
	}
	stored := *ev
	stored.Attrs = append([]Attr(nil), ev.Attrs...)
	r.mu.Lock()
	r.events[r.next%uint64(len(r.events))] = stored
	r.next++
	r.mu.Unlock()
}

func (r *Ring) Level() Level { return r.level }
func (r *Ring) Close() error { return nil }

// Snapshot returns the stored events, oldest first.
func (r *Ring) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	size := uint64(len(r.events))
	if r.next <= size {
		return append([]Event(nil), r.events[:r.next]...)
	}
	head := r.next % size
	out := make([]Event, 0, size)
	out = append(out, r.events[head:]...)
	return append(out, r.events[:head]...)
}

// Dump writes the snapshot to w.
func (r *Ring) Dump(w io.Writer, format Format) error {
	for _, ev := range r.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}
