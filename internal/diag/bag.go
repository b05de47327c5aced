package diag

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// Bag collects diagnostics from many template compilations. Safe for
// concurrent use.
type Bag struct {
	mu    sync.Mutex
	items []Diagnostic
	max   uint16
}

func NewBag(max int) *Bag {
	if max <= 0 || max > 0xFFFF {
		max = 0xFFFF
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 16)),
		max:   uint16(max), // #nosec G115 -- clamped above
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// AddError converts err with FromError and adds the result.
func (b *Bag) AddError(err error) {
	for _, d := range FromError(err) {
		b.Add(d)
	}
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Items returns a copy of the collected diagnostics.
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.items)
}

// Sort orders diagnostics by path, offset, severity (desc) and code so output
// does not depend on which compilation finished first.
func (b *Bag) Sort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	slices.SortStableFunc(b.items, func(di, dj Diagnostic) int {
		pi, pj := di.Position(), dj.Position()
		if c := cmp.Compare(pi.Path, pj.Path); c != 0 {
			return c
		}
		if c := cmp.Compare(pi.Offset, pj.Offset); c != 0 {
			return c
		}
		if c := cmp.Compare(pi.Line, pj.Line); c != 0 {
			return c
		}
		if di.Severity != dj.Severity {
			return cmp.Compare(dj.Severity, di.Severity)
		}
		return cmp.Compare(di.Code, dj.Code)
	})
}

// простая дедупликация (по Code+позиции+сообщению)
func (b *Bag) Dedup() {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		pos := d.Position()
		key := fmt.Sprintf("%s:%s:%d:%d:%s", d.Code.ID(), pos.Path, pos.Offset, pos.Line, d.Message)
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}
