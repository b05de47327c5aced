package trace

import (
	"sync/atomic"
	"time"
)

// Kind is what an event marks.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindPoint:
		return "point"
	}
	return "unknown"
}

// Attr is a key/value pair attached to an event.
type Attr struct {
	Key   string
	Value string
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	// Template is the declared type being compiled, empty outside a compilation.
	Template string
	Name     string
	Detail   string
	// Elapsed is set on KindEnd events.
	Elapsed time.Duration
	Attrs   []Attr
}

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

func nextSeq() uint64    { return seqCounter.Add(1) }
func nextSpanID() uint64 { return spanCounter.Add(1) }
