package render

import (
	"fmt"
	"io"
	"math/big"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Safe marks types whose display form never contains XML-reserved
// characters, or is already markup. Their values are written unescaped.
type Safe interface {
	SafeMarkup()
}

// Markup is implemented by types that write their own escaped form. A Markup
// value is used as-is in every data block.
type Markup interface {
	WriteMarkup(w io.Writer) error
}

// HTML is a string that is already markup.
type HTML string

func (HTML) SafeMarkup() {}

var safeTypes sync.Map // reflect.Type -> struct{}

// MarkSafe registers T as safe for types that cannot implement Safe
// themselves. Pointers to T are covered as well.
func MarkSafe[T any]() {
	t := reflect.TypeFor[T]()
	safeTypes.Store(t, struct{}{})
	typeCache.Delete(t)
	typeCache.Delete(reflect.PointerTo(t))
}

func init() {
	MarkSafe[decimal.Decimal]()
	MarkSafe[time.Duration]()
	MarkSafe[*big.Int]()
	MarkSafe[*big.Float]()
	MarkSafe[*big.Rat]()
}

// XMLEscape escapes the display form of V, even if V is safe or markup.
type XMLEscape struct {
	V any
}

func (x XMLEscape) WriteMarkup(w io.Writer) error {
	return write(NewEscapeWriter(w), x.V, false)
}

func (x XMLEscape) String() string {
	var sb strings.Builder
	if err := x.WriteMarkup(&sb); err != nil {
		fmt.Fprintf(&sb, "%%!(ERROR=%v)", err)
	}
	return sb.String()
}
