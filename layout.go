package typeddict

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Layout is the shared heap record behind one container value. Only the
// refcount may be touched concurrently; everything else belongs to the
// single logical owner mutating the container.
type Layout struct {
	refcount atomic.Int64
	_        cpu.CacheLinePad

	// Id in the layouts table, assigned the first time the Layout is stored
	// inside a cell. Zero until then.
	id atomic.Uint64

	slots slotStorage
	index hashIndex
}

func newLayout(cellSize int) *Layout {
	l := &Layout{slots: slotStorage{cellSize: cellSize}}
	l.refcount.Store(1)

	return l
}

func (l *Layout) acquire() {
	l.refcount.Add(1)
}

// drop decrements the refcount and reports whether it reached zero.
func (l *Layout) drop() bool {
	n := l.refcount.Add(-1)
	if n < 0 {
		panic("typeddict: layout released more times than it was acquired")
	}

	return n == 0
}

// Handle is one reference to a Layout. The zero Handle refers to nothing;
// obtain a usable one from Dict.Construct, Dict.CopyHandle or Dict.LoadHandle.
type Handle struct {
	l *Layout
}

// Valid reports whether h refers to a Layout.
func (h Handle) Valid() bool {
	return h.l != nil
}

// Same reports whether both handles share one Layout.
func (h Handle) Same(other Handle) bool {
	return h.l == other.l
}
