package typeddict

import (
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
)

const minReservedCells = 4

// slotStorage is a dense, growable array of fixed-size key+value cells with
// a liveness bit per cell. Cell indices are stable: growth may move the
// bytes but never renumbers cells, because the hash index stores indices.
type slotStorage struct {
	cellSize int

	items     []byte
	populated *bitset.BitSet
	reserved  int

	// Every cell below freeHint is populated.
	freeHint int
}

// allocate returns a populated cell ready for a fresh pair, reusing a free
// cell when one exists. grown reports whether the storage had to grow.
func (s *slotStorage) allocate() (idx int32, grown bool) {
	i, ok := s.firstFree()
	if !ok {
		i = s.reserved
		s.grow()
		grown = true
	}

	s.populated.Set(uint(i))
	s.freeHint = i + 1

	return int32(i), grown
}

func (s *slotStorage) firstFree() (int, bool) {
	if s.populated == nil {
		return 0, false
	}

	i, ok := s.populated.NextClear(uint(s.freeHint))
	if !ok || int(i) >= s.reserved {
		return 0, false
	}

	return int(i), true
}

// grow doubles the reserved cell count.
func (s *slotStorage) grow() {
	s.growTo(max(minReservedCells, s.reserved*2))
}

// reserve grows the storage to hold at least n cells and reports whether
// it had to grow.
func (s *slotStorage) reserve(n int) bool {
	if n <= s.reserved {
		return false
	}
	if n > math.MaxInt32 {
		panic(fmt.Errorf("%w: cannot reserve %d cells", ErrAllocationFailure, n))
	}

	s.growTo(max(minReservedCells, int(NextPowerOf2(uint32(n)))))

	return true
}

func (s *slotStorage) growTo(next int) {
	if next > math.MaxInt32 || (s.cellSize > 0 && next > math.MaxInt/s.cellSize) {
		panic(fmt.Errorf("%w: cannot reserve %d cells of %d bytes", ErrAllocationFailure, next, s.cellSize))
	}

	items := make([]byte, next*s.cellSize)
	copy(items, s.items)

	populated := bitset.New(uint(next))
	if s.populated != nil {
		populated.InPlaceUnion(s.populated)
	}

	s.items = items
	s.populated = populated
	s.reserved = next
}

// free marks the cell unpopulated. The cell keeps its index; it is only
// handed out again by a later allocate.
func (s *slotStorage) free(idx int32) {
	s.populated.Clear(uint(idx))
	clear(s.cell(idx))

	if int(idx) < s.freeHint {
		s.freeHint = int(idx)
	}
}

func (s *slotStorage) isPopulated(idx int) bool {
	return s.populated != nil && idx >= 0 && idx < s.reserved && s.populated.Test(uint(idx))
}

func (s *slotStorage) cell(idx int32) []byte {
	off := int(idx) * s.cellSize
	return s.items[off : off+s.cellSize : off+s.cellSize]
}

func (s *slotStorage) key(idx int32, keySize int) []byte {
	return s.cell(idx)[:keySize]
}

func (s *slotStorage) value(idx int32, keySize int) []byte {
	return s.cell(idx)[keySize:]
}

// each calls fn for every populated cell in index order.
func (s *slotStorage) each(fn func(idx int32) bool) {
	if s.populated == nil {
		return
	}

	for i, ok := s.populated.NextSet(0); ok && int(i) < s.reserved; i, ok = s.populated.NextSet(i + 1) {
		if !fn(int32(i)) {
			return
		}
	}
}

func (s *slotStorage) release() {
	s.items = nil
	s.populated = nil
	s.reserved = 0
	s.freeHint = 0
}
