// Package typeddict implements the storage engine behind a mutable,
// reference-counted dictionary value whose key and value types are only
// known at run time.
//
// A Dict is the type descriptor for one (key, value) pair of element types.
// Container values are Handles to a shared Layout: a dense array of
// key+value cells plus an open-addressing index over cached key hashes.
// Structural mutation is not synchronized; only the refcount is atomic.
package typeddict

import (
	"errors"

	"go.uber.org/zap"
)

// handleSize is the byte size of a container instance stored inside a cell.
const handleSize = 8

// Dict describes the dictionary type from one key type to one value type and
// implements every operation on its container values.
type Dict struct {
	key   ElementType
	value ElementType
	name  string

	bytesPerKey  int
	bytesPerPair int

	elem *dictElement

	logger  *zap.Logger
	metrics MetricsCollector
}

// NewDict builds a Dict descriptor that is not shared through MakeDict.
func NewDict(key, value ElementType, opts ...Option) *Dict {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	d := &Dict{
		key:          key,
		value:        value,
		name:         "Dict(" + key.Name() + "->" + value.Name() + ")",
		bytesPerKey:  key.ByteSize(),
		bytesPerPair: key.ByteSize() + value.ByteSize(),
		metrics:      o.metrics,
	}
	d.elem = &dictElement{d: d}
	d.logger = o.logger.With(zap.String("type", d.name))

	return d
}

// Name returns the rendered type name, e.g. "Dict(int64->str)".
func (d *Dict) Name() string { return d.name }

// KeyType returns the element type of the keys.
func (d *Dict) KeyType() ElementType { return d.key }

// ValueType returns the element type of the values.
func (d *Dict) ValueType() ElementType { return d.value }

// IsBinaryCompatibleWith reports whether containers of both types can be
// used interchangeably at the byte level.
func (d *Dict) IsBinaryCompatibleWith(other *Dict) bool {
	if other == nil {
		return false
	}

	return d.key.IsBinaryCompatibleWith(other.key) &&
		d.value.IsBinaryCompatibleWith(other.value)
}

func (d *Dict) layout(h Handle) *Layout {
	if h.l == nil {
		panic("typeddict: use of an empty or destroyed " + d.name + " handle")
	}

	return h.l
}

// Construct returns a handle to a fresh, empty Layout with refcount 1.
func (d *Dict) Construct() Handle {
	return Handle{l: newLayout(d.bytesPerPair)}
}

// CopyHandle makes dst share src's Layout.
func (d *Dict) CopyHandle(dst *Handle, src Handle) {
	l := d.layout(src)
	l.acquire()
	dst.l = l
}

// Assign makes dst share src's Layout and then releases the Layout dst held
// before. Acquiring before releasing keeps self-assignment safe.
func (d *Dict) Assign(dst *Handle, src Handle) error {
	old := dst.l

	l := d.layout(src)
	l.acquire()
	dst.l = l

	if old == nil {
		return nil
	}

	return d.release(old)
}

// Destroy drops h's reference and empties h. The Layout is torn down when
// its last reference goes away; errors from destroying elements are joined.
func (d *Dict) Destroy(h *Handle) error {
	l := d.layout(*h)
	h.l = nil

	return d.release(l)
}

// Refcount returns the number of references to h's Layout.
func (d *Dict) Refcount(h Handle) int64 {
	return d.layout(h).refcount.Load()
}

// Size returns the number of live pairs.
func (d *Dict) Size(h Handle) int {
	return d.layout(h).index.count
}

// SlotCount returns the number of cells, live or not, for raw traversal.
func (d *Dict) SlotCount(h Handle) int {
	return d.layout(h).slots.reserved
}

// SlotPopulated reports whether cell i holds a live pair.
func (d *Dict) SlotPopulated(h Handle, i int) bool {
	return d.layout(h).slots.isPopulated(i)
}

// KeyAt returns the key region of cell i. Callers must skip unpopulated
// cells. The region is valid until the next mutation of the container.
func (d *Dict) KeyAt(h Handle, i int) []byte {
	return d.layout(h).slots.key(int32(i), d.bytesPerKey)
}

// ValueAt returns the value region of cell i.
func (d *Dict) ValueAt(h Handle, i int) []byte {
	return d.layout(h).slots.value(int32(i), d.bytesPerKey)
}

// Lookup returns the value region stored under key.
func (d *Dict) Lookup(h Handle, key []byte) ([]byte, bool, error) {
	l := d.layout(h)
	if err := checkSize(d.key, key); err != nil {
		return nil, false, err
	}

	slot, err := d.find(l, key)
	if slot == notFound {
		return nil, false, err
	}

	return l.slots.value(slot, d.bytesPerKey), true, nil
}

// Contains reports whether key is present.
func (d *Dict) Contains(h Handle, key []byte) (bool, error) {
	_, ok, err := d.Lookup(h, key)
	return ok, err
}

// Insert adds a cell for key and returns its uninitialized value region for
// the caller to construct into.
//
// Insert does not check for an existing equal key: inserting a duplicate
// corrupts later lookups. Use Set, or Lookup/Delete first.
func (d *Dict) Insert(h Handle, key []byte) ([]byte, error) {
	l := d.layout(h)
	if err := checkSize(d.key, key); err != nil {
		return nil, err
	}

	hash, err := d.key.Hash(key)
	if err != nil {
		return nil, err
	}

	slot := d.allocate(l)
	d.addToIndex(l, hash, slot)

	if err := d.key.CopyConstruct(l.slots.key(slot, d.bytesPerKey), key); err != nil {
		return nil, err
	}

	return l.slots.value(slot, d.bytesPerKey), nil
}

// Set stores a copy of value under key, replacing any previous value.
func (d *Dict) Set(h Handle, key, value []byte) error {
	if err := checkSize(d.value, value); err != nil {
		return err
	}

	existing, ok, err := d.Lookup(h, key)
	if err != nil {
		return err
	}

	if ok {
		// Copy first: value may alias the region being replaced.
		tmp := make([]byte, len(value))
		if err := d.value.CopyConstruct(tmp, value); err != nil {
			return err
		}

		if err := d.value.Destroy(existing); err != nil {
			return err
		}
		copy(existing, tmp)

		return nil
	}

	region, err := d.Insert(h, key)
	if err != nil {
		return err
	}

	return d.value.CopyConstruct(region, value)
}

// Delete removes key and destroys its key and value. It reports whether the
// key was present.
func (d *Dict) Delete(h Handle, key []byte) (bool, error) {
	l := d.layout(h)
	if err := checkSize(d.key, key); err != nil {
		return false, err
	}

	hash, err := d.key.Hash(key)
	if err != nil {
		return false, err
	}

	slot, err := l.index.remove(hash, d.matcher(l, key))
	if slot == notFound {
		return false, err
	}

	keyErr := d.key.Destroy(l.slots.key(slot, d.bytesPerKey))
	valueErr := d.value.Destroy(l.slots.value(slot, d.bytesPerKey))
	l.slots.free(slot)

	return true, errors.Join(keyErr, valueErr)
}

// Compare evaluates left op right. Only OpEQ and OpNE are supported.
func (d *Dict) Compare(left, right Handle, op CompareOp) (bool, error) {
	if op != OpEQ && op != OpNE {
		return false, unsupportedComparison(d.name, op)
	}

	eq, err := d.equal(d.layout(left), d.layout(right))
	if err != nil {
		return false, err
	}

	if eq {
		return op.resultFor(0), nil
	}

	return op.resultFor(1), nil
}

// Hash always fails: containers are mutable and therefore unhashable.
func (d *Dict) Hash(Handle) (int32, error) {
	return 0, notHashable(d.name)
}

// Stats returns a snapshot of the storage of h's Layout.
func (d *Dict) Stats(h Handle) Stats {
	l := d.layout(h)

	s := Stats{
		Size:          l.index.count,
		Reserved:      l.slots.reserved,
		IndexCapacity: l.index.capacity(),
		Tombstones:    l.index.tombstones,
	}
	if s.IndexCapacity > 0 {
		s.TombstonesCapacityRatio = float32(s.Tombstones) / float32(s.IndexCapacity)
	}
	if s.Size > 0 {
		s.TombstonesSizeRatio = float32(s.Tombstones) / float32(s.Size)
	}

	return s
}

// Reserve pre-sizes h's Layout for n live pairs so that filling it up to n
// neither grows slot storage nor rebuilds the index.
func (d *Dict) Reserve(h Handle, n int) {
	l := d.layout(h)
	if n <= 0 {
		return
	}

	if l.slots.reserve(n) {
		d.metrics.RecordGrow(l.slots.reserved)
	}

	if c := capacityFor(n); c > l.index.capacity() {
		d.rebuildIndex(l, c)
	}
}

// Compact rebuilds the index in place, dropping every tombstone.
func (d *Dict) Compact(h Handle) {
	l := d.layout(h)
	if l.index.tombstones == 0 {
		return
	}

	d.rebuildIndex(l, l.index.capacity())
}

func (d *Dict) matcher(l *Layout, key []byte) matchFunc {
	return func(slot int32) (bool, error) {
		return d.key.Compare(key, l.slots.key(slot, d.bytesPerKey), OpEQ)
	}
}

func (d *Dict) find(l *Layout, key []byte) (int32, error) {
	hash, err := d.key.Hash(key)
	if err != nil {
		return notFound, err
	}

	return l.index.find(hash, d.matcher(l, key))
}

// equal compares sizes first, then looks every left key up on the right and
// compares the values. Equal counts and unique keys make that sufficient.
func (d *Dict) equal(l, r *Layout) (bool, error) {
	if l == r {
		return true, nil
	}

	if l.index.count != r.index.count {
		return false, nil
	}

	eq := true
	var err error

	l.slots.each(func(slot int32) bool {
		var other int32
		other, err = d.find(r, l.slots.key(slot, d.bytesPerKey))
		if err != nil || other == notFound {
			eq = false
			return false
		}

		var ne bool
		ne, err = d.value.Compare(l.slots.value(slot, d.bytesPerKey), r.slots.value(other, d.bytesPerKey), OpNE)
		if err != nil || ne {
			eq = false
			return false
		}

		return true
	})

	return eq, err
}

func (d *Dict) allocate(l *Layout) int32 {
	slot, grown := l.slots.allocate()
	if grown {
		d.metrics.RecordGrow(l.slots.reserved)
		if ce := d.logger.Check(zap.DebugLevel, "slot storage grown"); ce != nil {
			ce.Write(zap.Int("reserved", l.slots.reserved), zap.Int("live", l.index.count))
		}
	}

	return slot
}

func (d *Dict) addToIndex(l *Layout, hash int32, slot int32) {
	if l.index.needsRebuild() {
		d.rebuildIndex(l, l.index.grownCapacity())
	}

	l.index.add(hash, slot)
}

func (d *Dict) rebuildIndex(l *Layout, capacity int) {
	from, tombstones := l.index.capacity(), l.index.tombstones
	l.index.rebuild(capacity)

	d.metrics.RecordRebuild(capacity, tombstones)
	if ce := d.logger.Check(zap.DebugLevel, "hash index rebuilt"); ce != nil {
		ce.Write(
			zap.Int("from", from),
			zap.Int("to", capacity),
			zap.Int("live", l.index.count),
			zap.Int("tombstones", tombstones),
		)
	}
}

// release drops one reference to l and tears it down at zero: every live
// key and value is destroyed, then the backing buffers are let go.
func (d *Dict) release(l *Layout) error {
	if !l.drop() {
		return nil
	}

	live := l.index.count
	var errs []error

	l.slots.each(func(slot int32) bool {
		errs = append(errs,
			d.key.Destroy(l.slots.key(slot, d.bytesPerKey)),
			d.value.Destroy(l.slots.value(slot, d.bytesPerKey)),
		)

		return true
	})

	if id := l.id.Load(); id != 0 {
		layouts.remove(id)
	}
	l.slots.release()
	l.index.release()

	d.metrics.RecordRelease(live)
	if ce := d.logger.Check(zap.DebugLevel, "layout released"); ce != nil {
		ce.Write(zap.Int("live", live))
	}

	return errors.Join(errs...)
}
