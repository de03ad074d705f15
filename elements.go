package typeddict

import (
	"cmp"
	"encoding/binary"
	"math"
	"strconv"
)

// Built-in fixed-size element types.
var (
	Int64   = &int64Type{name: "int64"}
	Float64 = &float64Type{name: "float64"}
	None    = &noneType{name: "None"}
)

type int64Type struct{ name string }

func (t *int64Type) Name() string  { return t.name }
func (t *int64Type) ByteSize() int { return 8 }

// Get decodes the instance at p.
func (t *int64Type) Get(p []byte) int64 {
	return int64(binary.LittleEndian.Uint64(p))
}

// Put constructs v into the region p.
func (t *int64Type) Put(p []byte, v int64) {
	binary.LittleEndian.PutUint64(p, uint64(v))
}

// Make returns a freshly allocated instance holding v.
func (t *int64Type) Make(v int64) []byte {
	p := make([]byte, 8)
	t.Put(p, v)

	return p
}

func (t *int64Type) Hash(p []byte) (int32, error) {
	return foldHash(uint64(t.Get(p))), nil
}

func (t *int64Type) Compare(a, b []byte, op CompareOp) (bool, error) {
	return op.resultFor(cmp.Compare(t.Get(a), t.Get(b))), nil
}

func (t *int64Type) CopyConstruct(dst, src []byte) error {
	copy(dst, src)
	return nil
}

func (t *int64Type) Destroy([]byte) error { return nil }

func (t *int64Type) IsBinaryCompatibleWith(other ElementType) bool {
	return other == ElementType(t)
}

func (t *int64Type) Repr(p []byte, w *ReprWriter) error {
	w.WriteString(strconv.FormatInt(t.Get(p), 10))
	return nil
}

type float64Type struct{ name string }

func (t *float64Type) Name() string  { return t.name }
func (t *float64Type) ByteSize() int { return 8 }

func (t *float64Type) Get(p []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(p))
}

func (t *float64Type) Put(p []byte, v float64) {
	binary.LittleEndian.PutUint64(p, math.Float64bits(v))
}

func (t *float64Type) Make(v float64) []byte {
	p := make([]byte, 8)
	t.Put(p, v)

	return p
}

// Hash maps -0 and +0 to the same code since they compare equal.
func (t *float64Type) Hash(p []byte) (int32, error) {
	v := t.Get(p)
	if v == 0 {
		return 0, nil
	}

	return foldHash(math.Float64bits(v)), nil
}

// Compare follows IEEE semantics: NaN is unordered and only != holds.
func (t *float64Type) Compare(a, b []byte, op CompareOp) (bool, error) {
	x, y := t.Get(a), t.Get(b)
	if math.IsNaN(x) || math.IsNaN(y) {
		return op == OpNE, nil
	}

	return op.resultFor(cmp.Compare(x, y)), nil
}

func (t *float64Type) CopyConstruct(dst, src []byte) error {
	copy(dst, src)
	return nil
}

func (t *float64Type) Destroy([]byte) error { return nil }

func (t *float64Type) IsBinaryCompatibleWith(other ElementType) bool {
	return other == ElementType(t)
}

func (t *float64Type) Repr(p []byte, w *ReprWriter) error {
	w.WriteString(strconv.FormatFloat(t.Get(p), 'g', -1, 64))
	return nil
}

// noneType has a single, zero-byte instance.
type noneType struct{ name string }

func (t *noneType) Name() string                    { return t.name }
func (t *noneType) ByteSize() int                   { return 0 }
func (t *noneType) Hash([]byte) (int32, error)      { return 0, nil }
func (t *noneType) CopyConstruct(_, _ []byte) error { return nil }
func (t *noneType) Destroy([]byte) error            { return nil }

func (t *noneType) Compare(_, _ []byte, op CompareOp) (bool, error) {
	return op.resultFor(0), nil
}

func (t *noneType) IsBinaryCompatibleWith(other ElementType) bool {
	return other == ElementType(t)
}

func (t *noneType) Repr(_ []byte, w *ReprWriter) error {
	w.WriteString("None")
	return nil
}
