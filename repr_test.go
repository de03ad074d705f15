package typeddict

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

// forwardType delegates to an element type bound after construction, which
// lets a dictionary hold values of its own type.
type forwardType struct {
	target ElementType
}

func (f *forwardType) Name() string  { return "self" }
func (f *forwardType) ByteSize() int { return handleSize }

func (f *forwardType) Hash(p []byte) (int32, error) { return f.target.Hash(p) }

func (f *forwardType) Compare(a, b []byte, op CompareOp) (bool, error) {
	return f.target.Compare(a, b, op)
}

func (f *forwardType) CopyConstruct(dst, src []byte) error { return f.target.CopyConstruct(dst, src) }
func (f *forwardType) Destroy(p []byte) error              { return f.target.Destroy(p) }

func (f *forwardType) IsBinaryCompatibleWith(other ElementType) bool {
	return f.target.IsBinaryCompatibleWith(other)
}

func (f *forwardType) Repr(p []byte, w *ReprWriter) error {
	return f.target.(Reprer).Repr(p, w)
}

func TestDict_Repr(t *testing.T) {
	d := NewDict(Int64, String)
	h := d.Construct()
	defer destroy(t, d, &h)

	s, err := d.Repr(h)
	require.NoError(t, err)
	require.Equal(t, "{}", s)

	insertStr(t, d, h, 1, "a")
	insertStr(t, d, h, 2, "b")
	insertStr(t, d, h, 3, "c")

	_, err = d.Delete(h, Int64.Make(2))
	require.NoError(t, err)

	s, err = d.Repr(h)
	require.NoError(t, err)
	require.Equal(t, `{1: "a", 3: "c"}`, s)
}

func TestDict_Repr_Nested(t *testing.T) {
	inner := NewDict(Int64, Float64)
	outer := NewDict(String, inner.Element())

	ih := inner.Construct()
	defer destroy(t, inner, &ih)
	require.NoError(t, inner.Set(ih, Int64.Make(1), Float64.Make(0.5)))

	oh := outer.Construct()
	defer destroy(t, outer, &oh)

	key := String.Make("x")
	defer String.Destroy(key)

	region, err := outer.Insert(oh, key)
	require.NoError(t, err)
	require.NoError(t, inner.StoreHandle(region, ih))

	s, err := outer.Repr(oh)
	require.NoError(t, err)
	require.Equal(t, `{"x": {1: 0.5}}`, s)
}

func TestDict_Repr_Cycle(t *testing.T) {
	self := &forwardType{}
	d := NewDict(Int64, self)
	self.target = d.Element()

	h := d.Construct()
	defer destroy(t, d, &h)

	region, err := d.Insert(h, Int64.Make(1))
	require.NoError(t, err)
	require.NoError(t, d.StoreHandle(region, h))
	require.Equal(t, int64(2), d.Refcount(h))

	s, err := d.Repr(h)
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^\{1: Dict\(int64->self\)\(0x[0-9a-f]+\)\}$`), s)

	// Break the cycle so the layout can be released.
	deleted, err := d.Delete(h, Int64.Make(1))
	require.NoError(t, err)
	require.True(t, deleted)
	require.Equal(t, int64(1), d.Refcount(h))
}

func TestReprElement_Fallback(t *testing.T) {
	var w ReprWriter
	require.NoError(t, reprElement(newCollidingInt64(), Int64.Make(5), &w))
	require.Equal(t, "5", w.String())

	w.Reset()
	require.NoError(t, reprElement(&opaqueType{}, nil, &w))
	require.Equal(t, "<opaque>", w.String())
}

type opaqueType struct{}

func (*opaqueType) Name() string                                   { return "opaque" }
func (*opaqueType) ByteSize() int                                  { return 0 }
func (*opaqueType) Hash([]byte) (int32, error)                     { return 0, nil }
func (*opaqueType) Compare(_, _ []byte, _ CompareOp) (bool, error) { return true, nil }
func (*opaqueType) CopyConstruct(_, _ []byte) error                { return nil }
func (*opaqueType) Destroy([]byte) error                           { return nil }
func (*opaqueType) IsBinaryCompatibleWith(ElementType) bool        { return false }
