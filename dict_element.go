package typeddict

import (
	"encoding/binary"
	"fmt"
)

// layouts resolves the ids that container instances store inside cells.
var layouts = newHandleTable[*Layout]()

// Element returns the element type whose instances are containers of type d,
// so dictionaries can be stored as keys or values of other dictionaries.
// The returned value is the same for every call.
func (d *Dict) Element() ElementType {
	return d.elem
}

// StoreHandle constructs into the uninitialized region dst a new reference to
// h's Layout.
func (d *Dict) StoreHandle(dst []byte, h Handle) error {
	if err := checkSize(d.elem, dst); err != nil {
		return err
	}

	l := d.layout(h)
	l.acquire()
	binary.LittleEndian.PutUint64(dst, embedID(l))

	return nil
}

// LoadHandle returns a new reference to the Layout stored at p. The caller
// owns the returned handle and must Destroy it.
func (d *Dict) LoadHandle(p []byte) (Handle, error) {
	l, err := layoutAt(p)
	if err != nil {
		return Handle{}, err
	}

	l.acquire()

	return Handle{l: l}, nil
}

func embedID(l *Layout) uint64 {
	if id := l.id.Load(); id != 0 {
		return id
	}

	id := layouts.put(l)
	if l.id.CompareAndSwap(0, id) {
		return id
	}

	// Lost the race against another embedder.
	layouts.remove(id)

	return l.id.Load()
}

func layoutAt(p []byte) (*Layout, error) {
	if len(p) != handleSize {
		return nil, fmt.Errorf("%w: container instance wants %d bytes, got %d", ErrInstanceSize, handleSize, len(p))
	}

	id := binary.LittleEndian.Uint64(p)
	l, ok := layouts.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: container handle %d", ErrInvalidInstance, id)
	}

	return l, nil
}

// dictElement adapts a Dict to ElementType.
type dictElement struct {
	d *Dict
}

func (e *dictElement) Name() string  { return e.d.name }
func (e *dictElement) ByteSize() int { return handleSize }

func (e *dictElement) Hash([]byte) (int32, error) {
	return 0, notHashable(e.d.name)
}

func (e *dictElement) Compare(a, b []byte, op CompareOp) (bool, error) {
	la, err := layoutAt(a)
	if err != nil {
		return false, err
	}

	lb, err := layoutAt(b)
	if err != nil {
		return false, err
	}

	return e.d.Compare(Handle{l: la}, Handle{l: lb}, op)
}

func (e *dictElement) CopyConstruct(dst, src []byte) error {
	l, err := layoutAt(src)
	if err != nil {
		return err
	}

	l.acquire()
	copy(dst, src)

	return nil
}

func (e *dictElement) Destroy(p []byte) error {
	l, err := layoutAt(p)
	if err != nil {
		return err
	}

	clear(p)

	return e.d.release(l)
}

func (e *dictElement) IsBinaryCompatibleWith(other ElementType) bool {
	o, ok := other.(*dictElement)
	return ok && e.d.IsBinaryCompatibleWith(o.d)
}

func (e *dictElement) Repr(p []byte, w *ReprWriter) error {
	l, err := layoutAt(p)
	if err != nil {
		return err
	}

	return e.d.repr(Handle{l: l}, w)
}
