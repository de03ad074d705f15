package typeddict

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// String is the built-in string element type. Its 8-byte instance is an id
// into a refcounted pool; the zero id is the empty string.
var String = &stringType{name: "str", pool: newHandleTable[*pooledString]()}

type pooledString struct {
	s    string
	refs atomic.Int64
}

type stringType struct {
	name string
	pool *handleTable[*pooledString]
}

func (t *stringType) Name() string  { return t.name }
func (t *stringType) ByteSize() int { return 8 }

// Put constructs an instance of s into the uninitialized region p.
func (t *stringType) Put(p []byte, s string) {
	var id uint64
	if s != "" {
		e := &pooledString{s: s}
		e.refs.Store(1)
		id = t.pool.put(e)
	}

	binary.LittleEndian.PutUint64(p, id)
}

// Make returns a new instance holding s. The caller owns it and must
// Destroy it.
func (t *stringType) Make(s string) []byte {
	p := make([]byte, 8)
	t.Put(p, s)

	return p
}

// Get returns the string held by the instance at p, or "" if p refers to a
// released entry.
func (t *stringType) Get(p []byte) string {
	s, _ := t.load(p)
	return s
}

// Live reports how many distinct strings are currently pooled.
func (t *stringType) Live() int {
	return t.pool.len()
}

func (t *stringType) entry(p []byte) (*pooledString, uint64, error) {
	id := binary.LittleEndian.Uint64(p)
	if id == 0 {
		return nil, 0, nil
	}

	e, ok := t.pool.get(id)
	if !ok {
		return nil, id, fmt.Errorf("%w: %s handle %d", ErrInvalidInstance, t.name, id)
	}

	return e, id, nil
}

func (t *stringType) load(p []byte) (string, error) {
	e, _, err := t.entry(p)
	if e == nil {
		return "", err
	}

	return e.s, nil
}

func (t *stringType) Hash(p []byte) (int32, error) {
	s, err := t.load(p)
	if err != nil {
		return 0, err
	}

	return hashString(s), nil
}

func (t *stringType) Compare(a, b []byte, op CompareOp) (bool, error) {
	x, err := t.load(a)
	if err != nil {
		return false, err
	}

	y, err := t.load(b)
	if err != nil {
		return false, err
	}

	return op.resultFor(strings.Compare(x, y)), nil
}

func (t *stringType) CopyConstruct(dst, src []byte) error {
	e, id, err := t.entry(src)
	if err != nil {
		return err
	}

	if e != nil {
		e.refs.Add(1)
	}
	binary.LittleEndian.PutUint64(dst, id)

	return nil
}

func (t *stringType) Destroy(p []byte) error {
	e, id, err := t.entry(p)
	if err != nil {
		return err
	}

	if e != nil && e.refs.Add(-1) == 0 {
		t.pool.remove(id)
	}
	clear(p)

	return nil
}

func (t *stringType) IsBinaryCompatibleWith(other ElementType) bool {
	return other == ElementType(t)
}

func (t *stringType) Repr(p []byte, w *ReprWriter) error {
	s, err := t.load(p)
	if err != nil {
		return err
	}

	w.WriteString(strconv.Quote(s))

	return nil
}
