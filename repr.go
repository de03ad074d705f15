package typeddict

import (
	"fmt"
	"strings"
)

// ReprWriter accumulates a textual rendering and tracks the containers
// currently being rendered so that cycles print a reference instead of
// recursing forever.
type ReprWriter struct {
	strings.Builder

	active map[*Layout]struct{}
}

// Repr renders h as {key: value, ...} in cell order.
func (d *Dict) Repr(h Handle) (string, error) {
	var w ReprWriter
	err := d.repr(h, &w)

	return w.String(), err
}

func (d *Dict) repr(h Handle, w *ReprWriter) error {
	l := d.layout(h)

	if _, ok := w.active[l]; ok {
		fmt.Fprintf(w, "%s(%p)", d.name, l)
		return nil
	}

	if w.active == nil {
		w.active = make(map[*Layout]struct{})
	}
	w.active[l] = struct{}{}
	defer delete(w.active, l)

	w.WriteByte('{')

	first := true
	for i := 0; i < d.SlotCount(h); i++ {
		if !d.SlotPopulated(h, i) {
			continue
		}

		if !first {
			w.WriteString(", ")
		}
		first = false

		if err := reprElement(d.key, d.KeyAt(h, i), w); err != nil {
			return err
		}
		w.WriteString(": ")
		if err := reprElement(d.value, d.ValueAt(h, i), w); err != nil {
			return err
		}
	}

	w.WriteByte('}')

	return nil
}

func reprElement(t ElementType, p []byte, w *ReprWriter) error {
	if r, ok := t.(Reprer); ok {
		return r.Repr(p, w)
	}

	fmt.Fprintf(w, "<%s>", t.Name())

	return nil
}
