package typeddict

// CompareOp selects the relation evaluated by ElementType.Compare.
type CompareOp int

const (
	OpLT CompareOp = iota
	OpLE
	OpEQ
	OpNE
	OpGT
	OpGE
)

func (op CompareOp) String() string {
	switch op {
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpEQ:
		return "=="
	case OpNE:
		return "!="
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	}

	return "op(?)"
}

// resultFor maps a three-way ordering result (negative, zero, positive) to
// the answer for op.
func (op CompareOp) resultFor(c int) bool {
	switch op {
	case OpLT:
		return c < 0
	case OpLE:
		return c <= 0
	case OpEQ:
		return c == 0
	case OpNE:
		return c != 0
	case OpGT:
		return c > 0
	case OpGE:
		return c >= 0
	}

	return false
}

// ElementType is the capability set the engine uses to manage key and value
// instances whose concrete type is only known at run time.
//
// An instance is a region of exactly ByteSize() bytes. Instances must be
// relocatable by a plain byte copy: storage growth moves cell bytes without
// calling CopyConstruct or Destroy. Implementations must be comparable (use
// pointer receivers) since descriptors are memoized by their element types.
type ElementType interface {
	Name() string
	ByteSize() int

	// Hash returns the 32-bit hash of the instance at p, or an error wrapping
	// ErrNotHashable.
	Hash(p []byte) (int32, error)

	// Compare evaluates "a op b". Types that do not order their instances
	// fail with ErrUnsupportedComparison for ordering operators.
	Compare(a, b []byte, op CompareOp) (bool, error)

	// CopyConstruct initializes the uninitialized region dst as a copy of src.
	CopyConstruct(dst, src []byte) error

	// Destroy releases whatever the instance at p owns.
	Destroy(p []byte) error

	IsBinaryCompatibleWith(other ElementType) bool
}

// Reprer is implemented by element types that can render their instances.
type Reprer interface {
	Repr(p []byte, w *ReprWriter) error
}
