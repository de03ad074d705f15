package typeddict

import "sync"

type dictKey struct {
	key   ElementType
	value ElementType
}

// registry memoizes the canonical Dict per (key, value) pair for the life of
// the process.
var registry struct {
	mu    sync.Mutex
	types map[dictKey]*Dict
}

// MakeDict returns the canonical descriptor for Dict(key->value). Every call
// with the same pair returns the same *Dict.
func MakeDict(key, value ElementType) *Dict {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if registry.types == nil {
		registry.types = make(map[dictKey]*Dict)
	}

	k := dictKey{key: key, value: value}
	if d, ok := registry.types[k]; ok {
		return d
	}

	d := NewDict(key, value)
	registry.types[k] = d

	return d
}
