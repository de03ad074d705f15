package typeddict

// Stats is a point-in-time view of one Layout's storage, as returned by
// Dict.Stats.
type Stats struct {
	// Live pairs.
	Size int
	// Cells in slot storage, live or free.
	Reserved int
	// Buckets in the hash index.
	IndexCapacity int
	// Index buckets left behind by deletes and not yet dropped by a rebuild
	// or Compact.
	Tombstones              int
	TombstonesCapacityRatio float32
	TombstonesSizeRatio     float32
}
