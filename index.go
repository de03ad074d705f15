package typeddict

import (
	"fmt"
	"math"
)

const (
	slotEmpty   int32 = -1
	slotDeleted int32 = -2

	// notFound is returned by index lookups that did not match.
	notFound int32 = -1

	minIndexCapacity = 8
)

// hashIndex is an open-addressing table mapping cached key hashes to cell
// indices in slot storage. Removed entries become tombstones so that probe
// chains of entries inserted after them stay intact.
type hashIndex struct {
	// Cell index per bucket, or slotEmpty / slotDeleted.
	slots []int32
	// Cached key hash per bucket, valid for occupied buckets only.
	hashes []int32

	count      int
	tombstones int
}

// matchFunc reports whether the live cell at slot holds the key being probed.
type matchFunc func(slot int32) (bool, error)

func (ix *hashIndex) capacity() int {
	return len(ix.slots)
}

// needsRebuild reports whether one more entry would push occupancy,
// tombstones included, past two thirds of the capacity.
func (ix *hashIndex) needsRebuild() bool {
	return (ix.count+ix.tombstones+1)*3 > len(ix.slots)*2
}

// grownCapacity is the capacity to rebuild with so that live entries plus
// the pending one fill at most a third of the table.
func (ix *hashIndex) grownCapacity() int {
	c := max(minIndexCapacity, len(ix.slots))
	for (ix.count+1)*3 > c {
		c *= 2
	}

	return c
}

// capacityFor returns the smallest capacity keeping n live entries within
// a third of the table.
func capacityFor(n int) int {
	if n > math.MaxInt32/3 {
		panic(fmt.Errorf("%w: cannot index %d entries", ErrAllocationFailure, n))
	}

	return max(minIndexCapacity, int(NextPowerOf2(uint32(n*3))))
}

// add stores slot under hash. The caller must have made room with rebuild
// when needsRebuild reports true.
func (ix *hashIndex) add(hash int32, slot int32) {
	mask := uint32(len(ix.slots) - 1)

	for i := bucketFor(hash, mask); ; i = (i + 1) & mask {
		switch ix.slots[i] {
		case slotDeleted:
			ix.tombstones--
			fallthrough
		case slotEmpty:
			ix.slots[i] = slot
			ix.hashes[i] = hash
			ix.count++

			return
		}
	}
}

// probe returns the bucket holding the entry accepted by matches, or -1.
func (ix *hashIndex) probe(hash int32, matches matchFunc) (int, error) {
	if len(ix.slots) == 0 {
		return -1, nil
	}

	mask := uint32(len(ix.slots) - 1)

	for i := bucketFor(hash, mask); ; i = (i + 1) & mask {
		slot := ix.slots[i]

		// Termination: occupancy never exceeds 2/3, so an empty bucket exists.
		if slot == slotEmpty {
			return -1, nil
		}

		// Tombstones are skipped; the comparator only runs on hash hits.
		if slot >= 0 && ix.hashes[i] == hash {
			ok, err := matches(slot)
			if err != nil {
				return -1, err
			}

			if ok {
				return int(i), nil
			}
		}
	}
}

// find returns the cell index of the entry accepted by matches, or notFound.
func (ix *hashIndex) find(hash int32, matches matchFunc) (int32, error) {
	b, err := ix.probe(hash, matches)
	if b < 0 {
		return notFound, err
	}

	return ix.slots[b], nil
}

// remove turns the bucket of the matching entry into a tombstone and returns
// the cell index it referenced, or notFound.
func (ix *hashIndex) remove(hash int32, matches matchFunc) (int32, error) {
	b, err := ix.probe(hash, matches)
	if b < 0 {
		return notFound, err
	}

	slot := ix.slots[b]
	// Mark as deleted, never empty, to preserve the probe chain
	ix.slots[b] = slotDeleted
	ix.count--
	ix.tombstones++

	return slot, nil
}

// rebuild reinserts every live entry into fresh arrays of the given
// power-of-two capacity, dropping all tombstones.
func (ix *hashIndex) rebuild(capacity int) {
	oldSlots, oldHashes := ix.slots, ix.hashes

	ix.slots = make([]int32, capacity)
	ix.hashes = make([]int32, capacity)
	for i := range ix.slots {
		ix.slots[i] = slotEmpty
	}
	ix.count = 0
	ix.tombstones = 0

	for i, slot := range oldSlots {
		if slot >= 0 {
			ix.add(oldHashes[i], slot)
		}
	}
}

func (ix *hashIndex) release() {
	ix.slots = nil
	ix.hashes = nil
	ix.count = 0
	ix.tombstones = 0
}
