package typeddict

import "github.com/cespare/xxhash/v2"

// foldHash reduces a 64-bit hash to the 32-bit codes cached by the index.
func foldHash(h uint64) int32 {
	return int32(uint32(h) ^ uint32(h>>32))
}

func hashString(s string) int32 {
	return foldHash(xxhash.Sum64String(s))
}

// bucketFor returns the first bucket probed for hash in a table of mask+1
// buckets.
func bucketFor(hash int32, mask uint32) uint32 {
	return uint32(hash) & mask
}
