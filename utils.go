package typeddict

import (
	"math/bits"
)

// NextPowerOf2 returns the smallest power of two that is >= v, capped at
// 1<<31. Zero rounds up to 1<<31 as well, so callers pass v > 0.
func NextPowerOf2(v uint32) uint32 {
	return uint32(1) << min(bits.Len32(v-1), 31)
}
