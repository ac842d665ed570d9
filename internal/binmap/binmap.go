// Package binmap provides the bit-scan primitives behind the allocator's
// two-level bin bitmap: one 32-bit top word whose bits cover groups of eight
// leaf bins, and one byte per group. Finding the smallest qualifying bin is a
// masked trailing-zero count on each level.
package binmap

import "math/bits"

// NoBin is returned when no qualifying bit exists in the word.
const NoBin = ^uint32(0)

// LowestSetBitAfter returns the index of the lowest set bit at or after
// position start, or NoBin if no such bit exists. start may exceed 31, in
// which case the whole word is masked off.
func LowestSetBitAfter(word uint32, start uint32) uint32 {
	maskBeforeStart := (uint32(1) << start) - 1
	masked := word &^ maskBeforeStart
	if masked == 0 {
		return NoBin
	}
	return uint32(bits.TrailingZeros32(masked))
}

// HighestSetBit returns the index of the highest set bit in word. word must
// be non-zero.
func HighestSetBit(word uint32) uint32 {
	return uint32(31 - bits.LeadingZeros32(word))
}
