package offsetalloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// checkInvariants verifies the structural invariants that must hold between
// public operations: the neighbor chain partitions [0, size) exactly with no
// adjacent free nodes, the bin bitmaps mirror the bin heads, freeStorage
// matches the bin lists, and the pool freelist holds exactly the slots not
// on the chain.
func checkInvariants[I NodeIndex](t *testing.T, a *Allocator[I]) {
	t.Helper()
	u := unused[I]()

	// Bin lists and bitmaps.
	inBinList := make(map[I]bool)
	var binnedStorage uint32
	for bin := uint32(0); bin < numLeafBins; bin++ {
		head := a.binIndices[bin]
		topBinIndex := bin >> topBinsShift
		leafBinIndex := bin & leafBinsMask

		leafBitSet := a.usedBins[topBinIndex]&(1<<leafBinIndex) != 0
		require.Equal(t, head != u, leafBitSet, "bin %d: leaf bit vs head mismatch", bin)
		if leafBitSet {
			require.NotZero(t, a.usedBinsTop&(1<<topBinIndex), "bin %d: top bit clear", bin)
		}

		prev := u
		for ni := head; ni != u; ni = a.nodes[ni].binListNext {
			n := a.nodes[ni]
			require.False(t, n.used, "bin %d: used node %d on free list", bin, ni)
			require.Equal(t, prev, n.binListPrev, "bin %d: broken back link at node %d", bin, ni)
			require.False(t, inBinList[ni], "node %d on more than one bin list", ni)
			inBinList[ni] = true
			binnedStorage += n.dataSize
			prev = ni
		}
	}
	for topBinIndex := uint32(0); topBinIndex < numTopBins; topBinIndex++ {
		require.Equal(t, a.usedBins[topBinIndex] != 0, a.usedBinsTop&(1<<topBinIndex) != 0,
			"top bit %d vs leaf byte mismatch", topBinIndex)
	}
	require.Equal(t, a.freeStorage, binnedStorage, "freeStorage out of sync with bin lists")

	// Pool freelist: entries [0, freeOffset] are the slots off the chain.
	onFreelist := make(map[I]bool)
	for i := uint32(0); i <= a.freeOffset; i++ {
		require.False(t, onFreelist[a.freeNodes[i]], "slot %d on freelist twice", a.freeNodes[i])
		onFreelist[a.freeNodes[i]] = true
	}

	liveCount := uint32(0)
	chainHead := u
	for i := uint32(0); i < a.maxAllocs; i++ {
		ni := I(i)
		if onFreelist[ni] {
			continue
		}
		liveCount++
		if a.nodes[ni].neighborPrev == u {
			require.Equal(t, u, chainHead, "two chain heads: %d and %d", chainHead, ni)
			chainHead = ni
		}
	}
	require.Equal(t, a.maxAllocs-(a.freeOffset+1), liveCount, "live node count vs freelist")

	// Walk the neighbor chain: exact partition of [0, size), exhaustive
	// coalescing, and every free chain node filed in a bin.
	var walked, chainCount, freeOnChain uint32
	prevFree := false
	for ni := chainHead; ni != u; ni = a.nodes[ni].neighborNext {
		n := a.nodes[ni]
		require.Equal(t, walked, n.dataOffset, "gap or overlap at node %d", ni)
		walked += n.dataSize
		chainCount++

		if !n.used {
			require.False(t, prevFree, "adjacent free nodes at node %d", ni)
			require.True(t, inBinList[ni], "free chain node %d not in any bin", ni)
			freeOnChain++
		}
		prevFree = !n.used

		if n.neighborNext != u {
			require.Equal(t, ni, a.nodes[n.neighborNext].neighborPrev, "broken neighbor back link at %d", ni)
		}
	}
	require.Equal(t, a.size, walked, "chain does not cover the range")
	require.Equal(t, liveCount, chainCount, "chain count vs live nodes")
	require.Equal(t, uint32(len(inBinList)), freeOnChain, "bin lists reference nodes off the chain")
}
