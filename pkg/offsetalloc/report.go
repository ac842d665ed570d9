package offsetalloc

import (
	"github.com/clockworklabs/offset-allocator-go/internal/binmap"
	"github.com/clockworklabs/offset-allocator-go/internal/smallfloat"
)

// StorageReport summarizes free space. LargestFreeRegion is the decoded size
// of the highest non-empty bin — a lower bound, not the exact largest
// block: a bin holds blocks anywhere in [ToSize(b), ToSize(b+1)), so the
// true largest block may be up to ~12.5% larger. Callers using it as a
// scheduling hint must tolerate that pessimism.
type StorageReport struct {
	TotalFreeSpace    uint32
	LargestFreeRegion uint32
}

// BinReport describes one size class in a full report: the class's nominal
// (decoded) size and how many free nodes it currently holds.
type BinReport struct {
	Size  uint32
	Count uint32
}

// StorageReportFull is a per-bin histogram of the free lists.
type StorageReportFull struct {
	FreeRegions [numLeafBins]BinReport
}

// StorageReport returns the free-space summary. When the node pool is
// exhausted both fields report 0 even if free bytes remain, since no further
// allocation can succeed.
func (a *Allocator[I]) StorageReport() StorageReport {
	var largestFreeRegion, freeStorage uint32

	if a.freeOffset > 0 {
		freeStorage = a.freeStorage
		if a.usedBinsTop != 0 {
			topBinIndex := binmap.HighestSetBit(a.usedBinsTop)
			leafBinIndex := binmap.HighestSetBit(uint32(a.usedBins[topBinIndex]))
			largestFreeRegion = smallfloat.ToSize((topBinIndex << topBinsShift) | leafBinIndex)
		}
	}

	return StorageReport{
		TotalFreeSpace:    freeStorage,
		LargestFreeRegion: largestFreeRegion,
	}
}

// StorageReportFull walks every bin's free list and returns the histogram.
// It is a diagnostic view and, unlike the other operations, costs O(bins +
// free nodes).
func (a *Allocator[I]) StorageReportFull() StorageReportFull {
	u := unused[I]()

	var report StorageReportFull
	for bin := uint32(0); bin < numLeafBins; bin++ {
		var count uint32
		for ni := a.binIndices[bin]; ni != u; ni = a.nodes[ni].binListNext {
			count++
		}
		report.FreeRegions[bin] = BinReport{
			Size:  smallfloat.ToSize(bin),
			Count: count,
		}
	}
	return report
}
