package main

import (
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"

	"code.cloudfoundry.org/bytefmt"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clockworklabs/offset-allocator-go/pkg/offsetalloc"
)

var (
	reportSize uint32
	reportSeed int64
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Fragment a fresh allocator and print its free-region histogram",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		allocator, err := offsetalloc.New(reportSize, 128<<10)
		if err != nil {
			return errors.Wrap(err, "creating allocator")
		}

		// Canned fragmentation workload: mixed sizes, then free every
		// other allocation so holes of many classes survive.
		rng := rand.New(rand.NewSource(reportSeed))
		sizes := []uint32{64, 456, 1024, 3456, 16 << 10, 100 << 10, 1 << 20}
		live := make([]offsetalloc.Allocation, 0, 4096)
		for i := 0; i < 2048; i++ {
			allocation := allocator.Allocate(sizes[rng.Intn(len(sizes))])
			if allocation.IsNull() {
				break
			}
			live = append(live, allocation)
		}
		for i := 0; i < len(live); i += 2 {
			allocator.Free(live[i])
		}

		summary := allocator.StorageReport()
		logrus.WithFields(logrus.Fields{
			"free":    bytefmt.ByteSize(uint64(summary.TotalFreeSpace)),
			"largest": bytefmt.ByteSize(uint64(summary.LargestFreeRegion)),
		}).Info("storage summary")

		full := allocator.StorageReportFull()
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "BIN\tSIZE\tFREE REGIONS")
		for bin, region := range full.FreeRegions {
			if region.Count == 0 {
				continue
			}
			fmt.Fprintf(w, "%d\t%s\t%d\n", bin, bytefmt.ByteSize(uint64(region.Size)), region.Count)
		}
		return w.Flush()
	},
}

func init() {
	reportCmd.Flags().Uint32Var(&reportSize, "size", 256<<20, "managed range size in bytes")
	reportCmd.Flags().Int64Var(&reportSeed, "seed", 42, "random seed for the workload")
}
