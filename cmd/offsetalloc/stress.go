package main

import (
	"math/rand"

	"code.cloudfoundry.org/bytefmt"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clockworklabs/offset-allocator-go/pkg/offsetalloc"
)

var (
	stressSize      uint32
	stressMaxAllocs uint32
	stressOps       int
	stressSeed      int64
	stressMaxSize   uint32
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Run a seeded random allocate/free churn",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if stressMaxSize == 0 || stressMaxSize > stressSize {
			return errors.Errorf("--max-alloc-size must be in [1, %d]", stressSize)
		}

		allocator, err := offsetalloc.New(stressSize, stressMaxAllocs)
		if err != nil {
			return errors.Wrap(err, "creating allocator")
		}

		logrus.WithFields(logrus.Fields{
			"size":       bytefmt.ByteSize(uint64(stressSize)),
			"max_allocs": stressMaxAllocs,
			"ops":        stressOps,
			"seed":       stressSeed,
		}).Info("starting churn")

		rng := rand.New(rand.NewSource(stressSeed))
		live := make([]offsetalloc.Allocation, 0, stressMaxAllocs)
		var outOfNodes, outOfSpace int

		for i := 0; i < stressOps; i++ {
			if len(live) == 0 || rng.Intn(2) == 0 {
				size := uint32(rng.Int63n(int64(stressMaxSize))) + 1
				allocation, err := allocator.AllocateChecked(size)
				if err != nil {
					var allocErr *offsetalloc.AllocError
					if !errors.As(err, &allocErr) {
						return err
					}
					if allocErr.Kind == offsetalloc.ErrOutOfNodes {
						outOfNodes++
					} else {
						outOfSpace++
					}
					logrus.WithFields(logrus.Fields{
						"size": size,
						"kind": allocErr.Kind.String(),
					}).Debug("allocation failed")
					continue
				}
				live = append(live, allocation)
			} else {
				j := rng.Intn(len(live))
				allocator.Free(live[j])
				live[j] = live[len(live)-1]
				live = live[:len(live)-1]
			}

			if (i+1)%100000 == 0 {
				report := allocator.StorageReport()
				logrus.WithFields(logrus.Fields{
					"ops":     i + 1,
					"live":    len(live),
					"free":    bytefmt.ByteSize(uint64(report.TotalFreeSpace)),
					"largest": bytefmt.ByteSize(uint64(report.LargestFreeRegion)),
				}).Info("progress")
			}
		}

		for _, h := range live {
			allocator.Free(h)
		}

		report := allocator.StorageReport()
		logrus.WithFields(logrus.Fields{
			"out_of_nodes": outOfNodes,
			"out_of_space": outOfSpace,
			"free":         bytefmt.ByteSize(uint64(report.TotalFreeSpace)),
			"largest":      bytefmt.ByteSize(uint64(report.LargestFreeRegion)),
		}).Info("churn complete")

		if report.TotalFreeSpace != stressSize {
			return errors.Errorf("space leak: %d of %d bytes free after draining", report.TotalFreeSpace, stressSize)
		}
		return nil
	},
}

func init() {
	stressCmd.Flags().Uint32Var(&stressSize, "size", 256<<20, "managed range size in bytes")
	stressCmd.Flags().Uint32Var(&stressMaxAllocs, "max-allocs", 128<<10, "node pool capacity")
	stressCmd.Flags().IntVar(&stressOps, "ops", 1000000, "number of operations to run")
	stressCmd.Flags().Int64Var(&stressSeed, "seed", 1, "random seed")
	stressCmd.Flags().Uint32Var(&stressMaxSize, "max-alloc-size", 64<<10, "largest single allocation in bytes")
}
