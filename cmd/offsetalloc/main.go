package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagJSON    bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "offsetalloc",
	Short: "Exercise and inspect the offset allocator",
	Long: `offsetalloc drives the offset allocator library from the command line.
The stress command runs a seeded random allocate/free churn and reports the
final storage state; the report command fragments a fresh allocator with a
canned workload and prints the per-bin free-region histogram.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagJSON {
			logrus.SetFormatter(&logrus.JSONFormatter{})
		}
		if flagVerbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "log in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(stressCmd)
	rootCmd.AddCommand(reportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
