package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zulandar/southwood/internal/config"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}
	cmd := &cobra.Command{
		Use:           "sw",
		Short:         "Southwood — project pipeline tracker",
		Long:          "Southwood tracks fabrication and installation projects through their phases, flags risk, and answers questions about the pipeline.",
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "path to Southwood config file")
	cmd.PersistentFlags().StringVar(&opts.today, "today", "", "override today's date (YYYY-MM-DD)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newDBCmd(opts))
	cmd.AddCommand(newProjectCmd(opts))
	cmd.AddCommand(newAskCmd(opts))
	cmd.AddCommand(newDashboardCmd(opts))
	cmd.AddCommand(newTelegraphCmd(opts))
	cmd.AddCommand(newDigestCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newImportCmd(opts))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sw %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
