package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zulandar/southwood/internal/metrics"
	"github.com/zulandar/southwood/internal/query"
	"github.com/zulandar/southwood/internal/store"
)

func newAskCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about the pipeline",
		Long: `Answers a plain-language question over every project, e.g.

  sw ask "what's overdue"
  sw ask "permitting projects over 100k"
  sw ask "installs next month for Acme"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := opts.connectFromConfig()
			if err != nil {
				return err
			}
			today, err := opts.todayDate()
			if err != nil {
				return err
			}
			projects, err := store.All(gormDB)
			if err != nil {
				return err
			}
			report := query.Answer(projects, strings.Join(args, " "), today)
			metrics.IncrementQuery(report.Kind)
			fmt.Fprintln(cmd.OutOrStdout(), report.Text)
			return nil
		},
	}
}
