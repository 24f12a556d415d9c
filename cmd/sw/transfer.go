package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zulandar/southwood/internal/export"
	"github.com/zulandar/southwood/internal/store"
)

func newExportCmd(opts *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export projects to other formats",
	}

	cmd.AddCommand(newExportICSCmd(opts))
	cmd.AddCommand(newExportXLSXCmd(opts))
	cmd.AddCommand(newExportJSONCmd(opts))
	return cmd
}

func newExportICSCmd(opts *rootOpts) *cobra.Command {
	var (
		output   string
		followUp bool
	)

	cmd := &cobra.Command{
		Use:   "ics <id>",
		Short: "Export a calendar event for a project",
		Long:  "Writes an all-day iCalendar event for the project's next milestone, or for its next client follow-up with --follow-up.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := opts.connectFromConfig()
			if err != nil {
				return err
			}
			today, err := opts.todayDate()
			if err != nil {
				return err
			}
			p, err := store.Get(gormDB, projectID(args[0]))
			if err != nil {
				return err
			}

			var body string
			if followUp {
				body = export.FollowUpCalendar(p, today, time.Now())
			} else if body, err = export.MilestoneCalendar(p, today, time.Now()); err != nil {
				return err
			}
			return writeOutput(cmd, output, []byte(body))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&followUp, "follow-up", false, "export the next follow-up instead of the next milestone")
	return cmd
}

func newExportXLSXCmd(opts *rootOpts) *cobra.Command {
	var (
		output string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Export projects to an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := opts.connectFromConfig()
			if err != nil {
				return err
			}
			today, err := opts.todayDate()
			if err != nil {
				return err
			}
			projects, err := store.List(gormDB, store.ListFilters{IncludeCompleted: all})
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := export.WriteWorkbook(&buf, projects, today); err != nil {
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d projects to %s\n", len(projects), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "southwood.xlsx", "output file")
	cmd.Flags().BoolVar(&all, "all", false, "include completed projects")
	return cmd
}

func newExportJSONCmd(opts *rootOpts) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "json",
		Short: "Export every project as JSON",
		Long:  "Writes every project, completed ones included, in the format read by `sw import json`.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := opts.connectFromConfig()
			if err != nil {
				return err
			}
			projects, err := store.All(gormDB)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := store.WriteJSON(&buf, projects); err != nil {
				return err
			}
			return writeOutput(cmd, output, buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newImportCmd(opts *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import projects",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "json <file>",
		Short: "Import projects from a JSON export",
		Long:  "Reads a file written by `sw export json` (\"-\" for stdin). Projects are upserted by id.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := opts.connectFromConfig()
			if err != nil {
				return err
			}

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}
			projects, err := store.ReadJSON(r)
			if err != nil {
				return err
			}
			if err := store.Import(gormDB, projects); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d projects\n", len(projects))
			return nil
		},
	})
	return cmd
}

// writeOutput writes data to path, or to the command's stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
