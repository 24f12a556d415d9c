package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zulandar/southwood/internal/db"
)

func newDBCmd(opts *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd(opts))
	return cmd
}

func newDBInitCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the Southwood database",
		Long:  "Creates the database (mysql) and migrates all tables.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, opts)
		},
	}
}

func runDBInit(cmd *cobra.Command, opts *rootOpts) error {
	out := cmd.OutOrStdout()

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	gormDB, err := db.Init(cfg.Database)
	if err != nil {
		return err
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}

	switch cfg.Database.Driver {
	case "mysql":
		fmt.Fprintf(out, "Database %s ready on %s:%d\n", cfg.Database.Name, cfg.Database.Host, cfg.Database.Port)
	default:
		fmt.Fprintf(out, "Database ready at %s\n", cfg.Database.Path)
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))
	fmt.Fprintln(out, "\nSouthwood database initialized successfully.")
	return nil
}
