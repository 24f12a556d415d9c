package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zulandar/southwood/internal/dashboard"
	"github.com/zulandar/southwood/internal/logging"
)

func newDashboardCmd(opts *rootOpts) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Start the web dashboard",
		Long:  "Serves the project tracker's JSON API and Prometheus metrics on localhost.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, opts, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default from config, 8080)")
	return cmd
}

func runDashboard(cmd *cobra.Command, opts *rootOpts, port int) error {
	cfg, gormDB, err := opts.connectFromConfig()
	if err != nil {
		return err
	}
	clock, err := opts.clock()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	if port == 0 {
		port = cfg.Dashboard.Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	return dashboard.Start(ctx, dashboard.StartOpts{
		DB:       gormDB,
		Port:     port,
		Out:      cmd.OutOrStdout(),
		Logger:   log,
		Clock:    clock,
		Projects: cfg.Projects,
	})
}
