package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zulandar/southwood/internal/config"
	"github.com/zulandar/southwood/internal/logging"
	"github.com/zulandar/southwood/internal/store"
	"github.com/zulandar/southwood/internal/telegraph"
	discordadapter "github.com/zulandar/southwood/internal/telegraph/discord"
	slackadapter "github.com/zulandar/southwood/internal/telegraph/slack"
)

func newTelegraphCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "telegraph",
		Aliases: []string{"tg"},
		Short:   "Run the Telegraph chat bridge",
		Long:    "Connects to the configured chat platform (Slack or Discord), answers \"!sw\" commands and posts the scheduled digest.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTelegraph(cmd, opts)
		},
	}
}

func runTelegraph(cmd *cobra.Command, opts *rootOpts) error {
	cfg, gormDB, err := opts.connectFromConfig()
	if err != nil {
		return err
	}
	if cfg.Telegraph.Platform == "" {
		return fmt.Errorf("telegraph: no platform configured in %s (add telegraph.platform)", opts.configPath)
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

	adapter, err := createAdapter(cfg, log)
	if err != nil {
		return err
	}

	daemon, err := telegraph.NewDaemon(telegraph.DaemonOpts{
		DB:      gormDB,
		Config:  cfg.Telegraph,
		Adapter: adapter,
		Logger:  log,
		Clock:   clock,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle OS signals for graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return daemon.Run(ctx)
}

// createAdapter builds a platform adapter from the config.
func createAdapter(cfg *config.Config, log *zap.Logger) (telegraph.Adapter, error) {
	switch cfg.Telegraph.Platform {
	case "slack":
		return slackadapter.New(slackadapter.AdapterOpts{
			AppToken:  cfg.Telegraph.Slack.AppToken,
			BotToken:  cfg.Telegraph.Slack.BotToken,
			ChannelID: cfg.Telegraph.ChannelID,
			Logger:    log,
		})
	case "discord":
		return discordadapter.New(discordadapter.AdapterOpts{
			BotToken:  cfg.Telegraph.Discord.BotToken,
			ChannelID: cfg.Telegraph.ChannelID,
			Logger:    log,
		})
	default:
		return nil, fmt.Errorf("telegraph: unsupported platform %q", cfg.Telegraph.Platform)
	}
}

func newDigestCmd(opts *rootOpts) *cobra.Command {
	var send bool

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print today's digest",
		Long:  "Prints what needs attention today: overdue milestones, milestones due this week, stalled projects and follow-ups due. With --send the digest is posted to the configured chat channel (once per day).",
		RunE: func(cmd *cobra.Command, args []string) error {
			if send {
				return runDigestSend(cmd, opts)
			}
			return runDigestPrint(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&send, "send", false, "post the digest to the configured chat channel")
	return cmd
}

func runDigestPrint(cmd *cobra.Command, opts *rootOpts) error {
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
	digest := telegraph.BuildDigest(projects, today)
	fmt.Fprintln(cmd.OutOrStdout(), digest.Text())
	return nil
}

func runDigestSend(cmd *cobra.Command, opts *rootOpts) error {
	cfg, gormDB, err := opts.connectFromConfig()
	if err != nil {
		return err
	}
	if cfg.Telegraph.Platform == "" {
		return fmt.Errorf("digest: no platform configured in %s (add telegraph.platform)", opts.configPath)
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

	adapter, err := createAdapter(cfg, log)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := adapter.Connect(ctx); err != nil {
		return fmt.Errorf("digest: connect: %w", err)
	}
	defer adapter.Close()

	daemon, err := telegraph.NewDaemon(telegraph.DaemonOpts{
		DB:      gormDB,
		Config:  cfg.Telegraph,
		Adapter: adapter,
		Logger:  log,
		Clock:   clock,
	})
	if err != nil {
		return err
	}
	sent, err := daemon.SendDigest(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if sent {
		fmt.Fprintf(out, "Digest posted to %s %s\n", cfg.Telegraph.Platform, cfg.Telegraph.ChannelID)
	} else {
		fmt.Fprintln(out, "Digest not posted: nothing to report or already sent today.")
	}
	return nil
}
