package telegraph

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/config"
	"github.com/zulandar/southwood/internal/metrics"
	"github.com/zulandar/southwood/internal/models"
	"github.com/zulandar/southwood/internal/store"
)

// Daemon is the main telegraph process. It connects to a chat platform via
// an Adapter, answers "!sw" messages and posts the scheduled digest.
type Daemon struct {
	db      *gorm.DB
	cfg     config.TelegraphConfig
	adapter Adapter
	log     *zap.Logger
	clock   civil.Clock
}

// DaemonOpts holds parameters for creating a new Daemon.
type DaemonOpts struct {
	DB      *gorm.DB
	Config  config.TelegraphConfig
	Adapter Adapter
	Logger  *zap.Logger // defaults to a no-op logger
	Clock   civil.Clock // defaults to the system clock
}

// NewDaemon creates a Daemon with the given options.
func NewDaemon(opts DaemonOpts) (*Daemon, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("telegraph: db is required")
	}
	if opts.Adapter == nil {
		return nil, fmt.Errorf("telegraph: adapter is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = civil.SystemClock{}
	}
	return &Daemon{
		db:      opts.DB,
		cfg:     opts.Config,
		adapter: opts.Adapter,
		log:     log,
		clock:   clock,
	}, nil
}

// Run starts the telegraph daemon. It connects the adapter, builds the
// router and digest scheduler, and blocks until the context is cancelled.
// On shutdown it closes the adapter gracefully.
func (d *Daemon) Run(ctx context.Context) error {
	d.log.Info("telegraph connecting", zap.String("platform", d.cfg.Platform))
	if err := d.adapter.Connect(ctx); err != nil {
		return fmt.Errorf("telegraph: connect: %w", err)
	}

	var botUserID string
	if bui, ok := d.adapter.(BotUserIDer); ok {
		botUserID = bui.BotUserID()
	}

	cmdHandler, err := NewCommandHandler(CommandHandlerOpts{DB: d.db, Clock: d.clock})
	if err != nil {
		d.adapter.Close()
		return fmt.Errorf("telegraph: build command handler: %w", err)
	}
	router, err := NewRouter(RouterOpts{
		CmdHandler: cmdHandler,
		Adapter:    d.adapter,
		BotUserID:  botUserID,
		Logger:     d.log,
	})
	if err != nil {
		d.adapter.Close()
		return fmt.Errorf("telegraph: build router: %w", err)
	}

	inbound, err := d.adapter.Listen(ctx)
	if err != nil {
		d.adapter.Close()
		return fmt.Errorf("telegraph: listen: %w", err)
	}

	if d.cfg.Digest.On() {
		go d.runDigestScheduler(ctx)
	}

	d.log.Info("telegraph online", zap.String("channel", d.cfg.ChannelID))

	for {
		select {
		case <-ctx.Done():
			d.log.Info("telegraph shutting down")
			if err := d.adapter.Close(); err != nil {
				d.log.Warn("telegraph: close adapter", zap.Error(err))
			}
			return nil

		case msg, ok := <-inbound:
			if !ok {
				d.log.Info("telegraph inbound channel closed")
				return nil
			}
			router.Handle(ctx, msg)
		}
	}
}

// runDigestScheduler posts the digest each time the cron schedule fires.
func (d *Daemon) runDigestScheduler(ctx context.Context) {
	wait := nextCronDuration(d.cfg.Digest.Schedule, time.Now())
	if wait <= 0 {
		d.log.Warn("telegraph: digest schedule never fires", zap.String("schedule", d.cfg.Digest.Schedule))
		return
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if _, err := d.SendDigest(ctx); err != nil {
				d.log.Error("telegraph: digest", zap.Error(err))
			}
			if wait := nextCronDuration(d.cfg.Digest.Schedule, time.Now()); wait > 0 {
				timer.Reset(wait)
			}
		}
	}
}

// SendDigest builds today's digest and posts it to the configured channel.
// Empty digests are suppressed, and a digest already delivered today is not
// posted again. It reports whether a message was sent.
func (d *Daemon) SendDigest(ctx context.Context) (bool, error) {
	today := d.clock.Today()
	day := today.String()

	delivered, err := store.Delivered(d.db, DigestKind, d.cfg.Platform, d.cfg.ChannelID, day)
	if err != nil {
		return false, err
	}
	if delivered {
		metrics.IncrementNotification(DigestKind, "duplicate")
		d.log.Debug("telegraph: digest already delivered", zap.String("day", day))
		return false, nil
	}

	projects, err := store.All(d.db)
	if err != nil {
		return false, fmt.Errorf("telegraph: digest: %w", err)
	}
	digest := BuildDigest(projects, today)
	if digest.Empty() {
		metrics.IncrementNotification(DigestKind, "empty")
		d.log.Info("telegraph: digest suppressed, nothing to report", zap.String("day", day))
		return false, nil
	}

	if err := d.adapter.Send(ctx, OutboundMessage{
		ChannelID: d.cfg.ChannelID,
		Text:      "**" + digest.Title() + "**",
		Events:    digest.Events(),
	}); err != nil {
		metrics.IncrementNotification(DigestKind, "error")
		return false, fmt.Errorf("telegraph: send digest: %w", err)
	}

	if _, err := store.RecordNotification(d.db, &models.Notification{
		Kind:      DigestKind,
		Platform:  d.cfg.Platform,
		ChannelID: d.cfg.ChannelID,
		Day:       day,
		Body:      digest.Text(),
	}); err != nil {
		d.log.Warn("telegraph: record digest", zap.Error(err))
	}
	metrics.IncrementNotification(DigestKind, "sent")
	d.log.Info("telegraph: digest sent",
		zap.String("day", day),
		zap.Int("overdue", len(digest.Overdue)),
		zap.Int("due_this_week", len(digest.DueThisWeek)),
	)
	return true, nil
}
