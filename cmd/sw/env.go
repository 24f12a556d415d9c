package main

import (
	"errors"
	"fmt"
	"io/fs"

	"gorm.io/gorm"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/config"
	"github.com/zulandar/southwood/internal/db"
)

// rootOpts carries the persistent flags shared by every subcommand.
type rootOpts struct {
	configPath string
	today      string
}

// loadConfig reads the config file. A missing default file falls back to
// the built-in defaults; an explicit path must exist.
func (o *rootOpts) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err == nil {
		return cfg, nil
	}
	if o.configPath == config.DefaultPath && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, fmt.Errorf("load config: %w", err)
}

// clock returns the clock honoring --today.
func (o *rootOpts) clock() (civil.Clock, error) {
	if o.today == "" {
		return civil.SystemClock{}, nil
	}
	d, ok := civil.Parse(o.today)
	if !ok {
		return nil, fmt.Errorf("--today %q must be YYYY-MM-DD", o.today)
	}
	return civil.Fixed(d), nil
}

// todayDate resolves today's date through clock.
func (o *rootOpts) todayDate() (civil.Date, error) {
	clock, err := o.clock()
	if err != nil {
		return civil.Date{}, err
	}
	return clock.Today(), nil
}

// connectFromConfig loads the config and opens the project store. A sqlite
// store is created and migrated on first use; mysql needs `sw db init`.
func (o *rootOpts) connectFromConfig() (*config.Config, *gorm.DB, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	var gormDB *gorm.DB
	if cfg.Database.Driver == "sqlite" {
		gormDB, err = db.Init(cfg.Database)
	} else {
		gormDB, err = db.Connect(cfg.Database)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return cfg, gormDB, nil
}
