// Package config provides YAML-based configuration loading for Southwood.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file used when -c is not given.
const DefaultPath = "southwood.yaml"

// Config is the top-level Southwood configuration, loaded from southwood.yaml.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Projects  ProjectsConfig  `yaml:"projects"`
	Telegraph TelegraphConfig `yaml:"telegraph"`
}

// DatabaseConfig selects and addresses the project store.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DashboardConfig holds the HTTP dashboard settings.
type DashboardConfig struct {
	Port int `yaml:"port"`
}

// ProjectsConfig holds defaults applied when creating and editing projects.
type ProjectsConfig struct {
	IDPrefix           string `yaml:"id_prefix"`
	DefaultLocation    string `yaml:"default_location"`
	DefaultCadenceDays int    `yaml:"default_cadence_days"`
	AutoCascade        *bool  `yaml:"auto_cascade"`
}

// Cascade reports whether manual date edits re-cascade by default.
func (p ProjectsConfig) Cascade() bool {
	return p.AutoCascade == nil || *p.AutoCascade
}

// TelegraphConfig configures the chat bridge.
type TelegraphConfig struct {
	Platform  string        `yaml:"platform"`
	ChannelID string        `yaml:"channel_id"`
	Slack     SlackConfig   `yaml:"slack"`
	Discord   DiscordConfig `yaml:"discord"`
	Digest    DigestConfig  `yaml:"digest"`
}

// SlackConfig holds Slack socket-mode credentials.
type SlackConfig struct {
	AppToken string `yaml:"app_token"`
	BotToken string `yaml:"bot_token"`
}

// DiscordConfig holds Discord gateway credentials.
type DiscordConfig struct {
	BotToken string `yaml:"bot_token"`
}

// DigestConfig schedules the daily digest post.
type DigestConfig struct {
	Schedule string `yaml:"schedule"`
	Enabled  *bool  `yaml:"enabled"`
}

// On reports whether the digest is enabled.
func (d DigestConfig) On() bool {
	return d.Enabled == nil || *d.Enabled
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config. Environment
// overrides are applied before defaults and validation.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyEnv(os.Getenv)
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a validated Config with every default applied, used when
// no config file exists.
func Default() *Config {
	var cfg Config
	cfg.applyEnv(os.Getenv)
	cfg.applyDefaults()
	return &cfg
}

// applyEnv overlays secrets and deployment knobs from the environment.
func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Database.Path, "SOUTHWOOD_DB_PATH")
	set(&c.Database.Password, "SOUTHWOOD_DB_PASSWORD")
	set(&c.Telegraph.Slack.AppToken, "SOUTHWOOD_SLACK_APP_TOKEN")
	set(&c.Telegraph.Slack.BotToken, "SOUTHWOOD_SLACK_BOT_TOKEN")
	set(&c.Telegraph.Discord.BotToken, "SOUTHWOOD_DISCORD_BOT_TOKEN")
	set(&c.Log.Level, "SOUTHWOOD_LOG_LEVEL")
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "southwood.db"
	}
	if c.Database.Driver == "mysql" {
		if c.Database.Port == 0 {
			c.Database.Port = 3306
		}
		if c.Database.User == "" {
			c.Database.User = "root"
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8080
	}
	if c.Projects.IDPrefix == "" {
		c.Projects.IDPrefix = "SW"
	}
	if c.Projects.DefaultLocation == "" {
		c.Projects.DefaultLocation = "Rock Hill, SC"
	}
	if c.Projects.DefaultCadenceDays == 0 {
		c.Projects.DefaultCadenceDays = 14
	}
	if c.Telegraph.Digest.Schedule == "" {
		c.Telegraph.Digest.Schedule = "0 8 * * 1-5"
	}
}

// cronParser accepts standard 5-field cron expressions.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case "sqlite":
	case "mysql":
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required for mysql")
		}
		if c.Database.Name == "" {
			errs = append(errs, "database.name is required for mysql")
		}
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q must be sqlite or mysql", c.Database.Driver))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf("log.level %q is not a valid level", c.Log.Level))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q must be console or json", c.Log.Format))
	}
	if c.Dashboard.Port < 0 || c.Dashboard.Port > 65535 {
		errs = append(errs, fmt.Sprintf("dashboard.port %d is out of range", c.Dashboard.Port))
	}
	if c.Projects.DefaultCadenceDays < 1 {
		errs = append(errs, "projects.default_cadence_days must be at least 1")
	}
	if strings.TrimSpace(c.Projects.IDPrefix) == "" {
		errs = append(errs, "projects.id_prefix is required")
	}
	if _, err := cronParser.Parse(c.Telegraph.Digest.Schedule); err != nil {
		errs = append(errs, fmt.Sprintf("telegraph.digest.schedule %q: %v", c.Telegraph.Digest.Schedule, err))
	}
	switch c.Telegraph.Platform {
	case "":
	case "slack":
		if c.Telegraph.Slack.AppToken == "" || c.Telegraph.Slack.BotToken == "" {
			errs = append(errs, "telegraph.slack.app_token and bot_token are required for slack")
		}
	case "discord":
		if c.Telegraph.Discord.BotToken == "" {
			errs = append(errs, "telegraph.discord.bot_token is required for discord")
		}
	default:
		errs = append(errs, fmt.Sprintf("telegraph.platform %q must be slack or discord", c.Telegraph.Platform))
	}
	if c.Telegraph.Platform != "" && c.Telegraph.ChannelID == "" {
		errs = append(errs, "telegraph.channel_id is required when a platform is set")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
