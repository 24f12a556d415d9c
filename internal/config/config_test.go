package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullYAML = `
database:
  driver: mysql
  host: 10.0.0.5
  port: 3307
  name: southwood
  user: tracker
  password: secret

log:
  level: debug
  format: json

dashboard:
  port: 9090

projects:
  id_prefix: RH
  default_location: Fort Mill, SC
  default_cadence_days: 7
  auto_cascade: false

telegraph:
  platform: slack
  channel_id: C0123
  slack:
    app_token: xapp-1
    bot_token: xoxb-1
  digest:
    schedule: "30 7 * * *"
    enabled: false
`

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Driver != "mysql" {
		t.Errorf("Database.Driver = %q, want mysql", cfg.Database.Driver)
	}
	if cfg.Database.Port != 3307 {
		t.Errorf("Database.Port = %d, want 3307", cfg.Database.Port)
	}
	if cfg.Database.User != "tracker" {
		t.Errorf("Database.User = %q, want tracker", cfg.Database.User)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want debug/json", cfg.Log)
	}
	if cfg.Dashboard.Port != 9090 {
		t.Errorf("Dashboard.Port = %d, want 9090", cfg.Dashboard.Port)
	}
	if cfg.Projects.IDPrefix != "RH" {
		t.Errorf("Projects.IDPrefix = %q, want RH", cfg.Projects.IDPrefix)
	}
	if cfg.Projects.DefaultCadenceDays != 7 {
		t.Errorf("Projects.DefaultCadenceDays = %d, want 7", cfg.Projects.DefaultCadenceDays)
	}
	if cfg.Projects.Cascade() {
		t.Error("Projects.Cascade() = true, want false")
	}
	if cfg.Telegraph.Digest.On() {
		t.Error("Digest.On() = true, want false")
	}
	if cfg.Telegraph.Digest.Schedule != "30 7 * * *" {
		t.Errorf("Digest.Schedule = %q", cfg.Telegraph.Digest.Schedule)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"Database.Driver", cfg.Database.Driver, "sqlite"},
		{"Database.Path", cfg.Database.Path, "southwood.db"},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "console"},
		{"Dashboard.Port", cfg.Dashboard.Port, 8080},
		{"Projects.IDPrefix", cfg.Projects.IDPrefix, "SW"},
		{"Projects.DefaultLocation", cfg.Projects.DefaultLocation, "Rock Hill, SC"},
		{"Projects.DefaultCadenceDays", cfg.Projects.DefaultCadenceDays, 14},
		{"Projects.Cascade", cfg.Projects.Cascade(), true},
		{"Digest.Schedule", cfg.Telegraph.Digest.Schedule, "0 8 * * 1-5"},
		{"Digest.On", cfg.Telegraph.Digest.On(), true},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestParse_MySQLDefaults(t *testing.T) {
	cfg, err := Parse([]byte("database:\n  driver: mysql\n  host: db\n  name: sw\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Port != 3306 {
		t.Errorf("Port = %d, want 3306", cfg.Database.Port)
	}
	if cfg.Database.User != "root" {
		t.Errorf("User = %q, want root", cfg.Database.User)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad driver", "database:\n  driver: postgres\n", `database.driver "postgres"`},
		{"mysql no host", "database:\n  driver: mysql\n  name: sw\n", "database.host is required"},
		{"mysql no name", "database:\n  driver: mysql\n  host: db\n", "database.name is required"},
		{"bad log level", "log:\n  level: loud\n", `log.level "loud"`},
		{"bad log format", "log:\n  format: xml\n", `log.format "xml"`},
		{"bad port", "dashboard:\n  port: 70000\n", "dashboard.port 70000"},
		{"bad cadence", "projects:\n  default_cadence_days: -2\n", "default_cadence_days must be at least 1"},
		{"bad cron", "telegraph:\n  digest:\n    schedule: every morning\n", "telegraph.digest.schedule"},
		{"bad platform", "telegraph:\n  platform: irc\n  channel_id: x\n", `telegraph.platform "irc"`},
		{"slack no tokens", "telegraph:\n  platform: slack\n  channel_id: C1\n", "telegraph.slack.app_token"},
		{"discord no token", "telegraph:\n  platform: discord\n  channel_id: 1\n", "telegraph.discord.bot_token"},
		{"no channel", "telegraph:\n  platform: discord\n  discord:\n    bot_token: t\n", "telegraph.channel_id is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
			if !strings.HasPrefix(err.Error(), "config: validation failed: ") {
				t.Errorf("error = %q, want config: validation failed prefix", err)
			}
		})
	}
}

func TestParse_CollectsAllErrors(t *testing.T) {
	_, err := Parse([]byte("database:\n  driver: mysql\nlog:\n  format: xml\n"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if n := strings.Count(err.Error(), ";"); n != 2 {
		t.Errorf("error = %q, want 3 problems joined by ;", err)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("database: [unclosed"))
	if err == nil || !strings.HasPrefix(err.Error(), "config: parse:") {
		t.Errorf("error = %v, want config: parse prefix", err)
	}
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("SOUTHWOOD_DB_PATH", "/tmp/env.db")
	t.Setenv("SOUTHWOOD_DISCORD_BOT_TOKEN", "from-env")
	t.Setenv("SOUTHWOOD_LOG_LEVEL", "warn")

	cfg, err := Parse([]byte("database:\n  path: file.db\ntelegraph:\n  platform: discord\n  channel_id: \"42\"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Path != "/tmp/env.db" {
		t.Errorf("Database.Path = %q, want /tmp/env.db", cfg.Database.Path)
	}
	if cfg.Telegraph.Discord.BotToken != "from-env" {
		t.Errorf("Discord.BotToken = %q, want from-env", cfg.Telegraph.Discord.BotToken)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "southwood.yaml")
	if err := os.WriteFile(path, []byte("dashboard:\n  port: 8181\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dashboard.Port != 8181 {
		t.Errorf("Dashboard.Port = %d, want 8181", cfg.Dashboard.Port)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load(missing) should fail")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.validate(); err != nil {
		t.Errorf("Default().validate() = %v, want nil", err)
	}
}
