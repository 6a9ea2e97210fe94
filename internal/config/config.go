package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DiscordToken      string           `yaml:"discord_token"`
	GitHubToken       string           `yaml:"github_token"`
	DatabasePath      string           `yaml:"database_path"`
	LogLevel          string           `yaml:"log_level"`
	CommandPrefix     string           `yaml:"command_prefix"`
	DefaultLogChannel string           `yaml:"default_log_channel"`
	RetentionDays     int              `yaml:"retention_days"`
	Catalog           CatalogConfig    `yaml:"catalog"`
	Preview           PreviewConfig    `yaml:"preview"`
	Presence          PresenceConfig   `yaml:"presence"`
	Moderation        ModerationConfig `yaml:"moderation"`
	Dashboard         DashboardConfig  `yaml:"dashboard"`
	EmbedColors       EmbedColors      `yaml:"embed_colors"`
}

type CatalogConfig struct {
	FeedURL        string `yaml:"feed_url"`
	RefreshMinutes int    `yaml:"refresh_minutes"`
}

type PreviewConfig struct {
	Enabled         bool     `yaml:"enabled"`
	GiteaHosts      []string `yaml:"gitea_hosts"`
	MaxSnippetLines int      `yaml:"max_snippet_lines"`
}

type PresenceConfig struct {
	Enabled         bool     `yaml:"enabled"`
	IntervalSeconds int      `yaml:"interval_seconds"`
	Statuses        []string `yaml:"statuses"`
}

type ModerationConfig struct {
	MaxTimeoutDays   int `yaml:"max_timeout_days"`
	MaxBanDeleteDays int `yaml:"max_ban_delete_days"`
	MaxPurge         int `yaml:"max_purge"`
	CooldownSeconds  int `yaml:"cooldown_seconds"`
}

type DashboardConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type EmbedColors struct {
	Action  int `yaml:"action"`
	Warning int `yaml:"warning"`
	Error   int `yaml:"error"`
}

func DefaultConfig() Config {
	return Config{
		DatabasePath:      "/data/steward.db",
		LogLevel:          "info",
		CommandPrefix:     "!",
		DefaultLogChannel: "",
		RetentionDays:     30,
		Catalog: CatalogConfig{
			FeedURL:        "",
			RefreshMinutes: 15,
		},
		Preview: PreviewConfig{
			Enabled:         true,
			GiteaHosts:      nil,
			MaxSnippetLines: 20,
		},
		Presence: PresenceConfig{
			Enabled:         true,
			IntervalSeconds: 60,
			Statuses:        []string{"over the server", "for !help"},
		},
		Moderation: ModerationConfig{
			MaxTimeoutDays:   28,
			MaxBanDeleteDays: 7,
			MaxPurge:         100,
			CooldownSeconds:  3,
		},
		Dashboard: DashboardConfig{Enabled: false, Addr: ":8080"},
		EmbedColors: EmbedColors{
			Action:  0x57F287,
			Warning: 0xF59E0B,
			Error:   0xEF4444,
		},
	}
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if cfg.DiscordToken == "" {
		return Config{}, errors.New("DISCORD_TOKEN is required")
	}
	if cfg.CommandPrefix == "" {
		cfg.CommandPrefix = "!"
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DiscordToken = envString("DISCORD_TOKEN", cfg.DiscordToken)
	cfg.GitHubToken = envString("GITHUB_TOKEN", cfg.GitHubToken)
	cfg.DatabasePath = envString("DATABASE_PATH", cfg.DatabasePath)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.CommandPrefix = envString("COMMAND_PREFIX", cfg.CommandPrefix)
	cfg.DefaultLogChannel = envString("DEFAULT_LOG_CHANNEL", cfg.DefaultLogChannel)
	cfg.RetentionDays = envInt("RETENTION_DAYS", cfg.RetentionDays)
	cfg.Catalog.FeedURL = envString("PLUGIN_FEED_URL", cfg.Catalog.FeedURL)
	cfg.Catalog.RefreshMinutes = envInt("PLUGIN_REFRESH_MINUTES", cfg.Catalog.RefreshMinutes)
	cfg.Preview.Enabled = envBool("PREVIEW_ENABLED", cfg.Preview.Enabled)
	cfg.Preview.MaxSnippetLines = envInt("PREVIEW_MAX_SNIPPET_LINES", cfg.Preview.MaxSnippetLines)
	cfg.Presence.Enabled = envBool("PRESENCE_ENABLED", cfg.Presence.Enabled)
	cfg.Presence.IntervalSeconds = envInt("PRESENCE_INTERVAL_SECONDS", cfg.Presence.IntervalSeconds)
	cfg.Moderation.MaxTimeoutDays = envInt("MAX_TIMEOUT_DAYS", cfg.Moderation.MaxTimeoutDays)
	cfg.Moderation.MaxBanDeleteDays = envInt("MAX_BAN_DELETE_DAYS", cfg.Moderation.MaxBanDeleteDays)
	cfg.Moderation.MaxPurge = envInt("MAX_PURGE", cfg.Moderation.MaxPurge)
	cfg.Moderation.CooldownSeconds = envInt("COMMAND_COOLDOWN_SECONDS", cfg.Moderation.CooldownSeconds)
	cfg.Dashboard.Enabled = envBool("DASHBOARD_ENABLED", cfg.Dashboard.Enabled)
	cfg.Dashboard.Addr = envString("DASHBOARD_ADDR", cfg.Dashboard.Addr)
	cfg.EmbedColors.Action = envInt("EMBED_COLOR_ACTION", cfg.EmbedColors.Action)
	cfg.EmbedColors.Warning = envInt("EMBED_COLOR_WARNING", cfg.EmbedColors.Warning)
	cfg.EmbedColors.Error = envInt("EMBED_COLOR_ERROR", cfg.EmbedColors.Error)
}

func BuildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl := strings.ToLower(level)
	switch lvl {
	case "debug", "info", "warn", "error":
		cfg.Level = zap.NewAtomicLevelAt(parseLevel(lvl))
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		lower := strings.ToLower(value)
		return lower == "1" || lower == "true" || lower == "yes"
	}
	return fallback
}
