package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	// Debug turns on request/response dumps and forces debug logging.
	Debug bool `mapstructure:"debug"`

	APIHost               string        `mapstructure:"api_host"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	GrantType             string        `mapstructure:"grant_type"`
	ClientID              string        `mapstructure:"client_id"`
	ClientSecret          string        `mapstructure:"client_secret"`

	// VerifyToken requests an access token before the first pass.
	VerifyToken bool `mapstructure:"verify_token"`

	// Optional listing filters; empty values are not sent.
	FilterName         string `mapstructure:"filter_name"`
	FilterCharacter    string `mapstructure:"filter_character"`
	FilterGameSeries   string `mapstructure:"filter_game_series"`
	FilterAmiiboSeries string `mapstructure:"filter_amiibo_series"`
	FilterType         string `mapstructure:"filter_type"`

	PublishersFile      string        `mapstructure:"publishers_file"`
	PollIntervalSeconds int64         `mapstructure:"poll_interval"`
	PollInterval        time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "amiibo-connect")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("debug", false)
	v.SetDefault("api_host", "www.amiiboapi.com")
	v.SetDefault("request_timeout_seconds", 60)
	v.SetDefault("grant_type", "test1")
	v.SetDefault("client_id", "test2")
	v.SetDefault("client_secret", "test2")
	v.SetDefault("verify_token", false)
	v.SetDefault("filter_name", "")
	v.SetDefault("filter_character", "")
	v.SetDefault("filter_game_series", "")
	v.SetDefault("filter_amiibo_series", "")
	v.SetDefault("filter_type", "")
	v.SetDefault("publishers_file", "")
	v.SetDefault("poll_interval", 0) // seconds; 0 runs a single pass
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/amiibo.db")
	v.SetDefault("storage_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finalize validates raw values and derives durations.
func (cfg *Config) finalize() error {
	cfg.APIHost = strings.TrimSpace(cfg.APIHost)
	if cfg.APIHost == "" {
		return fmt.Errorf("invalid api_host (must not be empty)")
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.PollIntervalSeconds < 0 {
		return fmt.Errorf("invalid poll_interval (must be zero or positive seconds)")
	}
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	if cfg.Debug {
		cfg.LogLevel = "debug"
	}
	return nil
}
