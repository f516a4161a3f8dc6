package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dharmasatrya/flightmatch/internal/timezone"
)

const (
	envPrefix     = "FLIGHTMATCH"
	ConfigPathEnv = "FLIGHTMATCH_CONFIG_PATH"
)

// Config holds all configuration for the server
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Match     MatchConfig
	Extract   ExtractConfig
	Display   DisplayConfig
	Providers ProvidersConfig
}

type ServerConfig struct {
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// MatchConfig controls validation and matching.
type MatchConfig struct {
	WindowDays      int
	Timezone        string
	RequireContact  bool
	MatchTripType   bool
	LabelFirstToken bool
}

type ExtractConfig struct {
	Boilerplate []string
}

type DisplayConfig struct {
	Currency string
}

type ProvidersConfig struct {
	Timeout     time.Duration
	MaxRetries  int
	RetryDelays []time.Duration
	RateLimit   RateLimitConfig
	Feed        FeedConfig
	SQLite      SQLiteConfig
	Redis       RedisConfig
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
	// Overrides maps a provider name to its own bucket.
	Overrides map[string]ProviderRateLimit
}

type ProviderRateLimit struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type FeedConfig struct {
	Enabled bool
}

type SQLiteConfig struct {
	Enabled bool
	Path    string
	Seed    bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	Key      string
	Seed     bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("match.window_days", 0)
	v.SetDefault("match.timezone", "UTC")
	v.SetDefault("match.require_contact", false)
	v.SetDefault("match.match_trip_type", false)
	v.SetDefault("match.label_first_token", false)

	v.SetDefault("extract.boilerplate", []string{"departure date:", "departure:", "depart:", "date:"})
	v.SetDefault("display.currency", "USD")

	v.SetDefault("providers.timeout", "2s")
	v.SetDefault("providers.max_retries", 2)
	v.SetDefault("providers.retry_delays", []string{"100ms", "200ms", "400ms"})
	v.SetDefault("providers.rate_limit.rps", 10)
	v.SetDefault("providers.rate_limit.burst", 20)

	v.SetDefault("providers.feed.enabled", true)

	v.SetDefault("providers.sqlite.enabled", false)
	v.SetDefault("providers.sqlite.path", "offers.db")
	v.SetDefault("providers.sqlite.seed", true)

	v.SetDefault("providers.redis.enabled", false)
	v.SetDefault("providers.redis.host", "localhost")
	v.SetDefault("providers.redis.port", "6379")
	v.SetDefault("providers.redis.password", "")
	v.SetDefault("providers.redis.db", 0)
	v.SetDefault("providers.redis.key", "flightmatch:offers")
	v.SetDefault("providers.redis.seed", true)
}

// Load reads config.yaml (if any), then environment variables, on top of
// the defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/flightmatch")
	v.AddConfigPath(".")

	if configPath := os.Getenv(ConfigPathEnv); configPath != "" {
		v.SetConfigFile(configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var overrides map[string]ProviderRateLimit
	if err := v.UnmarshalKey("providers.rate_limit.overrides", &overrides); err != nil {
		return nil, fmt.Errorf("invalid configuration: providers.rate_limit.overrides: %w", err)
	}

	retryDelays, err := parseDurations(v.GetStringSlice("providers.retry_delays"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: providers.retry_delays: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("server.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Match: MatchConfig{
			WindowDays:      v.GetInt("match.window_days"),
			Timezone:        v.GetString("match.timezone"),
			RequireContact:  v.GetBool("match.require_contact"),
			MatchTripType:   v.GetBool("match.match_trip_type"),
			LabelFirstToken: v.GetBool("match.label_first_token"),
		},
		Extract: ExtractConfig{
			Boilerplate: v.GetStringSlice("extract.boilerplate"),
		},
		Display: DisplayConfig{
			Currency: strings.ToUpper(v.GetString("display.currency")),
		},
		Providers: ProvidersConfig{
			Timeout:     v.GetDuration("providers.timeout"),
			MaxRetries:  v.GetInt("providers.max_retries"),
			RetryDelays: retryDelays,
			RateLimit: RateLimitConfig{
				RPS:       v.GetFloat64("providers.rate_limit.rps"),
				Burst:     v.GetInt("providers.rate_limit.burst"),
				Overrides: overrides,
			},
			Feed: FeedConfig{
				Enabled: v.GetBool("providers.feed.enabled"),
			},
			SQLite: SQLiteConfig{
				Enabled: v.GetBool("providers.sqlite.enabled"),
				Path:    v.GetString("providers.sqlite.path"),
				Seed:    v.GetBool("providers.sqlite.seed"),
			},
			Redis: RedisConfig{
				Enabled:  v.GetBool("providers.redis.enabled"),
				Host:     v.GetString("providers.redis.host"),
				Port:     v.GetString("providers.redis.port"),
				Password: v.GetString("providers.redis.password"),
				DB:       v.GetInt("providers.redis.db"),
				Key:      v.GetString("providers.redis.key"),
				Seed:     v.GetBool("providers.redis.seed"),
			},
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Location resolves Match.Timezone. validate has already proven it loads.
func (c *Config) Location() *time.Location {
	loc, err := timezone.Load(c.Match.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func parseDurations(values []string) ([]time.Duration, error) {
	out := make([]time.Duration, 0, len(values))
	for _, s := range values {
		d, err := time.ParseDuration(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	if cfg.Match.WindowDays < 0 {
		return fmt.Errorf("match.window_days must not be negative")
	}

	if _, err := timezone.Load(cfg.Match.Timezone); err != nil {
		return fmt.Errorf("match.timezone: %w", err)
	}

	if cfg.Providers.Timeout <= 0 {
		return fmt.Errorf("providers.timeout must be greater than 0")
	}

	if cfg.Providers.MaxRetries < 0 {
		return fmt.Errorf("providers.max_retries must not be negative")
	}

	if cfg.Providers.RateLimit.RPS <= 0 {
		return fmt.Errorf("providers.rate_limit.rps must be greater than 0")
	}

	if cfg.Providers.RateLimit.Burst <= 0 {
		return fmt.Errorf("providers.rate_limit.burst must be greater than 0")
	}

	for name, o := range cfg.Providers.RateLimit.Overrides {
		if o.RPS <= 0 || o.Burst <= 0 {
			return fmt.Errorf("providers.rate_limit.overrides.%s: rps and burst must be greater than 0", name)
		}
	}

	if !cfg.Providers.Feed.Enabled && !cfg.Providers.SQLite.Enabled && !cfg.Providers.Redis.Enabled {
		return fmt.Errorf("at least one provider must be enabled")
	}

	if cfg.Providers.SQLite.Enabled && cfg.Providers.SQLite.Path == "" {
		return fmt.Errorf("providers.sqlite.path is required when sqlite is enabled")
	}

	if cfg.Providers.Redis.Enabled && cfg.Providers.Redis.Key == "" {
		return fmt.Errorf("providers.redis.key is required when redis is enabled")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}

	return nil
}
