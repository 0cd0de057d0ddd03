package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv      = "NEWS_TYPING_CONFIG"
	supabaseURLEnv     = "SUPABASE_URL"
	serviceRoleKeyEnv  = "SUPABASE_SERVICE_ROLE_KEY"
	databaseURLEnv     = "SUPABASE_DB_URL"
	guardianAPIKeyEnv  = "GUARDIAN_API_KEY"
	claudeAPIKeyEnv    = "CLAUDE_API_KEY"
	claudeModelEnv     = "CLAUDE_MODEL"
	newsProviderEnv    = "NEWS_PROVIDER"
	rssFeedURLEnv      = "RSS_FEED_URL"
	portEnv            = "PORT"
	logLevelEnv        = "LOG_LEVEL"
	defaultRetention   = 24 * time.Hour
	defaultRefreshTick = 6 * time.Hour
)

// Provider names accepted by news.provider.
const (
	ProviderGuardian = "guardian"
	ProviderRSS      = "rss"
)

// Config holds every setting the service needs.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Supabase   SupabaseConfig   `yaml:"supabase"`
	News       NewsConfig       `yaml:"news"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Articles   ArticlesConfig   `yaml:"articles"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	RateLimit  RateLimitConfig  `yaml:"rateLimit"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SupabaseConfig covers both the Postgres datastore and the identity endpoint.
type SupabaseConfig struct {
	URL             string `yaml:"url"`
	ServiceRoleKey  string `yaml:"serviceRoleKey"`
	DatabaseURL     string `yaml:"databaseUrl"`
	IdentityTimeout string `yaml:"identityTimeout"`
}

type NewsConfig struct {
	Provider string         `yaml:"provider"`
	Timeout  string         `yaml:"timeout"`
	Guardian GuardianConfig `yaml:"guardian"`
	RSS      RSSConfig      `yaml:"rss"`
}

type GuardianConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
}

type RSSConfig struct {
	URL   string `yaml:"url"`
	Label string `yaml:"label"`
}

// SummarizerConfig describes how to reach the Claude Messages API.
type SummarizerConfig struct {
	Endpoint  string `yaml:"endpoint"`
	APIKey    string `yaml:"apiKey"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"maxTokens"`
	Timeout   string `yaml:"timeout"`
}

type ArticlesConfig struct {
	Retention        string `yaml:"retention"`
	FallbackPageSize int    `yaml:"fallbackPageSize"`
	PreloadBatchSize int    `yaml:"preloadBatchSize"`
}

// SchedulerConfig controls the background refresh. An interval of "0" disables it.
type SchedulerConfig struct {
	Interval string `yaml:"interval"`
}

type RateLimitConfig struct {
	TestsPerMinute int `yaml:"testsPerMinute"`
}

// Load builds defaults, overlays the YAML file at path (or $NEWS_TYPING_CONFIG)
// and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	if cfg.Supabase.DatabaseURL == "" {
		cfg.Supabase.DatabaseURL = dsnFromParts()
	}

	return cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8000",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Logging:  LoggingConfig{Level: "info"},
		Supabase: SupabaseConfig{IdentityTimeout: "10s"},
		News: NewsConfig{
			Provider: ProviderGuardian,
			Timeout:  "15s",
			Guardian: GuardianConfig{Endpoint: "https://content.guardianapis.com/search"},
			RSS:      RSSConfig{Label: "RSS"},
		},
		Summarizer: SummarizerConfig{
			Endpoint:  "https://api.anthropic.com/v1/messages",
			Model:     "claude-haiku-4-5-20251001",
			MaxTokens: 500,
			Timeout:   "60s",
		},
		Articles: ArticlesConfig{
			Retention:        "24h",
			FallbackPageSize: 20,
			PreloadBatchSize: 10,
		},
		Scheduler: SchedulerConfig{Interval: "6h"},
		RateLimit: RateLimitConfig{TestsPerMinute: 10},
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(supabaseURLEnv); v != "" {
		c.Supabase.URL = v
	}
	if v := os.Getenv(serviceRoleKeyEnv); v != "" {
		c.Supabase.ServiceRoleKey = v
	}
	if v := os.Getenv(databaseURLEnv); v != "" {
		c.Supabase.DatabaseURL = v
	}
	if v := os.Getenv(guardianAPIKeyEnv); v != "" {
		c.News.Guardian.APIKey = v
	}
	if v := os.Getenv(newsProviderEnv); v != "" {
		c.News.Provider = v
	}
	if v := os.Getenv(rssFeedURLEnv); v != "" {
		c.News.RSS.URL = v
	}
	if v := os.Getenv(claudeAPIKeyEnv); v != "" {
		c.Summarizer.APIKey = v
	}
	if v := os.Getenv(claudeModelEnv); v != "" {
		c.Summarizer.Model = v
	}
	if v := os.Getenv(portEnv); v != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

// dsnFromParts composes a DSN from the user/password/host/port/dbname
// variables Supabase hands out for direct Postgres access.
func dsnFromParts() string {
	user := strings.TrimSpace(os.Getenv("user"))
	host := strings.TrimSpace(os.Getenv("host"))
	dbName := strings.TrimSpace(os.Getenv("dbname"))
	if user == "" || host == "" || dbName == "" {
		return ""
	}

	port := strings.TrimSpace(os.Getenv("port"))
	if port == "" {
		port = "5432"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, strings.TrimSpace(os.Getenv("password"))),
		Host:     host + ":" + port,
		Path:     "/" + dbName,
		RawQuery: "sslmode=require",
	}
	return u.String()
}

// Validate reports the settings without which the service cannot start.
func (c Config) Validate() error {
	var missing []string
	if c.Supabase.DatabaseURL == "" {
		missing = append(missing, databaseURLEnv)
	}
	if c.Supabase.URL == "" {
		missing = append(missing, supabaseURLEnv)
	}
	if c.Supabase.ServiceRoleKey == "" {
		missing = append(missing, serviceRoleKeyEnv)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch c.News.Provider {
	case ProviderGuardian, ProviderRSS:
	default:
		return fmt.Errorf("unknown news provider %q (valid: %s, %s)", c.News.Provider, ProviderGuardian, ProviderRSS)
	}

	for name, value := range map[string]string{
		"articles.retention":       c.Articles.Retention,
		"news.timeout":             c.News.Timeout,
		"summarizer.timeout":       c.Summarizer.Timeout,
		"supabase.identityTimeout": c.Supabase.IdentityTimeout,
		"scheduler.interval":       c.Scheduler.Interval,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if c.Articles.FallbackPageSize <= 0 || c.Articles.PreloadBatchSize <= 0 {
		return errors.New("articles page sizes must be positive")
	}
	if c.RateLimit.TestsPerMinute <= 0 {
		return errors.New("rateLimit.testsPerMinute must be positive")
	}
	return nil
}

// NewsEnabled reports whether the configured provider has what it needs.
func (c Config) NewsEnabled() bool {
	switch c.News.Provider {
	case ProviderRSS:
		return c.News.RSS.URL != ""
	default:
		return c.News.Guardian.APIKey != ""
	}
}

// SummarizerEnabled reports whether ingestion can run.
func (c Config) SummarizerEnabled() bool {
	return c.Summarizer.APIKey != ""
}

func (c Config) RetentionDuration() time.Duration {
	return parseDuration(c.Articles.Retention, defaultRetention)
}

func (c Config) RefreshInterval() time.Duration {
	return parseDuration(c.Scheduler.Interval, defaultRefreshTick)
}

func (c Config) NewsTimeout() time.Duration {
	return parseDuration(c.News.Timeout, 15*time.Second)
}

func (c Config) SummarizerTimeout() time.Duration {
	return parseDuration(c.Summarizer.Timeout, 60*time.Second)
}

func (c Config) IdentityTimeout() time.Duration {
	return parseDuration(c.Supabase.IdentityTimeout, 10*time.Second)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
