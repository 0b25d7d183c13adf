package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"edition_collector/internal/domain"
	"edition_collector/internal/scoring"
)

type Config struct {
	Database  DatabaseConfig          `yaml:"database"`
	Redis     RedisConfig             `yaml:"redis"`
	RabbitMQ  RabbitMQConfig          `yaml:"rabbitmq"`
	HTTP      HTTPConfig              `yaml:"http"`
	Collector CollectorConfig         `yaml:"collector"`
	Schedule  ScheduleConfig          `yaml:"schedule"`
	Sources   map[string]SourceConfig `yaml:"sources"`
	Widgets   WidgetsConfig           `yaml:"widgets"`
	Retry     RetryConfig             `yaml:"retry"`
	LogLevel  string                  `yaml:"log_level"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig configures the article cache. An empty URL disables caching.
type RedisConfig struct {
	URL            string        `yaml:"url"`
	Prefix         string        `yaml:"prefix"`
	StaleRetention time.Duration `yaml:"stale_retention"`
}

// RabbitMQConfig configures edition notifications. An empty URL disables them.
type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	CronSecret   string        `yaml:"cron_secret"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type EmptyEditionPolicy string

const (
	EmptyPublish   EmptyEditionPolicy = "publish"
	EmptyKeepDraft EmptyEditionPolicy = "keep_draft"
	EmptyDiscard   EmptyEditionPolicy = "discard"
)

type CollectorConfig struct {
	Timezone           string             `yaml:"timezone"`
	CutoverHour        int                `yaml:"cutover_hour"`
	FetchTimeout       time.Duration      `yaml:"fetch_timeout"`
	RunTimeout         time.Duration      `yaml:"run_timeout"`
	HTTPTimeout        time.Duration      `yaml:"http_timeout"`
	WidgetTTL          time.Duration      `yaml:"widget_ttl"`
	EmptyEditionPolicy EmptyEditionPolicy `yaml:"empty_edition_policy"`
	StuckDraftAge      time.Duration      `yaml:"stuck_draft_age"`
}

// Location loads the reference timezone.
func (c CollectorConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

type ScheduleConfig struct {
	Enabled bool     `yaml:"enabled"`
	Times   []string `yaml:"times"`
}

// SourceConfig configures one platform. Only the fields a platform reads are
// meaningful for it; Subreddits, Feeds, Query, RegionCode and CategoryID are
// platform extras.
type SourceConfig struct {
	Enabled    *bool          `yaml:"enabled"`
	BaseURL    string         `yaml:"base_url"`
	Limit      int            `yaml:"limit"`
	TopK       int            `yaml:"top_k"`
	TTL        time.Duration  `yaml:"ttl"`
	Credential string         `yaml:"credential"`
	Range      *scoring.Range `yaml:"range"`

	Subreddits []string `yaml:"subreddits"`
	Feeds      []string `yaml:"feeds"`
	Query      string   `yaml:"query"`
	RegionCode string   `yaml:"region_code"`
	CategoryID string   `yaml:"category_id"`
}

func (s SourceConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

type WidgetsConfig struct {
	Weather WeatherConfig `yaml:"weather"`
	Market  MarketConfig  `yaml:"market"`
}

type WeatherConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	BaseURL   string  `yaml:"base_url"`
	Location  string  `yaml:"location"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

type MarketConfig struct {
	Enabled *bool    `yaml:"enabled"`
	BaseURL string   `yaml:"base_url"`
	APIKey  string   `yaml:"api_key"`
	Symbols []string `yaml:"symbols"`
}

type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
	MaxDelay   time.Duration `yaml:"max_delay"`
}

type sourceDefaults struct {
	limit int
	ttl   time.Duration
}

var defaultSources = map[domain.Source]sourceDefaults{
	domain.SourceHackerNews:  {limit: 10, ttl: 30 * time.Minute},
	domain.SourceGitHub:      {limit: 5, ttl: time.Hour},
	domain.SourceReddit:      {limit: 5, ttl: 30 * time.Minute},
	domain.SourceRSS:         {limit: 5, ttl: time.Hour},
	domain.SourceHatena:      {limit: 5, ttl: time.Hour},
	domain.SourceLobsters:    {limit: 5, ttl: 30 * time.Minute},
	domain.SourceBluesky:     {limit: 3, ttl: 30 * time.Minute},
	domain.SourceYouTube:     {limit: 3, ttl: time.Hour},
	domain.SourceProductHunt: {limit: 3, ttl: time.Hour},
}

var defaultFeeds = []string{
	"https://go.dev/blog/feed.atom",
	"https://github.blog/feed/",
	"https://blog.cloudflare.com/rss/",
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse expands ${ENV} references in data, decodes it and fills defaults.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "collector:"
	}
	if c.Redis.StaleRetention == 0 {
		c.Redis.StaleRetention = 24 * time.Hour
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "editions"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "edition.published"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "edition_published"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 6 * time.Minute
	}
	if c.Collector.Timezone == "" {
		c.Collector.Timezone = "Asia/Tokyo"
	}
	if c.Collector.CutoverHour == 0 {
		c.Collector.CutoverHour = 12
	}
	if c.Collector.FetchTimeout == 0 {
		c.Collector.FetchTimeout = 20 * time.Second
	}
	if c.Collector.RunTimeout == 0 {
		c.Collector.RunTimeout = 5 * time.Minute
	}
	if c.Collector.HTTPTimeout == 0 {
		c.Collector.HTTPTimeout = 10 * time.Second
	}
	if c.Collector.WidgetTTL == 0 {
		c.Collector.WidgetTTL = 12 * time.Hour
	}
	if c.Collector.EmptyEditionPolicy == "" {
		c.Collector.EmptyEditionPolicy = EmptyPublish
	}
	if c.Collector.StuckDraftAge == 0 {
		c.Collector.StuckDraftAge = time.Hour
	}
	if len(c.Schedule.Times) == 0 {
		c.Schedule.Times = []string{"06:00", "17:00"}
	}
	if c.Retry.MaxRetries == 0 {
		c.Retry.MaxRetries = 3
	}
	if c.Retry.BaseDelay == 0 {
		c.Retry.BaseDelay = time.Second
	}
	if c.Retry.MaxDelay == 0 {
		c.Retry.MaxDelay = 10 * time.Second
	}
	if c.Widgets.Weather.Location == "" {
		c.Widgets.Weather.Location = "Tokyo"
		c.Widgets.Weather.Latitude = 35.6895
		c.Widgets.Weather.Longitude = 139.6917
	}
	if len(c.Widgets.Market.Symbols) == 0 {
		c.Widgets.Market.Symbols = []string{"AAPL", "MSFT", "NVDA"}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.Sources == nil {
		c.Sources = make(map[string]SourceConfig, len(defaultSources))
	}
	for src, d := range defaultSources {
		sc := c.Sources[src.String()]
		if sc.Limit == 0 {
			sc.Limit = d.limit
		}
		if sc.TopK == 0 {
			sc.TopK = sc.Limit
		}
		if sc.TTL == 0 {
			sc.TTL = d.ttl
		}
		if sc.Range == nil {
			rng := scoring.DefaultRanges[src]
			sc.Range = &rng
		}
		if src == domain.SourceRSS && len(sc.Feeds) == 0 {
			sc.Feeds = defaultFeeds
		}
		c.Sources[src.String()] = sc
	}
}

func (c *Config) validate() error {
	for name := range c.Sources {
		if !domain.Source(name).Valid() {
			return fmt.Errorf("unknown source %q", name)
		}
	}
	if c.Collector.CutoverHour < 0 || c.Collector.CutoverHour > 23 {
		return fmt.Errorf("cutover_hour %d out of range", c.Collector.CutoverHour)
	}
	policies := []EmptyEditionPolicy{EmptyPublish, EmptyKeepDraft, EmptyDiscard}
	if !slices.Contains(policies, c.Collector.EmptyEditionPolicy) {
		return fmt.Errorf("unknown empty_edition_policy %q", c.Collector.EmptyEditionPolicy)
	}
	if c.Retry.MaxDelay >= c.Collector.FetchTimeout {
		return fmt.Errorf("retry max_delay %s must be shorter than fetch_timeout %s", c.Retry.MaxDelay, c.Collector.FetchTimeout)
	}
	if _, err := c.Collector.Location(); err != nil {
		return err
	}
	for _, t := range c.Schedule.Times {
		if _, err := time.Parse("15:04", t); err != nil {
			return fmt.Errorf("schedule time %q: %w", t, err)
		}
	}
	return nil
}

// Source returns the configuration of src with defaults applied.
func (c *Config) Source(src domain.Source) SourceConfig {
	return c.Sources[src.String()]
}
