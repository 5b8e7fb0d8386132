package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, LOCATOR_SERVER_PORT etc.
const EnvPrefix = "LOCATOR"

type ServerCfg struct {
	Port            string        `mapstructure:"port" json:"port"`
	Env             string        `mapstructure:"env" json:"env"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" json:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" json:"request_timeout"`
}

type PostgresCfg struct {
	DSN             string        `mapstructure:"dsn" json:"-"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" json:"conn_max_lifetime"`
}

type MongoCfg struct {
	URI      string `mapstructure:"uri" json:"-"`
	Database string `mapstructure:"database" json:"database"`
}

type RedisCfg struct {
	URL    string `mapstructure:"url" json:"-"`
	Prefix string `mapstructure:"prefix" json:"prefix"`
}

type MeiliCfg struct {
	URL           string        `mapstructure:"url" json:"url"`
	MasterKey     string        `mapstructure:"master_key" json:"-"`
	IndexName     string        `mapstructure:"index_name" json:"index_name"`
	Timeout       time.Duration `mapstructure:"timeout" json:"timeout"`
	MaxCandidates int           `mapstructure:"max_candidates" json:"max_candidates"`
}

// CacheCfg sizes the candidate cache. Backend is memory, redis or hybrid.
type CacheCfg struct {
	Backend string        `mapstructure:"backend" json:"backend"`
	L1Size  int           `mapstructure:"l1_size" json:"l1_size"`
	TTL     time.Duration `mapstructure:"ttl" json:"ttl"`
}

type TaxonomyCfg struct {
	Path        string `mapstructure:"path" json:"path"` // Empty means the embedded dataset
	FromMongo   bool   `mapstructure:"from_mongo" json:"from_mongo"`
	SeedOnStart bool   `mapstructure:"seed_on_start" json:"seed_on_start"`
}

type MatcherCfg struct {
	SwapTier        bool `mapstructure:"swap_tier" json:"swap_tier"`
	DefaultPageSize int  `mapstructure:"default_page_size" json:"default_page_size"`
	MaxPageSize     int  `mapstructure:"max_page_size" json:"max_page_size"`
}

type AuditCfg struct {
	JWWeight            float64       `mapstructure:"jw_weight" json:"jw_weight"`
	LevWeight           float64       `mapstructure:"lev_weight" json:"lev_weight"`
	SuggestionThreshold float64       `mapstructure:"suggestion_threshold" json:"suggestion_threshold"`
	MaxSuggestions      int           `mapstructure:"max_suggestions" json:"max_suggestions"`
	Interval            time.Duration `mapstructure:"interval" json:"interval"`
}

type GeocodeCfg struct {
	APIKey  string `mapstructure:"api_key" json:"-"`
	Country string `mapstructure:"country" json:"country"`
}

// Config is the full service configuration
type Config struct {
	Server      ServerCfg   `mapstructure:"server" json:"server"`
	Postgres    PostgresCfg `mapstructure:"postgres" json:"postgres"`
	Mongo       MongoCfg    `mapstructure:"mongo" json:"mongo"`
	Redis       RedisCfg    `mapstructure:"redis" json:"redis"`
	Meilisearch MeiliCfg    `mapstructure:"meilisearch" json:"meilisearch"`
	Cache       CacheCfg    `mapstructure:"cache" json:"cache"`
	Taxonomy    TaxonomyCfg `mapstructure:"taxonomy" json:"taxonomy"`
	Matcher     MatcherCfg  `mapstructure:"matcher" json:"matcher"`
	Audit       AuditCfg    `mapstructure:"audit" json:"audit"`
	Geocode     GeocodeCfg  `mapstructure:"geocode" json:"geocode"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", 1500*time.Millisecond)

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_open_conns", 50)
	v.SetDefault("postgres.max_idle_conns", 25)
	v.SetDefault("postgres.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "listing_locator")

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.prefix", "locator:candidates:")

	v.SetDefault("meilisearch.url", "")
	v.SetDefault("meilisearch.master_key", "")
	v.SetDefault("meilisearch.index_name", "location_units")
	v.SetDefault("meilisearch.timeout", 30*time.Second)
	v.SetDefault("meilisearch.max_candidates", 20)

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.l1_size", 10000)
	v.SetDefault("cache.ttl", 2*time.Minute)

	v.SetDefault("taxonomy.path", "")
	v.SetDefault("taxonomy.from_mongo", false)
	v.SetDefault("taxonomy.seed_on_start", false)

	v.SetDefault("matcher.swap_tier", false)
	v.SetDefault("matcher.default_page_size", 20)
	v.SetDefault("matcher.max_page_size", 100)

	v.SetDefault("audit.jw_weight", 0.6)
	v.SetDefault("audit.lev_weight", 0.4)
	v.SetDefault("audit.suggestion_threshold", 0.75)
	v.SetDefault("audit.max_suggestions", 3)
	v.SetDefault("audit.interval", time.Duration(0))

	v.SetDefault("geocode.api_key", "")
	v.SetDefault("geocode.country", "TZ")
}

// Load reads .env, then the YAML file at path (optional), then LOCATOR_*
// environment overrides
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("app")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the services cannot run with
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "memory", "redis", "hybrid", "none":
	default:
		return fmt.Errorf("config: unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "none" && c.Redis.URL == "" {
		return fmt.Errorf("config: cache backend %q needs redis.url", c.Cache.Backend)
	}
	if c.Matcher.DefaultPageSize <= 0 || c.Matcher.MaxPageSize < c.Matcher.DefaultPageSize {
		return fmt.Errorf("config: page sizes must satisfy 0 < default <= max")
	}
	if c.Audit.JWWeight < 0 || c.Audit.LevWeight < 0 || c.Audit.JWWeight+c.Audit.LevWeight == 0 {
		return fmt.Errorf("config: audit similarity weights must be non-negative and not both zero")
	}
	return nil
}

// IsProduction reports whether the server runs with production logging
func (c *Config) IsProduction() bool { return c.Server.Env == "production" }
