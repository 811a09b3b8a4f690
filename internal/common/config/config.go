package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	Database DatabaseConfig `mapstructure:"database"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// HTTPConfig controls outbound fetching behavior.
type HTTPConfig struct {
	PageTimeout      int      `mapstructure:"page_timeout"`      // seconds
	DiscoveryTimeout int      `mapstructure:"discovery_timeout"` // seconds
	UserAgents       []string `mapstructure:"user_agents"`
}

// ScraperConfig controls crawl breadth and content caps.
type ScraperConfig struct {
	MaxPages           int `mapstructure:"max_pages"`
	Concurrency        int `mapstructure:"concurrency"`
	MaxContentLength   int `mapstructure:"max_content_length"`
	CombinedContentMax int `mapstructure:"combined_content_max"`
	MinSitemapURLs     int `mapstructure:"min_sitemap_urls"`
	CacheTTLDays       int `mapstructure:"cache_ttl_days"`
	MaxAgeDays         int `mapstructure:"max_age_days"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// OpenAIConfig holds the chat-completion API settings used for the
// batched review classification.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
