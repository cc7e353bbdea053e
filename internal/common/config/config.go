// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Auth          AuthConfig         `mapstructure:"auth"`
	Integrations  IntegrationConfig  `mapstructure:"integrations"`
	APIs          APIsConfig         `mapstructure:"apis"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Scheduler     SchedulerConfig    `mapstructure:"scheduler"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port              int    `mapstructure:"port"`
	CORSAllowedOrigin string `mapstructure:"cors_allowed_origin"`
	AdminSecret       string `mapstructure:"admin_secret"`
	ReadTimeout       int    `mapstructure:"read_timeout"`  // seconds
	WriteTimeout      int    `mapstructure:"write_timeout"` // seconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
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

// GetDSN returns the PostgreSQL connection string
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

type ElasticsearchConfig struct {
	Addresses   []string `mapstructure:"addresses"`
	Username    string   `mapstructure:"username"`
	Password    string   `mapstructure:"password"`
	ResumeIndex string   `mapstructure:"resume_index"`
}

// GetURL returns the first configured address.
func (e ElasticsearchConfig) GetURL() string {
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

// --- Specific Configuration Sections ---

// AuthConfig holds settings for the hosted identity provider.
type AuthConfig struct {
	GoTrue struct {
		URL        string `mapstructure:"url"`
		AnonKey    string `mapstructure:"anon_key"`
		ServiceKey string `mapstructure:"service_key"`
		Timeout    int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"gotrue"`
}

// IntegrationConfig holds settings for email and other external services.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
			FromName  string `mapstructure:"from_name"`
		} `mapstructure:"ses"`
	} `mapstructure:"aws"`
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	OpenAI struct {
		APIKey         string `mapstructure:"api_key"`
		Model          string `mapstructure:"model"`
		EmbeddingModel string `mapstructure:"embedding_model"`
		Timeout        int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"openai"`
}

// NotificationConfig holds settings for the deadline-reminder sweep.
type NotificationConfig struct {
	LookaheadDays int `mapstructure:"lookahead_days"`
	AnalysisCache struct {
		TTL int `mapstructure:"ttl"` // seconds
	} `mapstructure:"analysis_cache"`
}

// SchedulerConfig holds settings for the in-process sweep scheduler.
type SchedulerConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Interval int  `mapstructure:"interval"` // minutes between sweep runs
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
