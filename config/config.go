package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Station ops specifics
	Telegram       TelegramConfig
	Storage        StorageConfig
	GoogleCalendar GoogleCalendarConfig
	Pipeline       PipelineConfig

	// LLM Provider Abstraction
	LLM LLMConfig

	// Inbound protection
	RateLimit RateLimitConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

const (
	TelegramModeWebhook = "webhook"
	TelegramModePolling = "polling"
)

type TelegramConfig struct {
	BotToken    string
	WebhookURL  string
	SecretToken string
	Mode        string
	PollTimeout time.Duration
}

const (
	StorageAirtable = "airtable"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type StorageConfig struct {
	Driver   string
	Airtable AirtableConfig
	Postgres PostgresConfig
	SQLite   SQLiteConfig
}

type AirtableConfig struct {
	APIKey string
	BaseID string
	APIURL string
}

type PostgresConfig struct {
	DSN            string
	MaxConnections int
	MaxIdle        int
}

type SQLiteConfig struct {
	Path string
}

type GoogleCalendarConfig struct {
	CredentialsPath string
	TokenPath       string
	CalendarID      string
}

// PipelineConfig tunes the message processing pipeline.
type PipelineConfig struct {
	Timezone          string
	DefaultPerson     string
	DefaultAssignee   string
	DefaultReporter   string
	Temperature       float64
	MaxTokens         int
	CompletionTimeout time.Duration
	StorageTimeout    time.Duration
	QueueSize         int
}

type RateLimitConfig struct {
	PerChatPerMin int
	PerIPPerMin   int
}

// LLMConfig holds configuration for the LLM provider abstraction layer
type LLMConfig struct {
	Providers       []ProviderConfig `yaml:"providers"`
	FallbackEnabled bool             `yaml:"fallback_enabled"`
	RetryAttempts   int              `yaml:"retry_attempts"`
	RetryDelay      string           `yaml:"retry_delay"`
	RetryMaxDelay   string           `yaml:"retry_max_delay"`
	MaxTotalTimeout string           `yaml:"max_total_timeout"`
}

// ProviderConfig holds configuration for a single LLM provider
type ProviderConfig struct {
	Name     string `yaml:"name"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// Load loads configuration using Viper.
// A .env file is applied first when present.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Telegram
	cfg.Telegram.BotToken = viper.GetString("telegram.bot_token")
	cfg.Telegram.WebhookURL = viper.GetString("telegram.webhook_url")
	cfg.Telegram.SecretToken = viper.GetString("telegram.secret_token")
	cfg.Telegram.Mode = viper.GetString("telegram.mode")
	cfg.Telegram.PollTimeout = viper.GetDuration("telegram.poll_timeout")
	if tgToken := viper.GetString("telegram_bot_token"); tgToken != "" {
		cfg.Telegram.BotToken = tgToken
	}

	// Storage
	cfg.Storage.Driver = strings.ToLower(viper.GetString("storage.driver"))
	cfg.Storage.Airtable.APIKey = viper.GetString("storage.airtable.api_key")
	cfg.Storage.Airtable.BaseID = viper.GetString("storage.airtable.base_id")
	cfg.Storage.Airtable.APIURL = viper.GetString("storage.airtable.api_url")
	if key := viper.GetString("airtable_api_key"); key != "" {
		cfg.Storage.Airtable.APIKey = key
	}
	if baseID := viper.GetString("airtable_base_id"); baseID != "" {
		cfg.Storage.Airtable.BaseID = baseID
	}
	cfg.Storage.Postgres.DSN = viper.GetString("storage.postgres.dsn")
	cfg.Storage.Postgres.MaxConnections = viper.GetInt("storage.postgres.max_connections")
	cfg.Storage.Postgres.MaxIdle = viper.GetInt("storage.postgres.max_idle")
	if dsn := viper.GetString("database_url"); dsn != "" {
		cfg.Storage.Postgres.DSN = dsn
	}
	cfg.Storage.SQLite.Path = viper.GetString("storage.sqlite.path")

	// Google Calendar (optional)
	cfg.GoogleCalendar.CredentialsPath = viper.GetString("google_calendar.credentials_path")
	cfg.GoogleCalendar.TokenPath = viper.GetString("google_calendar.token_path")
	cfg.GoogleCalendar.CalendarID = viper.GetString("google_calendar.calendar_id")
	if googleCreds := viper.GetString("google_calendar_credentials"); googleCreds != "" {
		cfg.GoogleCalendar.CredentialsPath = googleCreds
	}

	// Pipeline
	cfg.Pipeline.Timezone = viper.GetString("pipeline.timezone")
	cfg.Pipeline.DefaultPerson = viper.GetString("pipeline.default_person")
	cfg.Pipeline.DefaultAssignee = viper.GetString("pipeline.default_assignee")
	cfg.Pipeline.DefaultReporter = viper.GetString("pipeline.default_reporter")
	cfg.Pipeline.Temperature = viper.GetFloat64("pipeline.temperature")
	cfg.Pipeline.MaxTokens = viper.GetInt("pipeline.max_tokens")
	cfg.Pipeline.CompletionTimeout = viper.GetDuration("pipeline.completion_timeout")
	cfg.Pipeline.StorageTimeout = viper.GetDuration("pipeline.storage_timeout")
	cfg.Pipeline.QueueSize = viper.GetInt("pipeline.queue_size")

	// Rate limiting
	cfg.RateLimit.PerChatPerMin = viper.GetInt("rate_limit.per_chat_per_min")
	cfg.RateLimit.PerIPPerMin = viper.GetInt("rate_limit.per_ip_per_min")

	// LLM Provider Abstraction
	cfg.LLM.FallbackEnabled = viper.GetBool("llm.fallback_enabled")
	cfg.LLM.RetryAttempts = viper.GetInt("llm.retry_attempts")
	cfg.LLM.RetryDelay = viper.GetString("llm.retry_delay")
	cfg.LLM.RetryMaxDelay = viper.GetString("llm.retry_max_delay")
	cfg.LLM.MaxTotalTimeout = viper.GetString("llm.max_total_timeout")

	if viper.IsSet("llm.providers") {
		providersRaw := viper.Get("llm.providers")
		if providersList, ok := providersRaw.([]interface{}); ok {
			for _, p := range providersList {
				if providerMap, ok := p.(map[string]interface{}); ok {
					provider := ProviderConfig{
						Name:     getStringFromMap(providerMap, "name"),
						Enabled:  getBoolFromMap(providerMap, "enabled"),
						Priority: getIntFromMap(providerMap, "priority"),
						APIKey:   expandEnvVar(getStringFromMap(providerMap, "api_key")),
						BaseURL:  getStringFromMap(providerMap, "base_url"),
						Model:    getStringFromMap(providerMap, "model"),
						Timeout:  getStringFromMap(providerMap, "timeout"),
					}
					cfg.LLM.Providers = append(cfg.LLM.Providers, provider)
				}
			}
		}
	}

	// Single-provider shortcut for env-only deployments (OPENAI_API_KEY was the original setup).
	if len(cfg.LLM.Providers) == 0 {
		if key := viper.GetString("openai_api_key"); key != "" {
			cfg.LLM.Providers = append(cfg.LLM.Providers, ProviderConfig{
				Name:     "openai",
				Enabled:  true,
				Priority: 1,
				APIKey:   key,
				Model:    viper.GetString("openai_model"),
			})
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (cfg *Config) Validate() error {
	if err := validateLLMConfig(&cfg.LLM); err != nil {
		return err
	}

	switch cfg.Storage.Driver {
	case StorageAirtable:
		if cfg.Storage.Airtable.APIKey == "" || cfg.Storage.Airtable.BaseID == "" {
			return fmt.Errorf("storage.airtable: api_key and base_id are required")
		}
	case StoragePostgres:
		if cfg.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres: dsn is required")
		}
	case StorageSQLite:
		if cfg.Storage.SQLite.Path == "" {
			return fmt.Errorf("storage.sqlite: path is required")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	switch cfg.Telegram.Mode {
	case TelegramModeWebhook, TelegramModePolling:
	default:
		return fmt.Errorf("unknown telegram mode %q", cfg.Telegram.Mode)
	}

	if _, err := time.LoadLocation(cfg.Pipeline.Timezone); err != nil {
		return fmt.Errorf("pipeline.timezone: %w", err)
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("telegram.mode", TelegramModeWebhook)
	viper.SetDefault("telegram.poll_timeout", "30s")

	viper.SetDefault("storage.driver", StorageSQLite)
	viper.SetDefault("storage.airtable.api_url", "https://api.airtable.com/v0")
	viper.SetDefault("storage.postgres.max_connections", 10)
	viper.SetDefault("storage.postgres.max_idle", 5)
	viper.SetDefault("storage.sqlite.path", "station_ops.db")

	viper.SetDefault("google_calendar.token_path", "token.json")
	viper.SetDefault("google_calendar.calendar_id", "primary")

	viper.SetDefault("pipeline.timezone", "Africa/Blantyre")
	viper.SetDefault("pipeline.default_person", "Me")
	viper.SetDefault("pipeline.default_assignee", "Nthambi")
	viper.SetDefault("pipeline.default_reporter", "Nthambi")
	viper.SetDefault("pipeline.temperature", 0.1)
	viper.SetDefault("pipeline.max_tokens", 512)
	viper.SetDefault("pipeline.completion_timeout", "45s")
	viper.SetDefault("pipeline.storage_timeout", "10s")
	viper.SetDefault("pipeline.queue_size", 100)

	viper.SetDefault("rate_limit.per_chat_per_min", 30)
	viper.SetDefault("rate_limit.per_ip_per_min", 60)

	// LLM defaults
	viper.SetDefault("llm.fallback_enabled", true)
	viper.SetDefault("llm.retry_attempts", 3)
	viper.SetDefault("llm.retry_delay", "1s")
	viper.SetDefault("llm.retry_max_delay", "20s")
	viper.SetDefault("llm.max_total_timeout", "60s")
	viper.SetDefault("openai_model", "gpt-4o-mini")
}

// loadEnvFile applies the first .env found in the working directory or its parent.
func loadEnvFile() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
		return ""
	}

	return value
}

// validateLLMConfig validates the LLM configuration
func validateLLMConfig(cfg *LLMConfig) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("no LLM providers configured - please add llm.providers section to config.yaml")
	}

	enabledCount := 0
	priorityMap := make(map[int]bool)

	for i, provider := range cfg.Providers {
		if provider.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}

		if provider.Enabled {
			enabledCount++

			if provider.Priority <= 0 {
				return fmt.Errorf("provider %s: priority must be positive", provider.Name)
			}

			if priorityMap[provider.Priority] {
				return fmt.Errorf("provider %s: duplicate priority %d", provider.Name, provider.Priority)
			}
			priorityMap[provider.Priority] = true
		}
	}

	if enabledCount == 0 {
		return fmt.Errorf("no enabled LLM providers")
	}

	return nil
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	if val, ok := m[key]; ok {
		if i, ok := val.(int); ok {
			return i
		}
		if f, ok := val.(float64); ok {
			return int(f)
		}
	}
	return 0
}
