package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	RateLimit   RateLimitConfig
	Storage     StorageConfig
	Translation TranslationConfig
	Fonts       FontsConfig
	Documents   DocumentsConfig
	Logging     LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// StorageConfig selects and configures the product store
type StorageConfig struct {
	Driver        string        `mapstructure:"driver"` // "sqlite" or "mongo"
	SQLitePath    string        `mapstructure:"sqlite_path"`
	MongoURI      string        `mapstructure:"mongo_uri"`
	MongoDatabase string        `mapstructure:"mongo_database"`
	MongoTimeout  time.Duration `mapstructure:"mongo_timeout"`
}

// TranslationConfig holds language model translation configuration
type TranslationConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	SourceLanguage    string        `mapstructure:"source_language"`
	TargetLanguage    string        `mapstructure:"target_language"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
}

// FontsConfig holds the font family documents are drawn with.
// Sources are file paths or http(s) URLs.
type FontsConfig struct {
	Builtin     bool          `mapstructure:"builtin"`
	Family      string        `mapstructure:"family"`
	Regular     string        `mapstructure:"regular"`
	Bold        string        `mapstructure:"bold"`
	Italic      string        `mapstructure:"italic"`
	LoadTimeout time.Duration `mapstructure:"load_timeout"`
}

// DocumentsConfig holds the fixed header text of menus
type DocumentsConfig struct {
	MenuCompanyName     string `mapstructure:"menu_company_name"`
	StorytelCompanyName string `mapstructure:"storytel_company_name"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/labelpress/")

	// Environment variable settings: LABELPRESS_SERVER_PORT -> server.port
	v.SetEnvPrefix("LABELPRESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory when present.
// Variables already set in the environment win.
func loadEnvFile() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.shutdown_timeout", "10s")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Storage defaults
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "data/labelpress.sqlite3")
	v.SetDefault("storage.mongo_uri", "")
	v.SetDefault("storage.mongo_database", "labelpress")
	v.SetDefault("storage.mongo_timeout", "5s")

	// Translation defaults
	v.SetDefault("translation.api_key", "")
	v.SetDefault("translation.model", "gemini-2.5-flash")
	v.SetDefault("translation.source_language", "sv")
	v.SetDefault("translation.target_language", "en")
	v.SetDefault("translation.requests_per_minute", 30)
	v.SetDefault("translation.cache_ttl", "720h") // 30 days

	// Font defaults
	v.SetDefault("fonts.builtin", true)
	v.SetDefault("fonts.family", "Poppins")
	v.SetDefault("fonts.regular", "")
	v.SetDefault("fonts.bold", "")
	v.SetDefault("fonts.italic", "")
	v.SetDefault("fonts.load_timeout", "30s")

	// Document defaults
	v.SetDefault("documents.menu_company_name", "Sizzle x Wester & Wester")
	v.SetDefault("documents.storytel_company_name", "Sizzle")

	v.SetDefault("logging.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Storage.Driver {
	case "sqlite":
		if config.Storage.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required when storage driver is 'sqlite'")
		}
	case "mongo":
		if config.Storage.MongoURI == "" {
			return fmt.Errorf("mongo URI is required when storage driver is 'mongo' (set LABELPRESS_STORAGE_MONGO_URI)")
		}
	default:
		return fmt.Errorf("storage driver must be 'sqlite' or 'mongo', got: %s", config.Storage.Driver)
	}

	if !config.Fonts.Builtin && (config.Fonts.Regular == "" || config.Fonts.Bold == "") {
		return fmt.Errorf("regular and bold font sources are required when builtin fonts are disabled")
	}

	if _, err := language.Parse(config.Translation.SourceLanguage); err != nil {
		return fmt.Errorf("source language %q: %w", config.Translation.SourceLanguage, err)
	}
	if _, err := language.Parse(config.Translation.TargetLanguage); err != nil {
		return fmt.Errorf("target language %q: %w", config.Translation.TargetLanguage, err)
	}

	if config.RateLimit.PerIP < 0 || config.Translation.RequestsPerMinute < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}

	switch config.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error, got: %s", config.Logging.Level)
	}

	return nil
}

// TranslationEnabled reports whether an API key for the language model is set.
func (c *Config) TranslationEnabled() bool {
	return c.Translation.APIKey != ""
}

// LanguageTags returns the parsed source and target languages.
// They are checked by validate, so parse errors cannot happen after Load.
func (c *Config) LanguageTags() (source, target language.Tag) {
	return language.Make(c.Translation.SourceLanguage), language.Make(c.Translation.TargetLanguage)
}
