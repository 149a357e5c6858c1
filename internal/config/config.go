// Package config loads tinysteps settings from an optional YAML file, a
// .env file and TINYSTEPS_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/tinysteps/internal/llm"
	"github.com/abhisek/tinysteps/internal/store"
	"github.com/abhisek/tinysteps/internal/usage"
)

// EnvPrefix prefixes every environment variable, e.g. TINYSTEPS_DB_DRIVER.
const EnvPrefix = "TINYSTEPS"

// Usage storage backends.
const (
	UsageFile   = "file"
	UsageRedis  = "redis"
	UsageMemory = "memory"
)

// Config is the resolved application configuration.
type Config struct {
	LLM llm.Config
	// LLMConfigured is false when no provider credential was found. The AI
	// client then reports itself unavailable.
	LLMConfigured bool

	DB      DBConfig
	Usage   UsageConfig
	Log     LogConfig
	HTTP    HTTPConfig
	Grading GradingConfig
}

// DBConfig selects the relational store.
type DBConfig struct {
	Driver string
	DSN    string
}

// UsageConfig selects where usage records are persisted.
type UsageConfig struct {
	Backend   string
	Path      string
	RedisAddr string
	RedisKey  string
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Mode     string
	HashSalt string
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr string
}

// GradingConfig configures batch grading.
type GradingConfig struct {
	BatchConcurrency int
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.retry_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")

	v.SetDefault("db.driver", store.DriverSQLite)
	v.SetDefault("db.dsn", "")

	v.SetDefault("usage.backend", UsageFile)
	v.SetDefault("usage.path", "")
	v.SetDefault("usage.redis_addr", "localhost:6379")
	v.SetDefault("usage.redis_key", usage.DefaultKey)

	v.SetDefault("log.mode", "prod")
	v.SetDefault("log.hash_salt", "")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("grading.batch_concurrency", 4)
}

// Load resolves configuration. path names a YAML file; when empty,
// tinysteps.yaml is looked up in the working directory and the data
// directory, and its absence is not an error.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("tinysteps")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := store.DataDir(); err == nil {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return fromViper(v)
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DB: DBConfig{
			Driver: v.GetString("db.driver"),
			DSN:    v.GetString("db.dsn"),
		},
		Usage: UsageConfig{
			Backend:   v.GetString("usage.backend"),
			Path:      v.GetString("usage.path"),
			RedisAddr: v.GetString("usage.redis_addr"),
			RedisKey:  v.GetString("usage.redis_key"),
		},
		Log: LogConfig{
			Mode:     v.GetString("log.mode"),
			HashSalt: v.GetString("log.hash_salt"),
		},
		HTTP:    HTTPConfig{Addr: v.GetString("http.addr")},
		Grading: GradingConfig{BatchConcurrency: v.GetInt("grading.batch_concurrency")},
	}

	l := llm.DefaultConfig()
	l.Timeout = v.GetDuration("llm.timeout")
	l.Retry.MaxAttempts = max(v.GetInt("llm.retry_attempts"), 1)
	l.Anthropic = llm.AnthropicConfig{
		APIKey:  v.GetString("llm.anthropic.api_key"),
		Model:   v.GetString("llm.anthropic.model"),
		BaseURL: v.GetString("llm.anthropic.base_url"),
	}
	l.OpenAI = llm.OpenAIConfig{
		APIKey:  v.GetString("llm.openai.api_key"),
		Model:   v.GetString("llm.openai.model"),
		BaseURL: v.GetString("llm.openai.base_url"),
	}
	l.Gemini = llm.GeminiConfig{
		APIKey: v.GetString("llm.gemini.api_key"),
		Model:  v.GetString("llm.gemini.model"),
	}
	l.OpenRouter = llm.OpenRouterConfig{
		APIKey:  v.GetString("llm.openrouter.api_key"),
		Model:   v.GetString("llm.openrouter.model"),
		BaseURL: v.GetString("llm.openrouter.base_url"),
	}

	if p := v.GetString("llm.provider"); p != "" {
		l.Provider = p
		cfg.LLMConfigured = l.Validate() == nil
	} else if p := configuredProvider(l); p != "" {
		l.Provider = p
		cfg.LLMConfigured = true
	} else {
		l, cfg.LLMConfigured = llm.DiscoverConfig(l)
	}
	cfg.LLM = l

	if l.Timeout <= 0 {
		return nil, fmt.Errorf("llm.timeout must be positive, got %s", l.Timeout)
	}
	switch cfg.DB.Driver {
	case store.DriverSQLite, store.DriverPostgres:
	default:
		return nil, fmt.Errorf("unknown db.driver %q", cfg.DB.Driver)
	}
	switch cfg.Usage.Backend {
	case UsageFile, UsageRedis, UsageMemory:
	default:
		return nil, fmt.Errorf("unknown usage.backend %q", cfg.Usage.Backend)
	}
	return cfg, nil
}

// configuredProvider returns the first provider, in discovery order, whose
// key was set through tinysteps configuration.
func configuredProvider(l llm.Config) string {
	switch {
	case l.Anthropic.APIKey != "":
		return "anthropic"
	case l.OpenAI.APIKey != "":
		return "openai"
	case l.Gemini.APIKey != "":
		return "gemini"
	case l.OpenRouter.APIKey != "":
		return "openrouter"
	}
	return ""
}

// ResolveDSN returns the configured DSN, or the default SQLite path for
// the sqlite driver.
func (c *Config) ResolveDSN() (string, error) {
	if c.DB.DSN != "" {
		if c.DB.Driver == store.DriverSQLite {
			return c.DB.DSN, store.EnsureDir(c.DB.DSN)
		}
		return c.DB.DSN, nil
	}
	if c.DB.Driver != store.DriverSQLite {
		return "", fmt.Errorf("db.dsn is required for the %s driver", c.DB.Driver)
	}
	return store.DefaultDBPath()
}

// UsagePath returns the usage file path, defaulting to the data directory.
func (c *Config) UsagePath() (string, error) {
	if c.Usage.Path != "" {
		return c.Usage.Path, nil
	}
	dir, err := store.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "usage.json"), nil
}
