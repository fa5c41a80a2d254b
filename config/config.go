package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the report writer.
type Config struct {
	LLM       LLMConfig       `mapstructure:"llm"`
	Search    SearchConfig    `mapstructure:"search"`
	Research  ResearchConfig  `mapstructure:"research"`
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LLMConfig contains language model provider settings.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // gemini, openai
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// SearchConfig contains web search provider settings.
type SearchConfig struct {
	Provider   string        `mapstructure:"provider"` // serpapi, serper
	APIKey     string        `mapstructure:"api_key"`
	MaxResults int           `mapstructure:"max_results"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ResearchConfig contains pipeline-level settings.
type ResearchConfig struct {
	NumSearches int `mapstructure:"num_searches"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// TelemetryConfig contains monitoring settings.
type TelemetryConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	CostTracking bool `mapstructure:"cost_tracking"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("REPORT_WRITER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; defaults plus env are enough to run.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 8192)
	v.SetDefault("llm.timeout", "2m")

	v.SetDefault("search.provider", "serpapi")
	v.SetDefault("search.max_results", 5)
	v.SetDefault("search.timeout", "30s")

	v.SetDefault("research.num_searches", 3)

	v.SetDefault("server.addr", ":8085")

	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.cost_tracking", true)
}

// overrideFromEnv fills sensitive values from conventional environment
// variables when the config file left them empty.
func overrideFromEnv(cfg *Config) {
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		default:
			cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if cfg.Search.APIKey == "" {
		switch cfg.Search.Provider {
		case "serper":
			cfg.Search.APIKey = os.Getenv("SERPER_API_KEY")
		default:
			cfg.Search.APIKey = os.Getenv("SERPAPI_KEY")
		}
	}
}

func validateConfig(cfg *Config) error {
	switch cfg.LLM.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unsupported llm provider: %s", cfg.LLM.Provider)
	}
	switch cfg.Search.Provider {
	case "serpapi", "serper":
	default:
		return fmt.Errorf("unsupported search provider: %s", cfg.Search.Provider)
	}
	if cfg.Research.NumSearches <= 0 {
		return fmt.Errorf("research.num_searches must be positive, got %d", cfg.Research.NumSearches)
	}
	if cfg.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive, got %d", cfg.Search.MaxResults)
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature out of range: %f", cfg.LLM.Temperature)
	}
	return nil
}
