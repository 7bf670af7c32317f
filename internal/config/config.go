package config

import (
        "errors"
        "strings"
        "time"

        "github.com/spf13/viper"
)

type Config struct {
	Address         string        `mapstructure:"address"`
	APIKey          string        `mapstructure:"api_key"`
	EndpointURL     string        `mapstructure:"endpoint_url"`
	Model           string        `mapstructure:"model"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	FlushIntervalMs int           `mapstructure:"flush_interval_ms"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	PromptFile      string        `mapstructure:"prompt_file"`
	TelemetryURL    string        `mapstructure:"telemetry_url"`
	Log             LogConfig     `mapstructure:"log"`
}

// LogConfig selects the slog handler and level.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// FlushInterval returns the coalescing interval as a duration.
func (c *Config) FlushInterval() time.Duration {
	return time.Duration(c.FlushIntervalMs) * time.Millisecond
}

func setDefaults(v *viper.Viper) {
        // every key needs a default so AutomaticEnv values reach Unmarshal
        v.SetDefault("address", ":8080")
        v.SetDefault("api_key", "")
        v.SetDefault("request_timeout", "0s")
        v.SetDefault("prompt_file", "")
        v.SetDefault("telemetry_url", "")
        v.SetDefault("endpoint_url", "https://api.deepseek.com/chat/completions")
        v.SetDefault("model", "deepseek-reasoner")
        v.SetDefault("max_tokens", 4000)
        v.SetDefault("flush_interval_ms", 50)
        v.SetDefault("log.level", "info")
        v.SetDefault("log.format", "text")
}

// Load reads config.yaml from the working directory (or ./config) and the
// ANALYST_* environment.
func Load() (*Config, error) {
        return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path falls back
// to the default search locations.
func LoadFile(path string) (*Config, error) {
        v := viper.New()
        setDefaults(v)
        if path != "" {
                v.SetConfigFile(path)
        } else {
                v.SetConfigName("config")
                v.SetConfigType("yaml")
                v.AddConfigPath(".")
                v.AddConfigPath("./config")
        }

        // allow environment variables like ANALYST_API_KEY or ANALYST_LOG_LEVEL
        v.SetEnvPrefix("ANALYST")
        v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
        v.AutomaticEnv()

        if err := v.ReadInConfig(); err != nil {
                // don't fail if config file is missing, allow env-only config
                var nf viper.ConfigFileNotFoundError
                if path != "" || !errors.As(err, &nf) {
                        return nil, err
                }
        }

        var c Config
        if err := v.Unmarshal(&c); err != nil {
                return nil, err
        }
        return &c, nil
}
