package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"reportfill/pkg/fill"
)

// Config holds application configuration.
type Config struct {
	Templates TemplatesConfig
	Output    OutputConfig
	News      NewsConfig
	Log       LogConfig
}

// TemplatesConfig holds template discovery settings.
type TemplatesConfig struct {
	Dir string
}

// OutputConfig holds output placement settings.
type OutputConfig struct {
	Dir string
}

// NewsConfig holds replacement-map limits.
type NewsConfig struct {
	Max int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// Load reads configuration from file and env. Env var overrides use prefix
// REPORTFILL_, so REPORTFILL_OUTPUT_DIR overrides output.dir.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("templates.dir", "templates")
	v.SetDefault("output.dir", "output")
	v.SetDefault("news.max", 8)
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("REPORTFILL_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("reportfill")
	}

	v.SetEnvPrefix("REPORTFILL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// LogLevel parses the configured level, tolerating case and whitespace.
func (c Config) LogLevel() fill.LogLevel {
	return fill.ParseLogLevel(strings.ToLower(strings.TrimSpace(c.Log.Level)))
}
