package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/newthinker/riskattr/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Output   OutputConfig   `mapstructure:"output"`
}

type StorageConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// AnalysisConfig holds engine settings.
type AnalysisConfig struct {
	Frequency string          `mapstructure:"frequency"` // "monthly" or "daily"
	Window    int             `mapstructure:"window"`
	Workers   int             `mapstructure:"workers"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
}

// BootstrapConfig holds resampling settings.
type BootstrapConfig struct {
	Resamples  int     `mapstructure:"resamples"`
	Confidence float64 `mapstructure:"confidence"`
	Seed       uint64  `mapstructure:"seed"` // 0 draws a fresh seed per run
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Textfile string `mapstructure:"textfile"`
}

// OutputConfig selects how results are encoded.
type OutputConfig struct {
	Format string `mapstructure:"format"` // "json" or "msgpack"
}

const (
	FrequencyMonthly = "monthly"
	FrequencyDaily   = "daily"

	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// Load reads configuration from file. Keys absent from the file keep
// their Defaults value.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Storage: StorageConfig{
			Type: "localfs",
			Path: "./data",
		},
		Analysis: AnalysisConfig{
			Frequency: FrequencyMonthly,
			Window:    12,
			Workers:   1,
			Bootstrap: BootstrapConfig{
				Resamples:  1000,
				Confidence: 0.95,
			},
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
		Output: OutputConfig{
			Format: FormatJSON,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Storage validation
	switch c.Storage.Type {
	case "localfs":
		if c.Storage.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("storage path required when type is localfs"))
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("storage type must be localfs or s3, got %q", c.Storage.Type))
	}

	// Analysis validation
	a := c.Analysis
	if a.Frequency != FrequencyMonthly && a.Frequency != FrequencyDaily {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("frequency must be monthly or daily, got %q", a.Frequency))
	}
	if a.Window < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("window must be positive, got %d", a.Window))
	}
	if a.Workers < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("workers must be positive, got %d", a.Workers))
	}
	if a.Bootstrap.Resamples < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("bootstrap resamples must be positive, got %d", a.Bootstrap.Resamples))
	}
	if a.Bootstrap.Confidence <= 0 || a.Bootstrap.Confidence >= 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("bootstrap confidence must be between 0 and 1, got %f", a.Bootstrap.Confidence))
	}

	// Metrics validation
	if c.Metrics.Enabled && c.Metrics.Textfile == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("metrics textfile required when metrics are enabled"))
	}

	// Output validation
	if c.Output.Format != FormatJSON && c.Output.Format != FormatMsgpack {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("output format must be json or msgpack, got %q", c.Output.Format))
	}

	return nil
}
