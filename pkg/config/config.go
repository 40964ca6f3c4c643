// Package config provides configuration management for smqctl.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Sweep     SweepConfig     `mapstructure:"sweep"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Serve     ServeConfig     `mapstructure:"serve"`
	Log       LogConfig       `mapstructure:"log"`
}

// SweepConfig holds the experiment parameters the harness runs with.
type SweepConfig struct {
	OutputDir         string `mapstructure:"output_dir"`
	NrBlocks          int    `mapstructure:"nr_blocks"`
	HitsPerGeneration int    `mapstructure:"hits_per_generation"`
	NrGenerations     int    `mapstructure:"nr_generations"`
	DefaultLevels     int    `mapstructure:"default_levels"`
	Gzip              bool   `mapstructure:"gzip"`
	MaxWorkers        int    `mapstructure:"max_workers"`
}

// StorageConfig holds object storage configuration, used to archive sweep
// output directories.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`     // e.g., "myqcloud.com"
	Scheme    string `mapstructure:"scheme"`     // e.g., "https" or "http"
	LocalPath string `mapstructure:"local_path"` // for local storage
}

// TelemetryConfig holds OpenTelemetry tracing configuration.
type TelemetryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ServiceName   string `mapstructure:"service_name"`
	ExporterOTLP  string `mapstructure:"exporter_otlp_endpoint"`
	ExporterProto string `mapstructure:"exporter_otlp_protocol"`
}

// ServeConfig holds the web UI server configuration.
type ServeConfig struct {
	Addr    string `mapstructure:"addr"`
	DataDir string `mapstructure:"data_dir"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"` // json or text
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/smqctl")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Config file not found, using defaults")
		} else if os.IsNotExist(err) {
			fmt.Printf("Config file %s not found, using defaults\n", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw bytes (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("sweep.output_dir", "./sweep-output")
	v.SetDefault("sweep.nr_blocks", 8192)
	v.SetDefault("sweep.hits_per_generation", 10000)
	v.SetDefault("sweep.nr_generations", 100)
	v.SetDefault("sweep.default_levels", 64)
	v.SetDefault("sweep.gzip", false)
	v.SetDefault("sweep.max_workers", 0) // 0 means parallel.DefaultPoolConfig's choice

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./storage")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "smqctl")
	v.SetDefault("telemetry.exporter_otlp_protocol", "grpc")

	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("serve.data_dir", "./sweep-output")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "")
	v.SetDefault("log.format", "text")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Sweep.NrBlocks < 1 {
		return fmt.Errorf("sweep.nr_blocks must be at least 1")
	}
	if c.Sweep.DefaultLevels < 1 {
		return fmt.Errorf("sweep.default_levels must be at least 1")
	}
	if c.Sweep.HitsPerGeneration < 1 {
		return fmt.Errorf("sweep.hits_per_generation must be at least 1")
	}
	if c.Sweep.NrGenerations < 1 {
		return fmt.Errorf("sweep.nr_generations must be at least 1")
	}

	if c.Storage.Type != "local" && c.Storage.Type != "cos" {
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	return nil
}

// EnsureOutputDir creates the sweep output directory if it doesn't exist.
func (c *Config) EnsureOutputDir() error {
	if c.Sweep.OutputDir == "" {
		return nil
	}
	return os.MkdirAll(c.Sweep.OutputDir, 0755)
}
