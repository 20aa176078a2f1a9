package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// AppName names the gamescan directories under the XDG base dirs
const AppName = "gamescan"

// Config represents the application configuration
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths" toml:"paths"`
	Scan    ScanConfig    `mapstructure:"scan" toml:"scan"`
	Launch  LaunchConfig  `mapstructure:"launch" toml:"launch"`
	Media   MediaConfig   `mapstructure:"media" toml:"media"`
	Logging LoggingConfig `mapstructure:"logging" toml:"logging"`
}

// PathsConfig contains path-related configuration
type PathsConfig struct {
	DataDir string `mapstructure:"data_dir" toml:"data_dir" validate:"required"`
	DBFile  string `mapstructure:"db_file" toml:"db_file" validate:"required"`
	LogFile string `mapstructure:"log_file" toml:"log_file"`
}

// ScanConfig controls batch scanning
type ScanConfig struct {
	Workers int      `mapstructure:"workers" toml:"workers" validate:"gte=1,lte=64"`
	Roots   []string `mapstructure:"roots" toml:"roots" validate:"dive,required"`
}

// LaunchConfig controls how game executables are started
type LaunchConfig struct {
	Wrapper     string   `mapstructure:"wrapper" toml:"wrapper"`
	WrapperArgs []string `mapstructure:"wrapper_args" toml:"wrapper_args"`
}

// MediaConfig controls cover and screenshot downloads
type MediaConfig struct {
	TimeoutSecs int `mapstructure:"timeout_secs" toml:"timeout_secs" validate:"gte=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level" toml:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Color string `mapstructure:"color" toml:"color" validate:"oneof=auto always never"`
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")

	v.AddConfigPath(Dir())
	v.AddConfigPath(".")

	return load(v)
}

// LoadFile loads configuration from an explicit file path
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// Environment variable overrides
	v.SetEnvPrefix("GAMESCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Paths.DataDir = expandPath(cfg.Paths.DataDir)
	cfg.Paths.DBFile = expandPath(cfg.Paths.DBFile)
	cfg.Paths.LogFile = expandPath(cfg.Paths.LogFile)
	for i, root := range cfg.Scan.Roots {
		cfg.Scan.Roots[i] = expandPath(root)
	}

	if cfg.Scan.Workers < 1 {
		cfg.Scan.Workers = 1
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Dir returns the directory searched for config.toml
func Dir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks field constraints declared in the struct tags
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", strings.ToLower(fe.Namespace()), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// TOML renders the effective configuration in config-file form
func (c *Config) TOML() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	dataDir := filepath.Join(xdg.DataHome, AppName)
	v.SetDefault("paths.data_dir", dataDir)
	v.SetDefault("paths.db_file", filepath.Join(dataDir, "library.db"))
	v.SetDefault("paths.log_file", filepath.Join(dataDir, "gamescan.log"))

	v.SetDefault("scan.workers", 4)
	v.SetDefault("scan.roots", []string{})

	v.SetDefault("launch.wrapper", "")
	v.SetDefault("launch.wrapper_args", []string{})

	v.SetDefault("media.timeout_secs", 30)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.color", "auto")
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	return os.ExpandEnv(path)
}
