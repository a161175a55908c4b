package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultFolderName is the target subfolder when MNEME_FOLDER_NAME is unset.
	DefaultFolderName = "Mneme_Documents"
	// DefaultDatabaseURL is shown when MNEME_DATABASE_URL is unset.
	DefaultDatabaseURL = "https://www.notion.so/YOUR_DATABASE_ID"
	// LocalConfigName is the optional config file read from next to the executable.
	LocalConfigName = "config_local.json"

	EnvFolderName  = "MNEME_FOLDER_NAME"
	EnvDatabaseURL = "MNEME_DATABASE_URL"
)

// Load reads the configuration.
//
// An empty configPath means the local config next to the executable, which
// may be absent. An explicit configPath must exist. The file is never written.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")

	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	explicit := strings.TrimSpace(configPath) != ""
	if !explicit {
		configPath = DefaultLocalConfigPath()
	}

	var source string
	if configPath != "" {
		_, err := os.Stat(configPath)
		switch {
		case err == nil:
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
			source = configPath
		case errors.Is(err, os.ErrNotExist) && !explicit:
			// 本地配置是可选的
		default:
			return nil, fmt.Errorf("failed to stat config %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.source = source
	cfg.normalize()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("folder_name", DefaultFolderName)
	v.SetDefault("database_url", DefaultDatabaseURL)
	v.SetDefault("dropbox_paths", []string{})
}

func bindEnv(v *viper.Viper) error {
	if err := v.BindEnv("folder_name", EnvFolderName); err != nil {
		return fmt.Errorf("failed to bind %s: %w", EnvFolderName, err)
	}
	if err := v.BindEnv("database_url", EnvDatabaseURL); err != nil {
		return fmt.Errorf("failed to bind %s: %w", EnvDatabaseURL, err)
	}
	return nil
}

func (c *Config) normalize() {
	c.FolderName = strings.TrimSpace(c.FolderName)
	if c.FolderName == "" {
		c.FolderName = DefaultFolderName
	}
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	if c.DatabaseURL == "" {
		c.DatabaseURL = DefaultDatabaseURL
	}

	paths := make([]string, 0, len(c.DropboxPaths))
	for _, p := range c.DropboxPaths {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	c.DropboxPaths = paths
}

// Validate checks that the folder name is a single path component.
func Validate(cfg *Config) error {
	name := cfg.FolderName
	if name == "" {
		return fmt.Errorf("folder_name cannot be empty")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("folder_name must be a plain folder name, got %q", name)
	}
	return nil
}

// DefaultLocalConfigPath returns config_local.json beside the running
// executable, or "" if the executable cannot be located.
func DefaultLocalConfigPath() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), LocalConfigName)
}
