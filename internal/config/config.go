// Package config loads user settings from config.yaml and SHIPIT_* variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const appName = "shipit"

// Config holds resolved settings. Empty Editor or Pager means fall back to
// the environment.
type Config struct {
	Editor       string
	Pager        string
	LogFile      string
	Workers      int
	PageSize     int
	Markdown     bool
	GlamourStyle string
	// Keys maps an action name to the keys bound to it.
	Keys map[string][]string
	// Dir is the directory holding config.yaml and credentials.yaml.
	Dir string
}

// Dir returns the per-user configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config dir: %w", err)
	}
	return filepath.Join(base, appName), nil
}

func defaultLogFile() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, appName, appName+".log")
}

// Load reads path, or config.yaml in Dir when path is empty. A missing
// default file is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("editor", "")
	v.SetDefault("pager", "")
	v.SetDefault("log_file", defaultLogFile())
	v.SetDefault("workers", 2)
	v.SetDefault("page_size", 100)
	v.SetDefault("markdown", true)
	v.SetDefault("glamour_style", "dark")

	v.SetEnvPrefix("SHIPIT")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		dir = filepath.Dir(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Editor:       v.GetString("editor"),
		Pager:        v.GetString("pager"),
		LogFile:      v.GetString("log_file"),
		Workers:      v.GetInt("workers"),
		PageSize:     v.GetInt("page_size"),
		Markdown:     v.GetBool("markdown"),
		GlamourStyle: v.GetString("glamour_style"),
		Keys:         map[string][]string{},
		Dir:          dir,
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.PageSize < 1 || cfg.PageSize > 100 {
		return nil, fmt.Errorf("page_size must be between 1 and 100, got %d", cfg.PageSize)
	}

	for action, raw := range v.GetStringMapString("keys") {
		var keys []string
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		if len(keys) > 0 {
			cfg.Keys[action] = keys
		}
	}

	return cfg, nil
}
