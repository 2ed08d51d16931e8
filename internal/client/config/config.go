// Package config loads the terminal client's settings: defaults, then the
// YAML file, then NAVIGATOR_* environment variables. Command-line flags are
// applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	PolicyAfterConfirm = "after_confirm"
	PolicyOptimistic   = "optimistic"
)

const appDir = "navigator"

type Config struct {
	Server         string        `yaml:"server"`
	GoogleBooksURL string        `yaml:"google_books_url"`
	GoogleBooksKey string        `yaml:"google_books_api_key"`
	CachePath      string        `yaml:"cache_path"`
	Timeout        time.Duration `yaml:"timeout"`
	RemovePolicy   string        `yaml:"remove_policy"`

	MinDescriptionLength int `yaml:"min_description_length"`
	StrictFloor          int `yaml:"strict_floor"`

	LogLevel string `yaml:"log_level"`
}

func Defaults() Config {
	return Config{
		Server:               "http://localhost:8080/graphql",
		GoogleBooksURL:       "https://www.googleapis.com",
		CachePath:            filepath.Join(baseDir(), appDir, "cache.db"),
		Timeout:              10 * time.Second,
		RemovePolicy:         PolicyAfterConfirm,
		MinDescriptionLength: 50,
		StrictFloor:          30,
		LogLevel:             "warn",
	}
}

// DefaultPath is ~/.config/navigator/config.yaml on Linux.
func DefaultPath() string {
	return filepath.Join(baseDir(), appDir, "config.yaml")
}

func baseDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return "."
}

// Load reads path over the defaults. A missing file is only an error when
// the caller named it explicitly.
func Load(path string, explicit bool) (Config, error) {
	cfg := Defaults()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	var errs []error
	setString(&cfg.Server, "NAVIGATOR_SERVER")
	setString(&cfg.GoogleBooksURL, "NAVIGATOR_GOOGLE_BOOKS_URL")
	setString(&cfg.GoogleBooksKey, "NAVIGATOR_GOOGLE_BOOKS_API_KEY")
	setString(&cfg.CachePath, "NAVIGATOR_CACHE_PATH")
	setString(&cfg.RemovePolicy, "NAVIGATOR_REMOVE_POLICY")
	setString(&cfg.LogLevel, "NAVIGATOR_LOG_LEVEL")

	if v := os.Getenv("NAVIGATOR_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("NAVIGATOR_TIMEOUT: %w", err))
		} else {
			cfg.Timeout = d
		}
	}
	for key, dst := range map[string]*int{
		"NAVIGATOR_MIN_DESCRIPTION_LENGTH": &cfg.MinDescriptionLength,
		"NAVIGATOR_STRICT_FLOOR":           &cfg.StrictFloor,
	} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		*dst = n
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.Server == "" {
		errs = append(errs, errors.New("server is required"))
	}
	if c.RemovePolicy != PolicyAfterConfirm && c.RemovePolicy != PolicyOptimistic {
		errs = append(errs, fmt.Errorf("remove_policy %q: must be %s or %s", c.RemovePolicy, PolicyAfterConfirm, PolicyOptimistic))
	}
	if c.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.MinDescriptionLength < 0 || c.StrictFloor < 0 {
		errs = append(errs, errors.New("filter thresholds must not be negative"))
	}
	return errors.Join(errs...)
}
