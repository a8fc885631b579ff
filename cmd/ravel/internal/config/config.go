package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"
)

// FileName is the optional project configuration file.
const FileName = "ravel.yaml"

// Config represents the optional ravel.yaml configuration.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
	// Demo is the bundled app rendered when none is named.
	Demo string `yaml:"demo,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
}

// MetricsConfig contains run loop metrics settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root             string
	ModulePath       string
	AppName          string
	Demo             string
	LogLevel         string
	MetricsEnabled   bool
	MetricsNamespace string
}

// Defaults returns the configuration used outside a Go module.
func Defaults() *Resolved {
	return &Resolved{
		AppName:          "ravel_app",
		Demo:             "counter",
		LogLevel:         "info",
		MetricsNamespace: "ravel",
	}
}

// LoadOptional reads ravel.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads ravel.yaml (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	defaults := Defaults()

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	demo := strings.TrimSpace(cfg.App.Demo)
	if demo == "" {
		demo = defaults.Demo
	}

	level := strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if level == "" {
		level = defaults.LogLevel
	}
	if err := ValidateLogLevel(level); err != nil {
		return nil, err
	}

	namespace := strings.TrimSpace(cfg.Metrics.Namespace)
	if namespace == "" {
		namespace = SanitizeNamespace(appName)
	}
	if err := validateNamespace(namespace); err != nil {
		return nil, err
	}

	return &Resolved{
		Root:             dir,
		ModulePath:       modulePath,
		AppName:          appName,
		Demo:             demo,
		LogLevel:         level,
		MetricsEnabled:   cfg.Metrics.Enabled,
		MetricsNamespace: namespace,
	}, nil
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

// ValidateLogLevel accepts the levels understood by the CLI.
func ValidateLogLevel(level string) error {
	switch level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", level)
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	modName, _, ok := module.SplitPathVersion(modulePath)
	if ok {
		parts := strings.Split(modName, "/")
		if len(parts) > 0 {
			base = parts[len(parts)-1]
		}
	}
	if base == "" {
		return "ravel_app"
	}
	return base
}

// SanitizeNamespace turns an app name into a Prometheus namespace: lower
// case letters, digits and underscores, not starting with a digit.
func SanitizeNamespace(name string) string {
	var out []rune
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == '-' || r == '.':
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "ravel"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = append([]rune{'_'}, out...)
	}
	return string(out)
}

func validateNamespace(ns string) error {
	for i, r := range ns {
		if r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return fmt.Errorf("metrics.namespace contains invalid character %q in %q", r, ns)
	}
	return nil
}
