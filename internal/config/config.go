// Package config loads the assistant preferences file and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/modassist/internal/logging"
	"github.com/aretw0/modassist/internal/runtime"
	"github.com/aretw0/modassist/pkg/registry"
)

// Config holds every user preference.
type Config struct {
	LogLevel    string            `yaml:"log_level" mapstructure:"log_level"`
	LogFormat   string            `yaml:"log_format" mapstructure:"log_format"`
	Rollback    string            `yaml:"rollback" mapstructure:"rollback"`
	ShowMetrics bool              `yaml:"show_metrics" mapstructure:"show_metrics"`
	Defaults    registry.Defaults `yaml:"defaults" mapstructure:"defaults"`
	Budgets     runtime.Budgets   `yaml:"budgets" mapstructure:"budgets"`
}

// Default returns the built-in preferences.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: logging.FormatText,
		Rollback:  string(runtime.RollbackHost),
		Defaults:  registry.DefaultDefaults(),
		Budgets:   runtime.DefaultBudgets(),
	}
}

// Load reads the YAML file at path over the defaults. A missing file yields the
// defaults; keys absent from the file keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseOverrides turns "key=value" pairs into a map.
func ParseOverrides(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("override %q is not key=value", p)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

// ApplyOverrides sets dotted keys such as "defaults.array_count" or "budgets.total".
// Values are converted to the field type; unknown keys are an error, and so is a
// key that is a prefix of another ("defaults" together with "defaults.array_count").
func (c *Config) ApplyOverrides(overrides map[string]string) error {
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tree := make(map[string]any)
	for _, key := range keys {
		parts := strings.Split(key, ".")
		node := tree
		for i, p := range parts[:len(parts)-1] {
			next, exists := node[p]
			if !exists {
				child := make(map[string]any)
				node[p] = child
				node = child
				continue
			}
			child, ok := next.(map[string]any)
			if !ok {
				return fmt.Errorf("override %q conflicts with %q", key, strings.Join(parts[:i+1], "."))
			}
			node = child
		}
		// Sorted order visits "a" before "a.b", so a conflict always surfaces above.
		node[parts[len(parts)-1]] = overrides[key]
	}
	return decode(tree, c)
}

func decode(input map[string]any, out *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// Validate checks enumerations, workflow defaults and budgets.
func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if _, err := runtime.ParseRollbackPolicy(c.Rollback); err != nil {
		errs = append(errs, err)
	}
	if err := c.Defaults.Validate(); err != nil {
		errs = append(errs, err)
	}
	b := c.Budgets
	if b.Interpret < 0 || b.Validate < 0 || b.Execute < 0 || b.Total < 0 {
		errs = append(errs, errors.New("budgets must not be negative"))
	}
	return errors.Join(errs...)
}
