package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/loglevel/internal/logging"
	"github.com/smazurov/loglevel/pkg/loglevel"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to every `env` tag when reading overrides.
const EnvPrefix = "LOGLEVEL_"

// LoadConfig loads configuration with proper precedence: CLI args > env vars > config file.
// If cmd is provided, flags explicitly set via CLI will not be overwritten.
func LoadConfig(opts any, cmd *cobra.Command) error {
	v := reflect.ValueOf(opts).Elem()
	t := v.Type()

	changedFlags := make(map[string]bool)
	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				changedFlags[f.Name] = true
			}
		})
	}

	var configPath string
	if field := v.FieldByName("Config"); field.IsValid() && field.Kind() == reflect.String {
		configPath = field.String()
	}

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			var config map[string]any
			if err := toml.Unmarshal(data, &config); err != nil {
				return fmt.Errorf("failed to parse TOML config: %w", err)
			}

			for i := 0; i < v.NumField(); i++ {
				fieldType := t.Field(i)
				if changedFlags[fieldNameToFlag(fieldType.Name)] {
					continue
				}
				if tomlPath := fieldType.Tag.Get("toml"); tomlPath != "" {
					if value := getNestedValue(config, tomlPath); value != nil {
						setFieldValue(v.Field(i), value)
					}
				}
			}
		}
	}

	for i := 0; i < v.NumField(); i++ {
		fieldType := t.Field(i)
		if changedFlags[fieldNameToFlag(fieldType.Name)] {
			continue
		}
		if envKey := fieldType.Tag.Get("env"); envKey != "" {
			if envValue := os.Getenv(EnvPrefix + envKey); envValue != "" {
				setFieldValueFromString(v.Field(i), envValue)
			}
		}
	}

	return nil
}

// fieldNameToFlag converts a struct field name to a CLI flag name.
// Example: "LoggingLevel" -> "logging-level", "Port" -> "port".
func fieldNameToFlag(fieldName string) string {
	var result []rune
	for i, r := range fieldName {
		if i > 0 && unicode.IsUpper(r) {
			result = append(result, '-')
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}

// getNestedValue retrieves a value from nested map using dot notation.
func getNestedValue(data map[string]any, path string) any {
	parts := strings.Split(path, ".")
	current := data

	for i, part := range parts {
		if i == len(parts)-1 {
			return current[part]
		}
		next, ok := current[part].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return nil
}

func setFieldValue(field reflect.Value, value any) {
	if !field.CanSet() {
		return
	}

	switch field.Kind() {
	case reflect.String:
		if s, ok := value.(string); ok {
			field.SetString(s)
		}
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			field.SetBool(b)
		}
	case reflect.Int:
		switch i := value.(type) {
		case int64:
			field.SetInt(i)
		case int:
			field.SetInt(int64(i))
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return
		}
		if arr, ok := value.([]any); ok {
			slice := make([]string, len(arr))
			for i, v := range arr {
				if s, strOk := v.(string); strOk {
					slice[i] = s
				}
			}
			field.Set(reflect.ValueOf(slice))
		}
	}
}

// setFieldValueFromString sets a field value from string (for env vars).
func setFieldValueFromString(field reflect.Value, value string) {
	if !field.CanSet() {
		return
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		if b, err := strconv.ParseBool(value); err == nil {
			field.SetBool(b)
		}
	case reflect.Int:
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			field.SetInt(i)
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(value, ",")
			slice := make([]string, len(parts))
			for i, part := range parts {
				slice[i] = strings.TrimSpace(part)
			}
			field.Set(reflect.ValueOf(slice))
		}
	}
}

// LevelsConfig is the reloadable part of the configuration file: the
// registry-wide level and output settings plus per-logger levels.
type LevelsConfig struct {
	Level      string
	Format     string
	Colors     *bool
	Timestamps *bool
	// Loggers holds per-logger levels from the [loggers] table and from any
	// extra string keys under [logging].
	Loggers map[string]string
}

// DefaultLevelsConfig returns the settings used when no file is present.
func DefaultLevelsConfig() LevelsConfig {
	return LevelsConfig{
		Level:   "info",
		Format:  "text",
		Loggers: make(map[string]string),
	}
}

// LoadLevelsConfig reads level settings from a TOML config file:
//
//	[logging]
//	level = "info"
//	format = "json"
//	colors = false
//	timestamps = true
//
//	[loggers]
//	api = "debug"
//
// A missing file yields the defaults. A file that cannot be parsed is an error.
func LoadLevelsConfig(configPath string) (LevelsConfig, error) {
	cfg := DefaultLevelsConfig()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read levels config: %w", err)
	}

	var raw struct {
		Logging map[string]any    `toml:"logging"`
		Loggers map[string]string `toml:"loggers"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("failed to parse levels config: %w", err)
	}

	for key, value := range raw.Logging {
		switch key {
		case "level":
			if s, ok := value.(string); ok {
				cfg.Level = s
			}
		case "format":
			if s, ok := value.(string); ok {
				cfg.Format = s
			}
		case "colors":
			if b, ok := value.(bool); ok {
				cfg.Colors = &b
			}
		case "timestamps":
			if b, ok := value.(bool); ok {
				cfg.Timestamps = &b
			}
		default:
			if s, ok := value.(string); ok {
				cfg.Loggers[key] = s
			}
		}
	}
	for name, lvl := range raw.Loggers {
		cfg.Loggers[name] = lvl
	}

	return cfg, nil
}

// Logging converts the settings into the logging package's configuration.
func (c LevelsConfig) Logging() logging.Config {
	return logging.Config{
		Level:   c.Level,
		Format:  c.Format,
		Modules: c.Loggers,
	}
}

// Apply installs the settings on root: format and levels through
// logging.Initialize, then the color and timestamp switches, which fan out
// to every logger.
func (c LevelsConfig) Apply(root *loglevel.Root) {
	logging.Initialize(root, c.Logging())
	if c.Colors != nil {
		root.UseColors(*c.Colors)
	}
	if c.Timestamps != nil {
		root.UseTimestamps(*c.Timestamps)
	}
}
