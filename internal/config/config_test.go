package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/smazurov/loglevel/pkg/format"
	"github.com/smazurov/loglevel/pkg/host"
	"github.com/smazurov/loglevel/pkg/level"
	"github.com/smazurov/loglevel/pkg/loglevel"
	"github.com/spf13/cobra"
)

// TestConfig represents a test configuration structure.
type TestConfig struct {
	Config string `help:"Config file path"`

	StringField string   `toml:"test.string_field" env:"STRING_FIELD"`
	BoolField   bool     `toml:"test.bool_field" env:"BOOL_FIELD"`
	IntField    int      `toml:"test.int_field" env:"INT_FIELD"`
	SliceField  []string `toml:"test.slice_field" env:"SLICE_FIELD"`

	NestedString string `toml:"nested.value" env:"NESTED_VALUE"`
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigFromTOML(t *testing.T) {
	path := writeFile(t, `
[test]
string_field = "hello world"
bool_field = true
int_field = 42
slice_field = ["item1", "item2", "item3"]

[nested]
value = "nested value"
`)

	config := &TestConfig{Config: path}
	if err := LoadConfig(config, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.StringField != "hello world" {
		t.Errorf("Expected StringField to be 'hello world', got '%s'", config.StringField)
	}
	if !config.BoolField {
		t.Errorf("Expected BoolField to be true, got %v", config.BoolField)
	}
	if config.IntField != 42 {
		t.Errorf("Expected IntField to be 42, got %d", config.IntField)
	}
	expectedSlice := []string{"item1", "item2", "item3"}
	if !reflect.DeepEqual(config.SliceField, expectedSlice) {
		t.Errorf("Expected SliceField to be %v, got %v", expectedSlice, config.SliceField)
	}
	if config.NestedString != "nested value" {
		t.Errorf("Expected NestedString to be 'nested value', got '%s'", config.NestedString)
	}
}

func TestLoadConfigFromEnvVars(t *testing.T) {
	t.Setenv("LOGLEVEL_STRING_FIELD", "env string")
	t.Setenv("LOGLEVEL_BOOL_FIELD", "false")
	t.Setenv("LOGLEVEL_INT_FIELD", "123")
	t.Setenv("LOGLEVEL_SLICE_FIELD", "a,b,c")
	t.Setenv("LOGLEVEL_NESTED_VALUE", "env nested")

	config := &TestConfig{BoolField: true}
	if err := LoadConfig(config, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.StringField != "env string" {
		t.Errorf("Expected StringField to be 'env string', got '%s'", config.StringField)
	}
	if config.BoolField {
		t.Errorf("Expected BoolField to be false, got %v", config.BoolField)
	}
	if config.IntField != 123 {
		t.Errorf("Expected IntField to be 123, got %d", config.IntField)
	}
	if !reflect.DeepEqual(config.SliceField, []string{"a", "b", "c"}) {
		t.Errorf("Expected SliceField to be [a b c], got %v", config.SliceField)
	}
	if config.NestedString != "env nested" {
		t.Errorf("Expected NestedString to be 'env nested', got '%s'", config.NestedString)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := writeFile(t, `
[test]
string_field = "toml value"
bool_field = true
int_field = 100
slice_field = ["toml1", "toml2"]
`)
	t.Setenv("LOGLEVEL_STRING_FIELD", "env override")
	t.Setenv("LOGLEVEL_INT_FIELD", "7")

	cmd := &cobra.Command{Use: "test"}
	intFlag := cmd.Flags().Int("int-field", 0, "")
	if err := cmd.Flags().Parse([]string{"--int-field=9"}); err != nil {
		t.Fatal(err)
	}

	config := &TestConfig{Config: path, IntField: *intFlag}
	if err := LoadConfig(config, cmd); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	tests := []struct {
		field string
		got   any
		want  any
	}{
		{"StringField (env over toml)", config.StringField, "env override"},
		{"BoolField (toml)", config.BoolField, true},
		{"IntField (flag over env and toml)", config.IntField, 9},
		{"SliceField (toml)", config.SliceField, []string{"toml1", "toml2"}},
	}
	for _, tt := range tests {
		if !reflect.DeepEqual(tt.got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.field, tt.got, tt.want)
		}
	}
}

func TestGetNestedValue(t *testing.T) {
	data := map[string]any{
		"level1": map[string]any{
			"level2": map[string]any{
				"value": "nested_value",
			},
			"simple": "simple_value",
		},
		"root": "root_value",
	}

	tests := []struct {
		path     string
		expected any
	}{
		{"root", "root_value"},
		{"level1.simple", "simple_value"},
		{"level1.level2.value", "nested_value"},
		{"nonexistent", nil},
		{"level1.nonexistent", nil},
		{"root.child", nil},
	}

	for _, test := range tests {
		if result := getNestedValue(data, test.path); result != test.expected {
			t.Errorf("getNestedValue(%q) = %v, expected %v", test.path, result, test.expected)
		}
	}
}

func TestSetFieldValueFromString(t *testing.T) {
	type TestStruct struct {
		StringField string
		BoolField   bool
		IntField    int
		SliceField  []string
	}

	s := &TestStruct{}
	v := reflect.ValueOf(s).Elem()

	setFieldValueFromString(v.FieldByName("StringField"), "test string")
	setFieldValueFromString(v.FieldByName("BoolField"), "true")
	setFieldValueFromString(v.FieldByName("IntField"), "123")
	setFieldValueFromString(v.FieldByName("SliceField"), " a , b , c ")

	want := TestStruct{"test string", true, 123, []string{"a", "b", "c"}}
	if !reflect.DeepEqual(*s, want) {
		t.Errorf("got %+v, want %+v", *s, want)
	}

	setFieldValueFromString(v.FieldByName("IntField"), "not a number")
	if s.IntField != 123 {
		t.Errorf("invalid int overwrote field: %d", s.IntField)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	config := &TestConfig{Config: filepath.Join(t.TempDir(), "missing.toml")}
	if err := LoadConfig(config, nil); err != nil {
		t.Fatalf("LoadConfig should not fail for missing file: %v", err)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	config := &TestConfig{Config: writeFile(t, "[test\ninvalid toml syntax\n")}
	if err := LoadConfig(config, nil); err == nil {
		t.Fatalf("LoadConfig should fail for invalid TOML")
	}
}

func TestLoadLevelsConfig(t *testing.T) {
	path := writeFile(t, `
[logging]
level = "debug"
format = "json"
colors = false
timestamps = true
config = "trace"

[loggers]
api = "warn"
"net/http" = "error"
`)

	cfg, err := LoadLevelsConfig(path)
	if err != nil {
		t.Fatalf("LoadLevelsConfig failed: %v", err)
	}

	if cfg.Level != "debug" || cfg.Format != "json" {
		t.Errorf("level/format = %q/%q", cfg.Level, cfg.Format)
	}
	if cfg.Colors == nil || *cfg.Colors {
		t.Errorf("Colors = %v, want false", cfg.Colors)
	}
	if cfg.Timestamps == nil || !*cfg.Timestamps {
		t.Errorf("Timestamps = %v, want true", cfg.Timestamps)
	}
	wantLoggers := map[string]string{"config": "trace", "api": "warn", "net/http": "error"}
	if !reflect.DeepEqual(cfg.Loggers, wantLoggers) {
		t.Errorf("Loggers = %v, want %v", cfg.Loggers, wantLoggers)
	}
}

func TestLoadLevelsConfigDefaults(t *testing.T) {
	for name, path := range map[string]string{
		"empty path":   "",
		"missing file": filepath.Join(t.TempDir(), "missing.toml"),
		"no sections":  writeFile(t, "title = \"x\"\n"),
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := LoadLevelsConfig(path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Level != "info" || cfg.Format != "text" || cfg.Colors != nil || len(cfg.Loggers) != 0 {
				t.Errorf("cfg = %+v, want defaults", cfg)
			}
		})
	}
}

func TestLoadLevelsConfigInvalid(t *testing.T) {
	if _, err := LoadLevelsConfig(writeFile(t, "[logging\nlevel=")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLevelsConfigApply(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	out := host.NewBufferConsole(10)
	env := &host.Static{Out: out, Terminal: true, Color: true}
	root := loglevel.New(
		loglevel.WithEnvironment(env),
		loglevel.WithFormatter(format.NewDefault(format.WithEnvironment(env))),
	)
	existing := root.MustGetLogger("existing")

	no := false
	cfg := LevelsConfig{
		Level:      "error",
		Format:     "minimal",
		Colors:     &no,
		Timestamps: &no,
		Loggers:    map[string]string{"api": "debug"},
	}
	cfg.Apply(root)

	if root.Level() != level.Error || existing.Level() != level.Error {
		t.Errorf("levels = %s/%s, want error", root.Level(), existing.Level())
	}
	if got := root.MustGetLogger("api").Level(); got != level.Debug {
		t.Errorf("api level = %s, want debug", got)
	}
	if kind := format.KindOf(existing.Formatter()); kind != format.KindMinimal {
		t.Errorf("existing formatter kind = %q, want minimal", kind)
	}
	if root.Formatter().UsesColors() {
		t.Error("colors still enabled")
	}

	existing.Error("boom")
	if lines := out.Lines(); len(lines) != 1 || lines[0] != "[existing] boom" {
		t.Errorf("lines = %v", lines)
	}
}
