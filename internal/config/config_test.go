// internal/config/config_test.go
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points the global config lookup at an empty directory so the
// developer's own config never leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	return home
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.Editor.TabSize != 4 || !cfg.Editor.InsertSpaces {
		t.Errorf("editor defaults = %+v", cfg.Editor)
	}
	if cfg.Editor.LineEnding != "auto" {
		t.Errorf("line_ending = %q", cfg.Editor.LineEnding)
	}
	if cfg.Display.Theme != "dark" || cfg.Display.LineNumbers != "absolute" {
		t.Errorf("display defaults = %+v", cfg.Display)
	}
	if cfg.Keymap.Preset != "default" || cfg.Log.Level != "info" {
		t.Errorf("keymap/log defaults = %+v / %+v", cfg.Keymap, cfg.Log)
	}
	if !cfg.Lsp.Enabled || cfg.AutoSaveIntervalSecs != 30 {
		t.Errorf("lsp/autosave defaults = %+v / %d", cfg.Lsp, cfg.AutoSaveIntervalSecs)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadMissingFiles(t *testing.T) {
	isolate(t)
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Editor.TabSize != 4 {
		t.Errorf("tab_size = %d, want default 4", cfg.Editor.TabSize)
	}
}

func TestLoadProjectOverridesGlobal(t *testing.T) {
	home := isolate(t)
	global, err := GlobalPath()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(global, home) {
		t.Fatalf("global path %q escaped the test home %q", global, home)
	}
	writeConfig(t, global, `
[editor]
tab_size = 8
[display]
theme = "light"
`)

	project := t.TempDir()
	writeConfig(t, ProjectPath(project), `
[editor]
tab_size = 2
`)

	cfg, err := Load(project)
	if err != nil {
		t.Fatal(err)
	}
	// Project wins where both set a key; global survives elsewhere.
	if cfg.Editor.TabSize != 2 {
		t.Errorf("tab_size = %d, want project value 2", cfg.Editor.TabSize)
	}
	if cfg.Display.Theme != "light" {
		t.Errorf("theme = %q, want global value %q", cfg.Display.Theme, "light")
	}
	// Untouched keys keep the defaults.
	if cfg.Keymap.Preset != "default" {
		t.Errorf("preset = %q", cfg.Keymap.Preset)
	}
}

func TestLoadInvalidValueFallsBack(t *testing.T) {
	isolate(t)
	project := t.TempDir()
	writeConfig(t, ProjectPath(project), `
[editor]
tab_size = 99
`)
	cfg, err := Load(project)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Field != "editor.tab_size" {
		t.Errorf("field = %q", verr.Field)
	}
	if cfg.Editor.TabSize != 4 {
		t.Errorf("fallback tab_size = %d, want default", cfg.Editor.TabSize)
	}
}

func TestLoadBrokenTOML(t *testing.T) {
	isolate(t)
	project := t.TempDir()
	writeConfig(t, ProjectPath(project), `[editor`)
	if _, err := Load(project); err == nil {
		t.Error("broken TOML accepted")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"tab size low", func(c *Config) { c.Editor.TabSize = 0 }, "editor.tab_size"},
		{"tab size high", func(c *Config) { c.Editor.TabSize = 17 }, "editor.tab_size"},
		{"line ending", func(c *Config) { c.Editor.LineEnding = "cr" }, "editor.line_ending"},
		{"line numbers", func(c *Config) { c.Display.LineNumbers = "hybrid" }, "display.line_numbers"},
		{"keymap preset", func(c *Config) { c.Keymap.Preset = "kakoune" }, "keymap.preset"},
		{"log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"autosave too small", func(c *Config) { c.AutoSaveIntervalSecs = 3 }, "auto_save_interval_secs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}

	// Zero disables auto-save and is valid.
	cfg := Default()
	cfg.AutoSaveIntervalSecs = 0
	if err := cfg.validate(); err != nil {
		t.Errorf("auto_save 0: %v", err)
	}
}

func TestServerForExtension(t *testing.T) {
	cfg := Default()
	cfg.Lsp.Servers["go"] = LspServerConfig{
		Command:    "gopls",
		Extensions: []string{".go"},
	}
	cfg.Lsp.Servers["python"] = LspServerConfig{
		Command:    "pylsp",
		Extensions: []string{".py", ".pyi"},
	}

	lang, server, ok := cfg.ServerForExtension(".go")
	if !ok || lang != "go" || server.Command != "gopls" {
		t.Errorf("go lookup: %q %+v %v", lang, server, ok)
	}
	if _, _, ok := cfg.ServerForExtension(".pyi"); !ok {
		t.Error("secondary extension not found")
	}
	if _, _, ok := cfg.ServerForExtension(".rs"); ok {
		t.Error("unconfigured extension matched")
	}
}
