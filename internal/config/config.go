// Package config loads editor settings from TOML: built-in defaults,
// overridden by the user's global config, overridden by the project's
// .smash/config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/smash-editor/smash/internal/logger"
)

// ValidationError reports one rejected config value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config value for %s: %s", e.Field, e.Message)
}

type EditorConfig struct {
	TabSize                int    `toml:"tab_size"`
	InsertSpaces           bool   `toml:"insert_spaces"`
	LineEnding             string `toml:"line_ending"`
	WordWrap               bool   `toml:"word_wrap"`
	AutoIndent             bool   `toml:"auto_indent"`
	AutoCloseBrackets      bool   `toml:"auto_close_brackets"`
	TrimTrailingWhitespace bool   `toml:"trim_trailing_whitespace"`
	OptionAsAlt            bool   `toml:"option_as_alt"`
}

type DisplayConfig struct {
	Theme       string `toml:"theme"`
	LineNumbers string `toml:"line_numbers"`
	ShowMinimap bool   `toml:"show_minimap"`
	CursorBlink bool   `toml:"cursor_blink"`
}

type KeymapConfig struct {
	Preset string `toml:"preset"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type LspServerConfig struct {
	Command    string   `toml:"command"`
	Args       []string `toml:"args"`
	Extensions []string `toml:"extensions"`
}

type LspConfig struct {
	Enabled bool                       `toml:"enabled"`
	Servers map[string]LspServerConfig `toml:"servers"`
}

// Config is the full settings tree. Unknown keys in the files are
// ignored.
type Config struct {
	Editor               EditorConfig  `toml:"editor"`
	Display              DisplayConfig `toml:"display"`
	Keymap               KeymapConfig  `toml:"keymap"`
	Log                  LogConfig     `toml:"log"`
	Lsp                  LspConfig     `toml:"lsp"`
	TerminalShell        string        `toml:"terminal_shell"`
	AutoSaveIntervalSecs int           `toml:"auto_save_interval_secs"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			TabSize:           4,
			InsertSpaces:      true,
			LineEnding:        "auto",
			AutoIndent:        true,
			AutoCloseBrackets: true,
			OptionAsAlt:       runtime.GOOS == "darwin",
		},
		Display: DisplayConfig{
			Theme:       "dark",
			LineNumbers: "absolute",
			CursorBlink: true,
		},
		Keymap: KeymapConfig{Preset: "default"},
		Log:    LogConfig{Level: "info"},
		Lsp: LspConfig{
			Enabled: true,
			Servers: make(map[string]LspServerConfig),
		},
		AutoSaveIntervalSecs: 30,
	}
}

// GlobalPath returns <user config dir>/smash/config.toml.
func GlobalPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(dir, "smash", "config.toml"), nil
}

// ProjectPath returns <projectDir>/.smash/config.toml.
func ProjectPath(projectDir string) string {
	return filepath.Join(projectDir, ".smash", "config.toml")
}

// Load merges defaults, the global file, and the project file, then
// validates the result. Missing files are fine; a broken or invalid
// file returns an error and the caller falls back to Default().
func Load(projectDir string) (Config, error) {
	cfg := Default()

	globalPath, err := GlobalPath()
	if err == nil {
		if err := mergeFile(&cfg, globalPath); err != nil {
			return Default(), err
		}
	}
	if projectDir != "" {
		if err := mergeFile(&cfg, ProjectPath(projectDir)); err != nil {
			return Default(), err
		}
	}
	if err := cfg.validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// mergeFile decodes path over cfg; keys absent from the file keep
// their current values.
func mergeFile(cfg *Config, path string) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		logger.Debugf("config: ignoring %d unknown key(s) in %s", len(undecoded), path)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Editor.TabSize < 1 || c.Editor.TabSize > 16 {
		return &ValidationError{Field: "editor.tab_size", Message: fmt.Sprintf("%d is outside 1..16", c.Editor.TabSize)}
	}
	switch c.Editor.LineEnding {
	case "auto", "lf", "crlf":
	default:
		return &ValidationError{Field: "editor.line_ending", Message: fmt.Sprintf("%q is not auto, lf, or crlf", c.Editor.LineEnding)}
	}
	switch c.Display.LineNumbers {
	case "absolute", "relative", "none":
	default:
		return &ValidationError{Field: "display.line_numbers", Message: fmt.Sprintf("%q is not absolute, relative, or none", c.Display.LineNumbers)}
	}
	switch c.Keymap.Preset {
	case "default", "emacs", "vim":
	default:
		return &ValidationError{Field: "keymap.preset", Message: fmt.Sprintf("%q is not default, emacs, or vim", c.Keymap.Preset)}
	}
	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return &ValidationError{Field: "log.level", Message: fmt.Sprintf("%q is not a log level", c.Log.Level)}
	}
	if c.AutoSaveIntervalSecs != 0 && c.AutoSaveIntervalSecs < 5 {
		return &ValidationError{Field: "auto_save_interval_secs", Message: "must be 0 (disabled) or at least 5"}
	}
	return nil
}

// ServerForExtension finds the configured language server owning a
// file extension (with leading dot).
func (c *Config) ServerForExtension(ext string) (string, LspServerConfig, bool) {
	for lang, server := range c.Lsp.Servers {
		for _, e := range server.Extensions {
			if e == ext {
				return lang, server, true
			}
		}
	}
	return "", LspServerConfig{}, false
}
