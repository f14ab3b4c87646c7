// Package config loads chocq settings from a TOML file and the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/relux-works/choc-query/chocquery"
)

// Environment variables that override file values.
const (
	EnvDB      = "CHOCQ_DB"
	EnvFormat  = "CHOCQ_FORMAT"
	EnvNoColor = "NO_COLOR"
)

// Config is the full chocq configuration.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Prompt   PromptConfig   `toml:"prompt"`
	Output   OutputConfig   `toml:"output"`
}

// DatabaseConfig locates the reviews database.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// PromptConfig controls the interactive loop.
type PromptConfig struct {
	Text        string `toml:"text"`
	HistoryFile string `toml:"history_file"`
	HelpFile    string `toml:"help_file"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	Format    string `toml:"format"`     // table, compact or json
	TextWidth int    `toml:"text_width"` // text cells are truncated past this
	Color     bool   `toml:"color"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "choc.sqlite",
		},
		Prompt: PromptConfig{
			Text:     "Enter a command: ",
			HelpFile: "help.txt",
		},
		Output: OutputConfig{
			Format:    "table",
			TextWidth: chocquery.DefaultTextWidth,
			Color:     true,
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides.
//   - CHOCQ_DB: overrides database.path
//   - CHOCQ_FORMAT: overrides output.format
//   - NO_COLOR: any non-empty value disables output.color
func (c *Config) ApplyEnvOverrides() {
	if db := os.Getenv(EnvDB); db != "" {
		c.Database.Path = db
	}
	if format := os.Getenv(EnvFormat); format != "" {
		c.Output.Format = format
	}
	if os.Getenv(EnvNoColor) != "" {
		c.Output.Color = false
	}
}

// ValidationError reports one bad field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks field values and returns every problem found.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, ValidationError{Field: "database.path", Message: "must not be empty"})
	}
	if _, err := chocquery.ParseOutputMode(c.Output.Format); err != nil {
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: table, compact, json", c.Output.Format),
		})
	}
	if c.Output.TextWidth < 1 {
		errs = append(errs, ValidationError{
			Field:   "output.text_width",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Output.TextWidth),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// OutputMode returns the parsed output format. Call after Validate.
func (c *Config) OutputMode() chocquery.OutputMode {
	m, _ := chocquery.ParseOutputMode(c.Output.Format)
	return m
}
