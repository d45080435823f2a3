// Package config loads pscode.yml, the settings file for the pscode command.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"pscode/interpreter-go/pkg/builtins"
)

// FileName is the config file looked up in the working directory.
const FileName = "pscode.yml"

// Config holds the resolved settings. Zero values are never returned from
// Load or Resolve; unset keys take the values from Default.
type Config struct {
	// Path is the absolute path of the file the config was read from, or
	// empty for defaults.
	Path               string
	Prompt             string
	ContinuationPrompt string
	// HistoryFile is where the interactive shell keeps its history. Empty
	// disables history.
	HistoryFile      string
	LogLevel         slog.Level
	RandomSeed       int64
	DisabledBuiltins []string
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Prompt:             "pscode >>> ",
		ContinuationPrompt: "... ",
		HistoryFile:        expandHome("~/.pscode_history"),
		LogLevel:           slog.LevelWarn,
	}
}

// BuiltinOptions converts the builtin settings for builtins.Install.
func (c *Config) BuiltinOptions() builtins.Options {
	return builtins.Options{Seed: c.RandomSeed, Disabled: slices.Clone(c.DisabledBuiltins)}
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Resolve loads explicit when it is set. Otherwise it loads FileName from dir
// if present and falls back to Default.
func Resolve(explicit, dir string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	candidate := filepath.Join(dir, FileName)
	if _, err := os.Stat(candidate); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: stat %s: %w", candidate, err)
	}
	return Load(candidate)
}

// Load parses a config file from disk and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	raw, err := decode(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	cfg, err := raw.toConfig()
	if err != nil {
		return nil, err
	}
	cfg.Path = absPath
	return cfg, nil
}

// decode reads a single YAML document. An empty document leaves every key
// unset.
func decode(r io.Reader) (configFile, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return configFile{}, err
	}
	return raw, nil
}

type configFile struct {
	Prompt             *string      `yaml:"prompt"`
	ContinuationPrompt *string      `yaml:"continuation_prompt"`
	HistoryFile        *string      `yaml:"history_file"`
	LogLevel           *string      `yaml:"log_level"`
	RandomSeed         *int64       `yaml:"random_seed"`
	Builtins           builtinsYAML `yaml:"builtins"`
}

type builtinsYAML struct {
	Disabled stringList `yaml:"disabled"`
}

func (f configFile) toConfig() (*Config, error) {
	cfg := Default()
	var errs ValidationError

	if f.Prompt != nil {
		if *f.Prompt == "" {
			errs.Issues = append(errs.Issues, "prompt must not be empty")
		}
		cfg.Prompt = *f.Prompt
	}
	if f.ContinuationPrompt != nil {
		cfg.ContinuationPrompt = *f.ContinuationPrompt
	}
	if f.HistoryFile != nil {
		cfg.HistoryFile = expandHome(strings.TrimSpace(*f.HistoryFile))
	}
	if f.LogLevel != nil {
		level, err := parseLevel(*f.LogLevel)
		if err != nil {
			errs.Issues = append(errs.Issues, err.Error())
		}
		cfg.LogLevel = level
	}
	if f.RandomSeed != nil {
		cfg.RandomSeed = *f.RandomSeed
	}

	known := builtins.Names()
	for _, name := range f.Builtins.Disabled {
		if !slices.Contains(known, name) {
			errs.Issues = append(errs.Issues, fmt.Sprintf("builtins.disabled: unknown builtin %q", name))
			continue
		}
		if !slices.Contains(cfg.DisabledBuiltins, name) {
			cfg.DisabledBuiltins = append(cfg.DisabledBuiltins, name)
		}
	}

	if len(errs.Issues) > 0 {
		return nil, &errs
	}
	return cfg, nil
}

func parseLevel(input string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("log_level %q must be one of debug, info, warn, error", input)
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			if str = strings.TrimSpace(str); str != "" {
				items = append(items, str)
			}
		}
		*l = items
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("expected string or sequence for list but found %s", value.ShortTag())
	}
}
