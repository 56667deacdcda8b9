// Package config owns hypr-sessions' tunables and resolves the on-disk
// store root. A Config is constructed once per invocation and passed
// explicitly to every component; nothing here is a package-level singleton.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	grovelogging "github.com/grovetools/core/logging"
	"gopkg.in/yaml.v3"
)

var ulog = grovelogging.NewUnifiedLogger("hypr-sessions.config")

// CleanupStrategy enumerates the supported archive-cleanup strategies.
// Only oldest_first is implemented; others are reserved for future use.
type CleanupStrategy string

// OldestFirst removes the least-recently-archived sessions first.
const OldestFirst CleanupStrategy = "oldest_first"

// Config holds the tunables enumerated in spec.md §4.1.
type Config struct {
	ArchiveEnabled         bool
	ArchiveMaxSessions     int
	ArchiveAutoCleanup     bool
	ArchiveCleanupStrategy CleanupStrategy
	DelayBetweenInstructions float64
}

// Default returns the baseline configuration before env overrides.
func Default() Config {
	return Config{
		ArchiveEnabled:           true,
		ArchiveMaxSessions:       20,
		ArchiveAutoCleanup:       true,
		ArchiveCleanupStrategy:   OldestFirst,
		DelayBetweenInstructions: 0.4,
	}
}

// Warning describes an override that was rejected and fell back to default,
// whether from the config file or an environment variable.
type Warning struct {
	Variable string
	Value    string
	Reason   string
}

// yamlConfig mirrors Config for the optional
// ~/.config/hypr-sessions/config.yaml override layer. Fields are pointers
// (or left as zero values for strings) so an absent key never shadows the
// built-in default.
type yamlConfig struct {
	ArchiveEnabled           *bool    `yaml:"archive_enabled"`
	ArchiveMaxSessions       *int     `yaml:"archive_max_sessions"`
	ArchiveAutoCleanup       *bool    `yaml:"archive_auto_cleanup"`
	ArchiveCleanupStrategy   string   `yaml:"archive_cleanup_strategy"`
	DelayBetweenInstructions *float64 `yaml:"delay_between_instructions"`
}

// configFilePath returns the optional YAML override file's path, expanding
// $HOME the way the teacher's loadSummaryConfig does for
// ~/.config/tmux-claude-hud/config.yaml.
func configFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hypr-sessions", "config.yaml")
}

// loadYAMLOverrides reads the optional config file at path. A missing file
// is the ordinary case and yields a zero-value yamlConfig with no warning;
// a present-but-unparsable file degrades to a warning rather than a fatal
// error, per spec.md §4.1's "reject-and-warn, never panic" rule.
func loadYAMLOverrides(path string) (yamlConfig, []Warning) {
	var y yamlConfig
	if path == "" {
		return y, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return y, nil
	}
	if err := yaml.Unmarshal(data, &y); err != nil {
		return yamlConfig{}, []Warning{{Variable: "config.yaml", Value: path, Reason: "not valid YAML: " + err.Error()}}
	}
	return y, nil
}

// applyYAMLOverrides layers y onto cfg with the same bounds checking as the
// environment overrides below, returning warnings for any out-of-range value
// instead of applying it.
func applyYAMLOverrides(cfg Config, y yamlConfig) (Config, []Warning) {
	var warnings []Warning

	if y.ArchiveEnabled != nil {
		cfg.ArchiveEnabled = *y.ArchiveEnabled
	}
	if y.ArchiveMaxSessions != nil {
		if *y.ArchiveMaxSessions >= 1 && *y.ArchiveMaxSessions <= 1000 {
			cfg.ArchiveMaxSessions = *y.ArchiveMaxSessions
		} else {
			warnings = append(warnings, Warning{"archive_max_sessions", strconv.Itoa(*y.ArchiveMaxSessions), "out of bounds [1,1000]"})
		}
	}
	if y.ArchiveAutoCleanup != nil {
		cfg.ArchiveAutoCleanup = *y.ArchiveAutoCleanup
	}
	if y.ArchiveCleanupStrategy != "" {
		cfg.ArchiveCleanupStrategy = CleanupStrategy(y.ArchiveCleanupStrategy)
	}
	if y.DelayBetweenInstructions != nil {
		if *y.DelayBetweenInstructions >= 0.0 && *y.DelayBetweenInstructions <= 10.0 {
			cfg.DelayBetweenInstructions = *y.DelayBetweenInstructions
		} else {
			warnings = append(warnings, Warning{"delay_between_instructions", strconv.FormatFloat(*y.DelayBetweenInstructions, 'f', -1, 64), "out of bounds [0.0,10.0]"})
		}
	}

	return cfg, warnings
}

// Load builds a Config from defaults, then the optional
// ~/.config/hypr-sessions/config.yaml override layer, then bounded
// environment overrides (spec.md §4.1) — each layer winning over the last.
// Out-of-range or unparsable values at any layer are ignored and reported
// as warnings rather than applied or treated as fatal.
func Load() (Config, []Warning) {
	cfg := Default()
	var warnings []Warning

	y, yamlWarnings := loadYAMLOverrides(configFilePath())
	warnings = append(warnings, yamlWarnings...)
	cfg, overrideWarnings := applyYAMLOverrides(cfg, y)
	warnings = append(warnings, overrideWarnings...)

	if v, ok := os.LookupEnv("ARCHIVE_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ArchiveEnabled = b
		} else {
			warnings = append(warnings, Warning{"ARCHIVE_ENABLED", v, "not a boolean"})
		}
	}

	if v, ok := os.LookupEnv("ARCHIVE_MAX_SESSIONS"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			if n >= 1 && n <= 1000 {
				cfg.ArchiveMaxSessions = n
			} else {
				warnings = append(warnings, Warning{"ARCHIVE_MAX_SESSIONS", v, "out of bounds [1,1000]"})
			}
		} else {
			warnings = append(warnings, Warning{"ARCHIVE_MAX_SESSIONS", v, "not an integer"})
		}
	}

	if v, ok := os.LookupEnv("ARCHIVE_AUTO_CLEANUP"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ArchiveAutoCleanup = b
		} else {
			warnings = append(warnings, Warning{"ARCHIVE_AUTO_CLEANUP", v, "not a boolean"})
		}
	}

	if v, ok := os.LookupEnv("DELAY_BETWEEN_INSTRUCTIONS"); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			if f >= 0.0 && f <= 10.0 {
				cfg.DelayBetweenInstructions = f
			} else {
				warnings = append(warnings, Warning{"DELAY_BETWEEN_INSTRUCTIONS", v, "out of bounds [0.0,10.0]"})
			}
		} else {
			warnings = append(warnings, Warning{"DELAY_BETWEEN_INSTRUCTIONS", v, "not a float"})
		}
	}

	for _, w := range warnings {
		ulog.Info("Ignoring out-of-range env override").
			Field("variable", w.Variable).
			Field("value", w.Value).
			Field("reason", w.Reason).
			Emit()
	}

	return cfg, warnings
}

// Paths holds the store's on-disk layout, derived from the root.
type Paths struct {
	Root     string
	Active   string
	Archived string
}

// ResolvePaths computes the store root and its two subtrees. It never
// creates directories; ensuring existence is a separate, explicit action.
func ResolvePaths() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, err
	}
	root := filepath.Join(home, ".config", "hypr-sessions")
	if v, ok := os.LookupEnv("HYPR_SESSIONS_ROOT"); ok && v != "" {
		root = v
	}
	return Paths{
		Root:     root,
		Active:   filepath.Join(root, "active"),
		Archived: filepath.Join(root, "archived"),
	}, nil
}
