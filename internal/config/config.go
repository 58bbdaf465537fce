package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Nomadcxx/sportwatch/internal/normalize"
	"github.com/Nomadcxx/sportwatch/internal/paths"
	"github.com/Nomadcxx/sportwatch/internal/slots"
	"github.com/spf13/viper"
)

type Config struct {
	Library       LibraryConfig       `mapstructure:"library"`
	Pipeline      PipelineConfig      `mapstructure:"pipeline"`
	Normalize     NormalizeConfig     `mapstructure:"normalize"`
	Extensions    ExtensionsConfig    `mapstructure:"extensions"`
	ReleaseGroups ReleaseGroupsConfig `mapstructure:"release_groups"`
	Probe         ProbeConfig         `mapstructure:"probe"`
	Daemon        DaemonConfig        `mapstructure:"daemon"`
	Options       OptionsConfig       `mapstructure:"options"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// LibraryConfig contains source and destination paths
type LibraryConfig struct {
	// Sources are directories where new downloads arrive.
	Sources []string `mapstructure:"sources"`
	// Destination is the library root; organized files land under
	// <destination>/<League>/<Season>/.
	Destination string `mapstructure:"destination"`
	// Quarantine overrides the quarantine directory. Empty means
	// <destination>/.quarantine.
	Quarantine string `mapstructure:"quarantine"`
}

// PipelineConfig controls the aggregate accept/quarantine decision
type PipelineConfig struct {
	// Threshold is the minimum normalized score (0..1) for acceptance.
	Threshold float64 `mapstructure:"threshold"`
	// Weights maps slot field names to their relative weight. Missing
	// fields inherit the built-in defaults; a zero weight excludes the
	// field from the score.
	Weights map[string]int `mapstructure:"weights"`
	// Quarantine lists fields that force quarantine when unresolved,
	// regardless of score.
	Quarantine []string `mapstructure:"quarantine"`
}

// NormalizeConfig holds the global substitution and filter rules applied to
// every filename before extraction, under any sport-specific rules.
type NormalizeConfig struct {
	Substitutions []normalize.Rule `mapstructure:"substitutions"`
	Filters       []string         `mapstructure:"filters"`
}

// ExtensionsConfig controls which container extensions are processed
type ExtensionsConfig struct {
	Allowed []string `mapstructure:"allowed"`
	Blocked []string `mapstructure:"blocked"`
}

// ReleaseGroupsConfig controls the persistent release-group registry
type ReleaseGroupsConfig struct {
	// AutoAdd registers groups matched by the trailing-dash pattern so
	// later files recognize them at dictionary confidence.
	AutoAdd bool `mapstructure:"auto_add"`
	// AppendUnknown writes the UnKn0wn marker into assembled names when
	// no group was resolved.
	AppendUnknown bool `mapstructure:"append_unknown"`
	// Seed lists groups registered on first run.
	Seed []string `mapstructure:"seed"`
}

// ProbeConfig controls the ffprobe fallback for codec/resolution/fps
type ProbeConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Binary         string `mapstructure:"binary"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type DaemonConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ScanFrequency string `mapstructure:"scan_frequency"`
	HealthAddr    string `mapstructure:"health_addr"`
}

// OptionsConfig contains general options
type OptionsConfig struct {
	// DryRun reports planned actions without touching files.
	DryRun bool `mapstructure:"dry_run"`
	// Hardlink links into the library instead of moving when the
	// filesystem allows it.
	Hardlink bool `mapstructure:"hardlink"`
	// Workers bounds batch-scan parallelism. Zero means GOMAXPROCS.
	Workers int `mapstructure:"workers"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Library: LibraryConfig{
			Sources:     []string{},
			Destination: "",
			Quarantine:  "",
		},
		Pipeline: PipelineConfig{
			Threshold:  0.50,
			Weights:    map[string]int(slots.DefaultWeights()),
			Quarantine: defaultQuarantineFields(),
		},
		Normalize: NormalizeConfig{
			Substitutions: []normalize.Rule{},
			Filters:       []string{"READNFO", "READ.NFO", "OBFUSCATED", "iNTERNAL"},
		},
		Extensions: ExtensionsConfig{
			Allowed: []string{"mkv", "mp4", "avi", "ts", "m2ts", "mpg", "wmv", "mov"},
			Blocked: []string{"nfo", "srt", "sub", "idx", "txt", "jpg", "png", "sfv", "torrent", "part"},
		},
		ReleaseGroups: ReleaseGroupsConfig{
			AutoAdd:       true,
			AppendUnknown: false,
			Seed:          []string{},
		},
		Probe: ProbeConfig{
			Enabled:        true,
			Binary:         "ffprobe",
			TimeoutSeconds: 10,
		},
		Daemon: DaemonConfig{
			Enabled:       false,
			ScanFrequency: "5m",
			HealthAddr:    ":8787",
		},
		Options: OptionsConfig{
			DryRun:   false,
			Hardlink: true,
			Workers:  0,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}

func defaultQuarantineFields() []string {
	policy := slots.DefaultQuarantinePolicy()
	fields := make([]string, 0, len(policy))
	for field, forced := range policy {
		if forced {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return fields
}

// Load loads configuration from the default location or returns defaults
func Load() (*Config, error) {
	configPath, err := paths.ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("unable to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads configuration from an explicit file path. A missing file
// yields the defaults; a present but invalid one is a fatal error.
func LoadFrom(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with. Called at
// startup; failures are fatal rather than degraded.
func (c *Config) Validate() error {
	if c.Pipeline.Threshold < 0 || c.Pipeline.Threshold > 1 {
		return fmt.Errorf("pipeline.threshold must be within [0, 1], got %v", c.Pipeline.Threshold)
	}
	for field, weight := range c.Pipeline.Weights {
		if !slots.KnownField(field) {
			return fmt.Errorf("pipeline.weights: unknown field %q", field)
		}
		if weight < 0 {
			return fmt.Errorf("pipeline.weights: negative weight for %q", field)
		}
	}
	for _, field := range c.Pipeline.Quarantine {
		if !slots.KnownField(field) {
			return fmt.Errorf("pipeline.quarantine: unknown field %q", field)
		}
	}
	if _, err := normalize.NewEngine(c.Normalize.Substitutions, c.Normalize.Filters); err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	if c.Probe.TimeoutSeconds < 0 {
		return fmt.Errorf("probe.timeout_seconds must not be negative")
	}
	if c.Options.Workers < 0 {
		return fmt.Errorf("options.workers must not be negative")
	}
	return nil
}

// WeightTable merges the configured weights over the built-in defaults.
func (c *Config) WeightTable() slots.Weights {
	merged := slots.DefaultWeights()
	for field, weight := range c.Pipeline.Weights {
		merged[field] = weight
	}
	return merged
}

// QuarantinePolicy builds the forced-quarantine set from the config.
func (c *Config) QuarantinePolicy() slots.QuarantinePolicy {
	policy := make(slots.QuarantinePolicy, len(c.Pipeline.Quarantine))
	for _, field := range c.Pipeline.Quarantine {
		policy[field] = true
	}
	return policy
}

// QuarantineDir resolves the effective quarantine directory.
func (c *Config) QuarantineDir() string {
	if c.Library.Quarantine != "" {
		return c.Library.Quarantine
	}
	return filepath.Join(c.Library.Destination, ".quarantine")
}

// Save saves configuration to file
func (c *Config) Save() error {
	configFile, err := ConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("unable to create config dir: %w", err)
	}

	content := c.ToTOML()
	return os.WriteFile(configFile, []byte(content), 0644)
}

func ConfigPath() (string, error) {
	return paths.ConfigPath()
}

func ConfigExists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (c *Config) ToTOML() string {
	return fmt.Sprintf(`# SportWatch Configuration
# Generated by: sportwatch config init

# ============================================================================
# LIBRARY
# Where downloads arrive and where organized files go
# ============================================================================
[library]
# Directories where new sports releases land (from Sabnzbd, qBittorrent, etc.)
sources = %s

# Library root - files organized as: <League>/<Season>/<assembled name>.ext
destination = "%s"

# Quarantine directory for low-confidence files (empty = <destination>/.quarantine)
quarantine = "%s"

# ============================================================================
# PIPELINE
# Aggregate accept/quarantine decision
# ============================================================================
[pipeline]
# Minimum normalized score (0..1) to accept a file into the library
threshold = %.2f

# Fields that force quarantine when unresolved, regardless of score
quarantine = %s

# Relative weight of each slot in the aggregate score (0 = ignored)
[pipeline.weights]
%s
# ============================================================================
# NORMALIZE
# Global find/replace and filter rules applied before any extraction
# ============================================================================
[normalize]
filters = %s
%s
# ============================================================================
# EXTENSIONS
# ============================================================================
[extensions]
allowed = %s
blocked = %s

# ============================================================================
# RELEASE GROUPS
# Persistent registry of known release groups
# ============================================================================
[release_groups]
auto_add = %v
append_unknown = %v
seed = %s

# ============================================================================
# PROBE
# ffprobe fallback for codec/resolution/fps when filename text is silent
# ============================================================================
[probe]
enabled = %v
binary = "%s"
timeout_seconds = %d

# ============================================================================
# DAEMON SETTINGS
# For sportwatchd background service
# ============================================================================
[daemon]
enabled = %v
scan_frequency = "%s"
health_addr = "%s"

# ============================================================================
# GENERAL OPTIONS
# ============================================================================
[options]
# Preview mode - don't actually move files
dry_run = %v

# Hardlink into the library instead of moving (falls back to move across devices)
hardlink = %v

# Batch scan parallelism (0 = number of CPUs)
workers = %d

# ============================================================================
# LOGGING
# ============================================================================
[logging]
level = "%s"
file = "%s"
max_size_mb = %d
max_backups = %d
`,
		formatStringSlice(c.Library.Sources),
		c.Library.Destination,
		c.Library.Quarantine,
		c.Pipeline.Threshold,
		formatStringSlice(c.Pipeline.Quarantine),
		formatWeights(c.Pipeline.Weights),
		formatStringSlice(c.Normalize.Filters),
		formatSubstitutions(c.Normalize.Substitutions),
		formatStringSlice(c.Extensions.Allowed),
		formatStringSlice(c.Extensions.Blocked),
		c.ReleaseGroups.AutoAdd,
		c.ReleaseGroups.AppendUnknown,
		formatStringSlice(c.ReleaseGroups.Seed),
		c.Probe.Enabled,
		c.Probe.Binary,
		c.Probe.TimeoutSeconds,
		c.Daemon.Enabled,
		c.Daemon.ScanFrequency,
		c.Daemon.HealthAddr,
		c.Options.DryRun,
		c.Options.Hardlink,
		c.Options.Workers,
		c.Logging.Level,
		c.Logging.File,
		c.Logging.MaxSizeMB,
		c.Logging.MaxBackups,
	)
}

func formatStringSlice(s []string) string {
	if len(s) == 0 {
		return "[]"
	}
	quoted := make([]string, len(s))
	for i, v := range s {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func formatSubstitutions(subs []normalize.Rule) string {
	var b strings.Builder
	for _, rule := range subs {
		b.WriteString("\n[[normalize.substitutions]]\n")
		fmt.Fprintf(&b, "match = %q\n", rule.Match)
		fmt.Fprintf(&b, "replace = %q\n", rule.Replace)
		if rule.Regex {
			b.WriteString("regex = true\n")
		}
	}
	return b.String()
}

func formatWeights(weights map[string]int) string {
	// Emit in pipeline order so the generated file is stable.
	var b strings.Builder
	for _, field := range slots.Fields {
		if weight, ok := weights[field]; ok {
			fmt.Fprintf(&b, "%s = %d\n", field, weight)
		}
	}
	return b.String()
}
