// Package config loads the flashgrid configuration file.
//
// YAML is the primary format; files ending in .toml are decoded as TOML with
// the same keys. Environment variables override the file and CLI flags
// override both; the latter is applied by the cli package.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rshade/flashgrid/internal/logging"
)

// Environment variables read by ApplyEnv.
const (
	EnvLogLevel  = "FLASHGRID_LOG_LEVEL"
	EnvLogFormat = "FLASHGRID_LOG_FORMAT"
	EnvLogFile   = "FLASHGRID_LOG_FILE"
)

// SupportedVersions is the constraint a config file's version must satisfy.
const SupportedVersions = "^1"

// CurrentVersion is written by Default.
const CurrentVersion = "1.0.0"

// Sentinel errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported config format")
	ErrInvalidConfig     = errors.New("invalid config")
)

// Config is the root of the configuration file.
type Config struct {
	Version string         `yaml:"version"           toml:"version"`
	Grid    GridConfig     `yaml:"grid"              toml:"grid"`
	Flash   FlashConfig    `yaml:"flash"             toml:"flash"`
	Columns []ColumnConfig `yaml:"columns,omitempty" toml:"columns"`
	Logging LoggingConfig  `yaml:"logging"           toml:"logging"`
}

// GridConfig holds controller settings.
type GridConfig struct {
	// DisableFlash turns off snapshotting and highlighting.
	DisableFlash bool `yaml:"disable_flash" toml:"disable_flash"`
	// RowIDField is a dotted path used as row identity instead of "id".
	RowIDField string `yaml:"row_id_field,omitempty" toml:"row_id_field"`
	// DiffMode is "index" (default) or "identity".
	DiffMode string `yaml:"diff_mode,omitempty" toml:"diff_mode"`
	// Height caps the interactive grid height in lines. Zero uses the window.
	Height int `yaml:"height,omitempty" toml:"height"`
	// Container styles the box drawn around the whole grid.
	Container ContainerConfig `yaml:"container,omitempty" toml:"container"`
}

// ContainerConfig is passed through to the grid's outer box. Padding takes
// one, two or four values, in the order lipgloss expects.
type ContainerConfig struct {
	Border      string `yaml:"border,omitempty"       toml:"border"`
	BorderColor string `yaml:"border_color,omitempty" toml:"border_color"`
	Padding     []int  `yaml:"padding,omitempty"      toml:"padding"`
}

// FlashConfig holds the highlight delays in milliseconds.
type FlashConfig struct {
	LeadMS int `yaml:"lead_ms" toml:"lead_ms"`
	HoldMS int `yaml:"hold_ms" toml:"hold_ms"`
}

// ColumnConfig describes one column.
type ColumnConfig struct {
	Field    string `yaml:"field"              toml:"field"`
	Header   string `yaml:"header,omitempty"   toml:"header"`
	Template string `yaml:"template,omitempty" toml:"template"`
	Renderer string `yaml:"renderer,omitempty" toml:"renderer"`
	// Format is a printf verb string applied to the raw value, e.g. "%.2f".
	Format  string      `yaml:"format,omitempty"  toml:"format"`
	Width   int         `yaml:"width,omitempty"   toml:"width"`
	Classes []ClassRule `yaml:"classes,omitempty" toml:"classes"`
}

// ClassRule assigns Class to a cell when its value matches. Exactly one of
// Equals, Above or Below should be set; the first matching rule wins.
type ClassRule struct {
	Equals *string  `yaml:"equals,omitempty" toml:"equals"`
	Above  *float64 `yaml:"above,omitempty"  toml:"above"`
	Below  *float64 `yaml:"below,omitempty"  toml:"below"`
	Class  string   `yaml:"class"            toml:"class"`
}

// LoggingConfig is the logging section.
type LoggingConfig struct {
	Level  string `yaml:"level"          toml:"level"`
	Format string `yaml:"format"         toml:"format"`
	File   string `yaml:"file,omitempty" toml:"file"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Grid:    GridConfig{DiffMode: "index"},
		Flash:   FlashConfig{LeadMS: 10, HoldMS: 1000},
		Logging: LoggingConfig{Level: "info", Format: logging.FormatConsole},
	}
}

// Load reads path on top of Default. The format is picked by extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parsing config %s: unknown keys %v: %w", path, undecoded, ErrInvalidConfig)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	return cfg, nil
}

// ApplyEnv overrides logging settings from the environment.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookupEnv(EnvLogFile); ok && v != "" {
		c.Logging.File = v
	}
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Version != "" {
		v, err := semver.NewVersion(c.Version)
		if err != nil {
			errs = append(errs, fmt.Errorf("version %q: %w", c.Version, err))
		} else {
			constraint, _ := semver.NewConstraint(SupportedVersions)
			if !constraint.Check(v) {
				errs = append(errs, fmt.Errorf("version %s does not satisfy %s", v, SupportedVersions))
			}
		}
	}

	switch c.Grid.DiffMode {
	case "", "index", "identity":
	default:
		errs = append(errs, fmt.Errorf("grid.diff_mode %q: want index or identity", c.Grid.DiffMode))
	}
	if c.Grid.Height < 0 {
		errs = append(errs, fmt.Errorf("grid.height must be >= 0, got %d", c.Grid.Height))
	}
	if c.Flash.LeadMS < 0 || c.Flash.HoldMS < 0 {
		errs = append(errs, fmt.Errorf("flash delays must be >= 0, got lead=%d hold=%d", c.Flash.LeadMS, c.Flash.HoldMS))
	}
	if c.Flash.HoldMS == 0 {
		errs = append(errs, errors.New("flash.hold_ms must be > 0, a zero hold never shows the highlight"))
	}
	errs = append(errs, c.Grid.Container.validate()...)

	seen := make(map[string]bool, len(c.Columns))
	for i, col := range c.Columns {
		if col.Field == "" {
			errs = append(errs, fmt.Errorf("columns[%d]: field is required", i))
			continue
		}
		if seen[col.Field] {
			errs = append(errs, fmt.Errorf("columns[%d]: duplicate field %q", i, col.Field))
		}
		seen[col.Field] = true
		if col.Width < 0 {
			errs = append(errs, fmt.Errorf("columns[%d]: width must be >= 0", i))
		}
		for j, rule := range col.Classes {
			if rule.Class == "" {
				errs = append(errs, fmt.Errorf("columns[%d].classes[%d]: class is required", i, j))
			}
			if rule.Equals == nil && rule.Above == nil && rule.Below == nil {
				errs = append(errs, fmt.Errorf("columns[%d].classes[%d]: one of equals, above, below is required", i, j))
			}
		}
	}

	switch c.Logging.Format {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("logging.format %q: want console or json", c.Logging.Format))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// ToLoggingConfig converts the logging section for the logging package.
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}
