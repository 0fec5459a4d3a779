package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"go.yaml.in/yaml/v3"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no settings found (run any check command to create them)")
	ErrInvalid  = errors.New("invalid settings")
)

// Config represents the check settings file.
type Config struct {
	Version    int            `yaml:"version"`
	Lists      ListsConfig    `yaml:"lists"`
	Priorities []Option       `yaml:"priorities"`
	Sizes      []Option       `yaml:"sizes"`
	Defaults   DefaultsConfig `yaml:"defaults"`
	Deadline   DeadlineConfig `yaml:"deadline"`
	IsDone     DoneConfig     `yaml:"is_done"`

	// dir is the absolute path to the data directory (not serialized).
	dir string `yaml:"-"`
}

// ListsConfig records which list is active and which others exist.
type ListsConfig struct {
	Active   string   `yaml:"active"`
	Inactive []string `yaml:"inactive"`
}

// Option is one member of a closed set (priority or size) and its display color.
type Option struct {
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color" json:"color"` // ANSI 256 color code, e.g. "34", "226", "196"
}

// UnmarshalYAML allows an Option to be written as a plain string ("low")
// or as a mapping ({name: low, color: "34"}).
func (o *Option) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		o.Name = value.Value
		return nil
	}
	type plain Option
	return value.Decode((*plain)(o))
}

// DefaultsConfig holds default values for new tasks.
type DefaultsConfig struct {
	Priority string `yaml:"priority"`
	Size     string `yaml:"size"`
}

// DeadlineConfig controls deadline coloring.
type DeadlineConfig struct {
	Colors  DeadlineColors `yaml:"colors"`
	Warning WarningConfig  `yaml:"warning"`
}

// DeadlineColors maps each deadline state to an ANSI color code.
type DeadlineColors struct {
	Critical string `yaml:"critical" json:"critical"`
	Urgent   string `yaml:"urgent" json:"urgent"`
	Healthy  string `yaml:"healthy" json:"healthy"`
	None     string `yaml:"none" json:"none"`
}

// WarningConfig holds the fractions of the creation-to-deadline window below
// which a deadline turns urgent or critical.
type WarningConfig struct {
	Critical float64 `yaml:"critical" json:"critical"`
	Urgent   float64 `yaml:"urgent" json:"urgent"`
}

// DoneConfig controls the is_done column colors.
type DoneConfig struct {
	Colors DoneColors `yaml:"colors"`
}

// DoneColors maps "yes"/"no" to ANSI color codes.
type DoneColors struct {
	Yes string `yaml:"yes" json:"yes"`
	No  string `yaml:"no" json:"no"`
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version:    CurrentVersion,
		Lists:      ListsConfig{Inactive: []string{}},
		Priorities: append([]Option{}, DefaultPriorities...),
		Sizes:      append([]Option{}, DefaultSizes...),
		Defaults: DefaultsConfig{
			Priority: DefaultPriority,
			Size:     DefaultSize,
		},
		Deadline: DefaultDeadline,
		IsDone:   DefaultIsDone,
	}
}

// DataDir returns the data directory: $CHECK_HOME if set, otherwise
// %LOCALAPPDATA%\check\data on Windows and ~/.local/share/check/data elsewhere.
func DataDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return filepath.Abs(dir)
	}
	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "check", "data"), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "check", "data"), nil
}

// Dir returns the absolute path to the data directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the data directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// SettingsPath returns the absolute path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.dir, SettingsFileName)
}

// ListsPath returns the directory holding list documents.
func (c *Config) ListsPath() string {
	return filepath.Join(c.dir, ListsDirName)
}

// DeletedPath returns the directory receiving removed list documents.
func (c *Config) DeletedPath() string {
	return filepath.Join(c.dir, DeletedDirName)
}

// LockPath returns the path of the settings lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.dir, LockFileName)
}

// PriorityNames returns the configured priorities in order.
func (c *Config) PriorityNames() []string {
	return optionNames(c.Priorities)
}

// SizeNames returns the configured sizes in order.
func (c *Config) SizeNames() []string {
	return optionNames(c.Sizes)
}

// PriorityIndex returns the index of a priority in the configured order, or -1.
func (c *Config) PriorityIndex(priority string) int {
	return IndexOf(c.PriorityNames(), priority)
}

// SizeIndex returns the index of a size in the configured order, or -1.
func (c *Config) SizeIndex(size string) int {
	return IndexOf(c.SizeNames(), size)
}

// PriorityColor returns the color configured for a priority, or "".
func (c *Config) PriorityColor(priority string) string {
	return optionColor(c.Priorities, priority)
}

// SizeColor returns the color configured for a size, or "".
func (c *Config) SizeColor(size string) string {
	return optionColor(c.Sizes, size)
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if err := validateOptions("priorities", c.Priorities); err != nil {
		return err
	}
	if err := validateOptions("sizes", c.Sizes); err != nil {
		return err
	}
	if !contains(c.PriorityNames(), c.Defaults.Priority) {
		return fmt.Errorf("%w: default priority %q not in priorities list", ErrInvalid, c.Defaults.Priority)
	}
	if !contains(c.SizeNames(), c.Defaults.Size) {
		return fmt.Errorf("%w: default size %q not in sizes list", ErrInvalid, c.Defaults.Size)
	}
	if err := c.validateWarning(); err != nil {
		return err
	}
	return c.validateLists()
}

func (c *Config) validateWarning() error {
	w := c.Deadline.Warning
	if w.Critical < 0 || w.Urgent > 1 || w.Critical > w.Urgent {
		return fmt.Errorf("%w: deadline.warning must satisfy 0 <= critical <= urgent <= 1", ErrInvalid)
	}
	return nil
}

func (c *Config) validateLists() error {
	if hasDuplicates(c.Lists.Inactive) {
		return fmt.Errorf("%w: lists.inactive contains duplicates", ErrInvalid)
	}
	if c.Lists.Active != "" && contains(c.Lists.Inactive, c.Lists.Active) {
		return fmt.Errorf("%w: list %q is both active and inactive", ErrInvalid, c.Lists.Active)
	}
	return nil
}

func validateOptions(field string, opts []Option) error {
	if len(opts) < 1 {
		return fmt.Errorf("%w: at least 1 entry is required in %s", ErrInvalid, field)
	}
	names := optionNames(opts)
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("%w: %s contains an empty name", ErrInvalid, field)
		}
	}
	if hasDuplicates(names) {
		return fmt.Errorf("%w: %s contain duplicates", ErrInvalid, field)
	}
	return nil
}

// Ensure prepares the data directory: it creates the directory layout and a
// default settings file when missing, then loads the settings.
func Ensure(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	for _, d := range []string{
		absDir,
		filepath.Join(absDir, ListsDirName),
		filepath.Join(absDir, DeletedDirName),
	} {
		if err := os.MkdirAll(d, dirMode); err != nil {
			return nil, fmt.Errorf("creating %s: %w", d, err)
		}
	}

	cfg, err := Load(absDir)
	if !errors.Is(err, ErrNotFound) {
		return cfg, err
	}

	cfg = NewDefault()
	cfg.SetDir(absDir)
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing settings: %w", err)
	}
	return cfg, nil
}

// Save writes the config to its settings file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	return os.WriteFile(c.SettingsPath(), data, fileMode)
}

// Load reads and validates the settings from the given data directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, SettingsFileName)
	data, err := os.ReadFile(path) //nolint:gosec // settings path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}

	cfg.dir = absDir

	// Migrate old settings versions forward before validating.
	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated settings so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated settings: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func optionNames(opts []Option) []string {
	names := make([]string, len(opts))
	for i, o := range opts {
		names[i] = o.Name
	}
	return names
}

func optionColor(opts []Option, name string) string {
	for _, o := range opts {
		if o.Name == name {
			return o.Color
		}
	}
	return ""
}

func contains(slice []string, item string) bool {
	return IndexOf(slice, item) >= 0
}

// IndexOf returns the index of item in slice, or -1 if not found.
func IndexOf(slice []string, item string) int {
	for i, s := range slice {
		if s == item {
			return i
		}
	}
	return -1
}

func hasDuplicates(slice []string) bool {
	seen := make(map[string]bool, len(slice))
	for _, s := range slice {
		if seen[s] {
			return true
		}
		seen[s] = true
	}
	return false
}
