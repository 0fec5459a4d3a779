// Package listdir maps list names to document paths and tracks which list
// is active. The registry lives in the settings file; documents live under
// <data>/lists.
package listdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/twiced-technology-gmbh/check/internal/activity"
	"github.com/twiced-technology-gmbh/check/internal/clierr"
	"github.com/twiced-technology-gmbh/check/internal/config"
	"github.com/twiced-technology-gmbh/check/internal/document"
	"github.com/twiced-technology-gmbh/check/internal/filelock"
	"github.com/twiced-technology-gmbh/check/internal/logging"
)

const documentExt = ".json"

var namePattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

// Directory is the registry of lists in one data directory.
type Directory struct {
	cfg    *config.Config
	logger *log.Logger
}

// New returns a Directory backed by cfg. A nil logger discards output.
func New(cfg *config.Config, logger *log.Logger) *Directory {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Directory{cfg: cfg, logger: logger}
}

// Config returns the settings the directory currently reflects.
func (d *Directory) Config() *config.Config { return d.cfg }

// ValidName checks a list name: lowercase letters and digits in groups
// joined by single underscores.
func ValidName(name string) error {
	if namePattern.MatchString(name) {
		return nil
	}
	return clierr.Newf(clierr.InvalidListName,
		"invalid list name %q (use lowercase letters, digits and single underscores)", name).
		WithDetails(map[string]any{"name": name})
}

// Path returns the document path for a list name.
func (d *Directory) Path(name string) string {
	return filepath.Join(d.cfg.ListsPath(), name+documentExt)
}

// Names returns the active list (possibly "") and the inactive lists.
func (d *Directory) Names() (active string, inactive []string) {
	return d.cfg.Lists.Active, slices.Clone(d.cfg.Lists.Inactive)
}

// Exists reports whether name is registered.
func (d *Directory) Exists(name string) bool {
	return registered(d.cfg, name)
}

// ActiveListPath returns the document path of the active list.
func (d *Directory) ActiveListPath() (string, error) {
	if d.cfg.Lists.Active == "" {
		return "", clierr.New(clierr.NoActiveList,
			"no active list (create one with: check todo new NAME)")
	}
	return d.Path(d.cfg.Lists.Active), nil
}

// Resolve returns the document path for name, or for the active list when
// name is empty.
func (d *Directory) Resolve(name string) (string, error) {
	if name == "" {
		return d.ActiveListPath()
	}
	if err := ValidName(name); err != nil {
		return "", err
	}
	if !registered(d.cfg, name) {
		return "", listNotFound(name)
	}
	return d.Path(name), nil
}

// Create writes an empty document for name and registers it. The list
// becomes active when use is set or when no list is active yet.
func (d *Directory) Create(name string, use bool) error {
	if err := ValidName(name); err != nil {
		return err
	}
	return d.mutate(func(cfg *config.Config) error {
		if registered(cfg, name) {
			return clierr.Newf(clierr.AlreadyExists, "list %q already exists", name).
				WithDetails(map[string]any{"name": name})
		}
		if err := document.CreateEmpty(d.Path(name), false); err != nil {
			return err
		}
		if use || cfg.Lists.Active == "" {
			activate(cfg, name)
		} else {
			cfg.Lists.Inactive = append(cfg.Lists.Inactive, name)
		}
		d.logger.Debug("created list", "list", name, "active", cfg.Lists.Active == name)
		return nil
	})
}

// Use makes name the active list. The previous active list becomes inactive.
func (d *Directory) Use(name string) error {
	if err := ValidName(name); err != nil {
		return err
	}
	return d.mutate(func(cfg *config.Config) error {
		if !registered(cfg, name) {
			return listNotFound(name)
		}
		if cfg.Lists.Active == name {
			return nil
		}
		activate(cfg, name)
		d.logger.Debug("switched list", "list", name)
		return nil
	})
}

// Remove unregisters an inactive list and moves its document (and activity
// log) into the deleted directory.
func (d *Directory) Remove(name string) error {
	if err := ValidName(name); err != nil {
		return err
	}
	return d.mutate(func(cfg *config.Config) error {
		if !registered(cfg, name) {
			return listNotFound(name)
		}
		if cfg.Lists.Active == name {
			return clierr.Newf(clierr.ListActive,
				"list %q is active; switch to another list first", name).
				WithDetails(map[string]any{"name": name})
		}

		src := d.Path(name)
		if err := os.MkdirAll(cfg.DeletedPath(), 0o750); err != nil {
			return fmt.Errorf("creating deleted directory: %w", err)
		}
		for _, p := range []string{src, activity.PathFor(src)} {
			dst := filepath.Join(cfg.DeletedPath(), filepath.Base(p))
			if err := os.Rename(p, dst); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("backing up %s: %w", filepath.Base(p), err)
			}
		}

		cfg.Lists.Inactive = slices.DeleteFunc(cfg.Lists.Inactive, func(s string) bool { return s == name })
		d.logger.Debug("removed list", "list", name, "backup", cfg.DeletedPath())
		return nil
	})
}

// mutate reloads the settings under the lock, applies fn and saves. The
// in-memory settings are only replaced after a successful save.
func (d *Directory) mutate(fn func(cfg *config.Config) error) error {
	return filelock.With(d.cfg.LockPath(), func() error {
		cfg, err := config.Load(d.cfg.Dir())
		if err != nil {
			return err
		}
		if err := fn(cfg); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		d.cfg = cfg
		return nil
	})
}

func registered(cfg *config.Config, name string) bool {
	return cfg.Lists.Active == name || slices.Contains(cfg.Lists.Inactive, name)
}

func activate(cfg *config.Config, name string) {
	cfg.Lists.Inactive = slices.DeleteFunc(cfg.Lists.Inactive, func(s string) bool { return s == name })
	if prev := cfg.Lists.Active; prev != "" && prev != name {
		cfg.Lists.Inactive = append(cfg.Lists.Inactive, prev)
	}
	cfg.Lists.Active = name
}

func listNotFound(name string) *clierr.Error {
	return clierr.Newf(clierr.ListNotFound, "list %q does not exist", name).
		WithDetails(map[string]any{"name": name})
}
