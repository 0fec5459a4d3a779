package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/check/internal/clierr"
	"github.com/twiced-technology-gmbh/check/internal/config"
	"github.com/twiced-technology-gmbh/check/internal/filelock"
	"github.com/twiced-technology-gmbh/check/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify settings",
	Long: `View the full settings, get a specific key, or set a writable value.
Settings live in settings.yml in the data directory ($CHECK_HOME).`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a settings value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a settings value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a settings key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"data_dir": {
			get: func(c *config.Config) any { return c.Dir() },
		},
		"lists.active": {
			get: func(c *config.Config) any { return c.Lists.Active },
		},
		"lists.inactive": {
			get: func(c *config.Config) any { return c.Lists.Inactive },
		},
		"priorities": {
			get: func(c *config.Config) any { return c.PriorityNames() },
		},
		"sizes": {
			get: func(c *config.Config) any { return c.SizeNames() },
		},
		"defaults.priority": {
			get: func(c *config.Config) any { return c.Defaults.Priority },
			set: func(c *config.Config, v string) error {
				if c.PriorityIndex(v) < 0 {
					return clierr.Newf(clierr.InvalidOption,
						"invalid default priority %q; allowed: %s", v, strings.Join(c.PriorityNames(), ", "))
				}
				c.Defaults.Priority = v
				return nil
			},
			writable: true,
		},
		"defaults.size": {
			get: func(c *config.Config) any { return c.Defaults.Size },
			set: func(c *config.Config, v string) error {
				if c.SizeIndex(v) < 0 {
					return clierr.Newf(clierr.InvalidOption,
						"invalid default size %q; allowed: %s", v, strings.Join(c.SizeNames(), ", "))
				}
				c.Defaults.Size = v
				return nil
			},
			writable: true,
		},
		"deadline.warning.critical": {
			get: func(c *config.Config) any { return c.Deadline.Warning.Critical },
			set: func(c *config.Config, v string) error {
				return setFraction(&c.Deadline.Warning.Critical, "deadline.warning.critical", v)
			},
			writable: true,
		},
		"deadline.warning.urgent": {
			get: func(c *config.Config) any { return c.Deadline.Warning.Urgent },
			set: func(c *config.Config, v string) error {
				return setFraction(&c.Deadline.Warning.Urgent, "deadline.warning.urgent", v)
			},
			writable: true,
		},
		"deadline.colors": {
			get: func(c *config.Config) any { return c.Deadline.Colors },
		},
		"is_done.colors": {
			get: func(c *config.Config) any { return c.IsDone.Colors },
		},
	}
}

func setFraction(dst *float64, key, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return clierr.Newf(clierr.InvalidInput, "invalid %s %q: must be a number", key, v)
	}
	*dst = f
	return nil // validation handles range check
}

// allConfigKeys returns settings keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"data_dir",
		"lists.active",
		"lists.inactive",
		"priorities",
		"sizes",
		"defaults.priority",
		"defaults.size",
		"deadline.warning.critical",
		"deadline.warning.urgent",
		"deadline.colors",
		"is_done.colors",
	}
}

func loadSettings() (*config.Config, error) {
	dir, err := openDirectory()
	if err != nil {
		return nil, err
	}
	return dir.Config(), nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		val := accessors[key].get(cfg)
		fmt.Fprintf(os.Stdout, "%-26s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}

	val := acc.get(cfg)
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}
	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	// Reload under the lock so a concurrent list switch is not lost.
	err = filelock.With(cfg.LockPath(), func() error {
		fresh, err := config.Load(cfg.Dir())
		if err != nil {
			return err
		}
		if err := acc.set(fresh, value); err != nil {
			return err
		}
		if err := fresh.Validate(); err != nil {
			return clierr.New(clierr.InvalidInput, err.Error())
		}
		if err := fresh.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		cfg = fresh
		return nil
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}
	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		if len(v) == 0 {
			return "--"
		}
		return strings.Join(v, ", ")
	case string:
		if v == "" {
			return "--"
		}
		return v
	case config.DeadlineColors:
		return fmt.Sprintf("critical=%s urgent=%s healthy=%s none=%s", v.Critical, v.Urgent, v.Healthy, v.None)
	case config.DoneColors:
		return fmt.Sprintf("yes=%s no=%s", v.Yes, v.No)
	default:
		return fmt.Sprintf("%v", v)
	}
}
