package config

import "fmt"

// migrate upgrades settings from their current version to CurrentVersion.
// Each migration function transforms the settings one version forward.
// Returns nil if no migration is needed (already at current version).
// Returns an error if the version is newer than what this binary supports.
func migrate(cfg *Config) error {
	if cfg.Version == CurrentVersion {
		return nil
	}
	if cfg.Version > CurrentVersion {
		return fmt.Errorf(
			"%w: settings version %d is newer than supported version %d (upgrade check)",
			ErrInvalid, cfg.Version, CurrentVersion,
		)
	}
	if cfg.Version < 1 {
		return fmt.Errorf("%w: settings version %d is invalid", ErrInvalid, cfg.Version)
	}

	for cfg.Version < CurrentVersion {
		fn, ok := migrations[cfg.Version]
		if !ok {
			return fmt.Errorf("%w: no migration path from version %d", ErrInvalid, cfg.Version)
		}
		if err := fn(cfg); err != nil {
			return fmt.Errorf("migrating settings from v%d: %w", cfg.Version, err)
		}
	}

	return nil
}

// migrations maps each version to the function that migrates it to the next version.
// The migration function must increment cfg.Version after a successful migration.
var migrations = map[int]func(*Config) error{
	1: migrateV1ToV2,
}

// migrateV1ToV2 adds the lists section and fills display settings that
// version 1 files did not carry.
func migrateV1ToV2(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	if cfg.Lists.Inactive == nil {
		cfg.Lists.Inactive = []string{}
	}
	if cfg.Deadline.Warning == (WarningConfig{}) {
		cfg.Deadline.Warning = DefaultDeadline.Warning
	}
	if cfg.Deadline.Colors == (DeadlineColors{}) {
		cfg.Deadline.Colors = DefaultDeadline.Colors
	}
	if cfg.IsDone.Colors == (DoneColors{}) {
		cfg.IsDone = DefaultIsDone
	}
	if len(cfg.Priorities) == 0 {
		cfg.Priorities = append([]Option{}, DefaultPriorities...)
	}
	if len(cfg.Sizes) == 0 {
		cfg.Sizes = append([]Option{}, DefaultSizes...)
	}
	if cfg.Defaults.Priority == "" {
		cfg.Defaults.Priority = fallbackDefault(cfg.PriorityNames(), DefaultPriority)
	}
	if cfg.Defaults.Size == "" {
		cfg.Defaults.Size = fallbackDefault(cfg.SizeNames(), DefaultSize)
	}
	cfg.Version = 2
	return nil
}

// fallbackDefault returns preferred if it is configured, else the first name.
func fallbackDefault(names []string, preferred string) string {
	if contains(names, preferred) {
		return preferred
	}
	return names[0]
}
