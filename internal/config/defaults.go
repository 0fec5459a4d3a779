// Package config handles the check settings file and data directory layout.
package config

const (
	// DefaultPriority is the default priority for new tasks.
	DefaultPriority = "medium"
	// DefaultSize is the default size for new tasks.
	DefaultSize = "medium"

	// SettingsFileName is the name of the settings file within the data directory.
	SettingsFileName = "settings.yml"
	// ListsDirName holds one JSON document per list.
	ListsDirName = "lists"
	// DeletedDirName receives documents of removed lists.
	DeletedDirName = "deleted"
	// LockFileName serializes settings mutations across processes.
	LockFileName = ".lock"

	// CurrentVersion is the current settings schema version.
	CurrentVersion = 2

	// EnvHome overrides the data directory.
	EnvHome = "CHECK_HOME"
)

// Default slice values for new settings (slices cannot be const).
var (
	DefaultPriorities = []Option{
		{Name: "low", Color: "34"},
		{Name: "medium", Color: "226"},
		{Name: "high", Color: "196"},
		{Name: "critical", Color: "196"},
	}

	DefaultSizes = []Option{
		{Name: "small", Color: "34"},
		{Name: "medium", Color: "226"},
		{Name: "large", Color: "196"},
	}

	// DefaultDeadline colors deadlines by how much of the window between
	// creation and deadline is left.
	DefaultDeadline = DeadlineConfig{
		Colors: DeadlineColors{
			Critical: "196",
			Urgent:   "226",
			Healthy:  "34",
			None:     "252",
		},
		Warning: WarningConfig{
			Critical: 0.2, //nolint:mnd // fraction of the window left
			Urgent:   0.4, //nolint:mnd // fraction of the window left
		},
	}

	DefaultIsDone = DoneConfig{
		Colors: DoneColors{Yes: "34", No: "196"},
	}
)
