package query

import (
	"slices"
	"sort"
	"strings"

	"github.com/twiced-technology-gmbh/check/internal/clierr"
	"github.com/twiced-technology-gmbh/check/internal/config"
	"github.com/twiced-technology-gmbh/check/internal/task"
)

// SortFields lists the accepted sort keys.
var SortFields = []string{"id", "priority", "size", "deadline", "created"}

// ValidateSortField rejects unknown sort keys.
func ValidateSortField(field string) error {
	if field == "" || slices.Contains(SortFields, field) {
		return nil
	}
	return clierr.Newf(clierr.InvalidInput, "invalid sort field %q (allowed: %s)",
		field, strings.Join(SortFields, ", ")).
		WithDetails(map[string]any{"field": field, "allowed": SortFields})
}

// Sort sorts tasks in place. Priority and size follow the configured order
// (not alphabetical); tasks without a deadline sort last.
func Sort(tasks []*task.Task, field string, reverse bool, cfg *config.Config) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if reverse {
			return less(tasks[j], tasks[i], field, cfg)
		}
		return less(tasks[i], tasks[j], field, cfg)
	})
}

func less(a, b *task.Task, field string, cfg *config.Config) bool {
	switch field {
	case "priority":
		return cfg.PriorityIndex(a.Priority) < cfg.PriorityIndex(b.Priority)
	case "size":
		return cfg.SizeIndex(a.Size) < cfg.SizeIndex(b.Size)
	case "created":
		return a.Created.Before(b.Created)
	case "deadline":
		return deadlineLess(a, b)
	default:
		return a.ID < b.ID
	}
}

func deadlineLess(a, b *task.Task) bool {
	switch {
	case a.Deadline == nil:
		return false
	case b.Deadline == nil:
		return true
	default:
		return a.Deadline.Before(*b.Deadline)
	}
}
