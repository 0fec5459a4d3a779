package query

import (
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/check/internal/clierr"
	"github.com/twiced-technology-gmbh/check/internal/config"
	"github.com/twiced-technology-gmbh/check/internal/date"
	"github.com/twiced-technology-gmbh/check/internal/task"
)

// GroupFields lists the fields a summary can be grouped by.
var GroupFields = []string{"priority", "size"}

// Group is one bucket of a grouped summary.
type Group struct {
	Key        string            `json:"key"`
	Categories []CategorySummary `json:"categories"`
	Total      int               `json:"total"`
}

// ValidateGroupField rejects unknown group-by fields.
func ValidateGroupField(field string) error {
	if slices.Contains(GroupFields, field) {
		return nil
	}
	return clierr.Newf(clierr.InvalidInput, "invalid group-by field %q (allowed: %s)",
		field, strings.Join(GroupFields, ", ")).
		WithDetails(map[string]any{"field": field, "allowed": GroupFields})
}

// GroupBy buckets tasks by priority or size and counts each bucket per
// category. Groups follow the configured order; unconfigured values go last.
func GroupBy(tasks []*task.Task, field string, cfg *config.Config, today date.Date) []Group {
	buckets := make(map[string][]*task.Task)
	for _, t := range tasks {
		key := t.Priority
		if field == "size" {
			key = t.Size
		}
		buckets[key] = append(buckets[key], t)
	}

	order := cfg.PriorityNames()
	if field == "size" {
		order = cfg.SizeNames()
	}
	var keys []string
	for _, k := range order {
		if _, ok := buckets[k]; ok {
			keys = append(keys, k)
		}
	}
	var extra []string
	for k := range buckets {
		if !slices.Contains(order, k) {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	keys = append(keys, extra...)

	groups := make([]Group, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, Group{
			Key:        k,
			Categories: categoryCounts(buckets[k], today),
			Total:      len(buckets[k]),
		})
	}
	return groups
}

func categoryCounts(tasks []*task.Task, today date.Date) []CategorySummary {
	out := make([]CategorySummary, len(task.Categories))
	for i, c := range task.Categories {
		out[i].Category = c.String()
	}
	for _, t := range tasks {
		out[t.Category].Count++
		if Overdue(t, today) {
			out[t.Category].Overdue++
		}
	}
	return out
}
