package query

import (
	"maps"
	"slices"

	"github.com/twiced-technology-gmbh/check/internal/config"
	"github.com/twiced-technology-gmbh/check/internal/date"
	"github.com/twiced-technology-gmbh/check/internal/document"
	"github.com/twiced-technology-gmbh/check/internal/task"
)

// CategorySummary holds metrics for one category.
type CategorySummary struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Overdue  int    `json:"overdue"`
}

// OptionCount counts tasks with one priority or size.
type OptionCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary is the aggregate view of one list.
type Summary struct {
	List       string            `json:"list"`
	IDCount    int               `json:"id_count"`
	TotalTasks int               `json:"total_tasks"`
	Overdue    int               `json:"overdue"`
	Categories []CategorySummary `json:"categories"`
	Priorities []OptionCount     `json:"priorities"`
	Sizes      []OptionCount     `json:"sizes"`
}

// Summarize computes the summary of a document. A task is overdue when its
// deadline is before today and it is not done.
func Summarize(list string, doc *document.Document, cfg *config.Config, today date.Date) Summary {
	s := Summary{
		List:    list,
		IDCount: int(doc.IDCount),
	}

	prio := make(map[string]int)
	sizes := make(map[string]int)
	for _, c := range task.Categories {
		cs := CategorySummary{Category: c.String()}
		for _, t := range doc.Tasks(c) {
			cs.Count++
			if Overdue(t, today) {
				cs.Overdue++
			}
			prio[t.Priority]++
			sizes[t.Size]++
		}
		s.TotalTasks += cs.Count
		s.Overdue += cs.Overdue
		s.Categories = append(s.Categories, cs)
	}

	s.Priorities = optionCounts(cfg.PriorityNames(), prio)
	s.Sizes = optionCounts(cfg.SizeNames(), sizes)
	return s
}

// Overdue reports whether an unfinished task's deadline has passed.
func Overdue(t *task.Task, today date.Date) bool {
	return t.Deadline != nil && t.Category != task.Done && t.Deadline.Before(today)
}

// optionCounts lists the configured names in order, followed by any value
// found in the document but no longer configured.
func optionCounts(names []string, counts map[string]int) []OptionCount {
	out := make([]OptionCount, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		out = append(out, OptionCount{Name: n, Count: counts[n]})
		seen[n] = true
	}
	for _, n := range slices.Sorted(maps.Keys(counts)) {
		if !seen[n] {
			out = append(out, OptionCount{Name: n, Count: counts[n]})
		}
	}
	return out
}
