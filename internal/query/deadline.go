package query

import (
	"github.com/twiced-technology-gmbh/check/internal/config"
	"github.com/twiced-technology-gmbh/check/internal/date"
	"github.com/twiced-technology-gmbh/check/internal/task"
)

// Urgency classifies how close a deadline is.
type Urgency string

// Urgency levels, matching the keys of deadline.colors in the settings.
const (
	UrgencyNone     Urgency = "none"
	UrgencyHealthy  Urgency = "healthy"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyCritical Urgency = "critical"
)

// DeadlineState rates a task's deadline by the share of the
// creation-to-deadline window still left. Done tasks are always healthy;
// overdue and due-today tasks are critical.
func DeadlineState(t *task.Task, w config.WarningConfig, today date.Date) Urgency {
	if t.Deadline == nil {
		return UrgencyNone
	}
	if t.Category == task.Done {
		return UrgencyHealthy
	}

	remaining := today.DaysUntil(*t.Deadline)
	if remaining <= 0 {
		return UrgencyCritical
	}
	window := t.Created.DaysUntil(*t.Deadline)
	if window <= 0 {
		return UrgencyCritical
	}

	left := float64(remaining) / float64(window)
	switch {
	case left <= w.Critical:
		return UrgencyCritical
	case left <= w.Urgent:
		return UrgencyUrgent
	default:
		return UrgencyHealthy
	}
}

// Color returns the configured color for an urgency level.
func (u Urgency) Color(colors config.DeadlineColors) string {
	switch u {
	case UrgencyCritical:
		return colors.Critical
	case UrgencyUrgent:
		return colors.Urgent
	case UrgencyHealthy:
		return colors.Healthy
	default:
		return colors.None
	}
}
