package task

import (
	"strings"

	"github.com/twiced-technology-gmbh/check/internal/clierr"
	"github.com/twiced-technology-gmbh/check/internal/date"
)

// NoneValue is the placeholder used for absent optional fields, both as
// command-line input ("--deadline none") and in search matching.
const NoneValue = "None"

// IsNone reports whether s means "no value" for an optional field.
func IsNone(s string) bool {
	return s == "" || strings.EqualFold(s, NoneValue)
}

// ValidateOption checks that value is one of the allowed names for field
// (priority or size).
func ValidateOption(field, value string, allowed []string) error {
	for _, a := range allowed {
		if a == value {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidOption, "invalid %s %q (allowed: %s)",
		field, value, strings.Join(allowed, ", ")).
		WithDetails(map[string]any{
			"field":   field,
			"value":   value,
			"allowed": allowed,
		})
}

// ValidateText checks that a required text field is not blank.
func ValidateText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return clierr.Newf(clierr.InvalidInput, "%s must not be empty", field).
			WithDetails(map[string]any{"field": field})
	}
	return nil
}

// ParseDeadline parses a YYYY-MM-DD deadline and rejects dates before today.
func ParseDeadline(input string, today date.Date) (date.Date, error) {
	d, err := date.Parse(input)
	if err != nil {
		return date.Date{}, clierr.Newf(clierr.InvalidDeadline, "invalid deadline: %v", err).
			WithDetails(map[string]any{"input": input})
	}
	if d.Before(today) {
		return date.Date{}, clierr.Newf(clierr.InvalidDeadline,
			"deadline %s is in the past (today is %s)", d, today).
			WithDetails(map[string]any{
				"input": input,
				"today": today.String(),
			})
	}
	return d, nil
}

// ValidateTaskID returns a CLIError for invalid task ID input.
func ValidateTaskID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// NotFound returns the error for an ID present in no category.
func NotFound(id ID) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task not found: #%d", id).
		WithDetails(map[string]any{"id": id.String()})
}

// NotInCategory returns the error for an operation that requires the task to
// be in a specific category.
func NotInCategory(id ID, want Category) *clierr.Error {
	return clierr.Newf(clierr.NotInCategory, "there is no task #%d in %q", id, want.String()).
		WithDetails(map[string]any{
			"id":       id.String(),
			"category": want.String(),
		})
}

// AlreadyComplete returns the error for completing a task that is already done.
func AlreadyComplete(id ID) *clierr.Error {
	return clierr.Newf(clierr.AlreadyComplete, "task #%d is already done", id).
		WithDetails(map[string]any{"id": id.String()})
}
