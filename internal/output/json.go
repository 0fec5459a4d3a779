package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/twiced-technology-gmbh/check/internal/task"
)

// JSON writes data as indented JSON to the given writer.
func JSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorResponse is the JSON envelope for structured error output.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// JSONError writes a structured error to the given writer as JSON.
func JSONError(w io.Writer, code, msg string, details map[string]any) {
	_ = JSON(w, ErrorResponse{Error: msg, Code: code, Details: details})
}

// BatchResult represents the outcome for one ID of a multi-ID command.
type BatchResult struct {
	ID    task.ID `json:"id"`
	OK    bool    `json:"ok"`
	Error string  `json:"error,omitempty"`
	Code  string  `json:"code,omitempty"`
}

// MoveResult is the JSON form of a move: the task and whether it changed.
type MoveResult struct {
	Task    *task.Task `json:"task"`
	Changed bool       `json:"changed"`
}

// Lists is the JSON form of the list registry.
type Lists struct {
	Active   string   `json:"active"`
	Inactive []string `json:"inactive"`
}
