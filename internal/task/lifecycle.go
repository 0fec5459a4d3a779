package task

import (
	"github.com/twiced-technology-gmbh/check/internal/date"
)

// UpdateCompletion keeps Completed and IsComplete consistent with a category
// transition.
//   - Sets Completed to today on a move into Done.
//   - Clears Completed and IsComplete on a move out of Done (reopening).
func UpdateCompletion(t *Task, oldCategory, newCategory Category, today date.Date) {
	switch {
	case newCategory == Done && oldCategory != Done:
		t.Completed = &today
		t.IsComplete = true
	case oldCategory == Done && newCategory != Done:
		t.Completed = nil
		t.IsComplete = false
	}
}
