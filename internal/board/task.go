// Package board holds the task board's data model: tasks grouped into
// three workflow columns, the repository that owns the in-memory task
// collection, and the append-only tag-up log.
package board

import (
	"errors"
	"strconv"
	"strings"
)

// ErrEmptyDesc rejects tasks whose trimmed description is empty. It is
// the only intake validation the board performs.
var ErrEmptyDesc = errors.New("board: empty task description")

// Task is a single board item.
type Task struct {
	ID       int64  `json:"id"`
	Desc     string `json:"desc"`
	Assignee string `json:"assignee"`
	Status   Status `json:"status"`
}

// NewTask builds a task in the todo column. The description is trimmed
// and must be non-empty; the assignee may be blank.
func NewTask(id int64, desc, assignee string) (Task, error) {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return Task{}, ErrEmptyDesc
	}
	return Task{
		ID:       id,
		Desc:     desc,
		Assignee: assignee,
		Status:   StatusTodo,
	}, nil
}

// ParseID decodes a drag-payload id into the task id's canonical type.
// Payloads travel as plain text; decoding here keeps the repository free
// of string/number comparisons.
func ParseID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

// FormatID renders a task id as a drag payload.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
