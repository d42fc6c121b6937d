package board

// Status is one of the three workflow columns a task can occupy.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// AllStatuses returns the columns in board order.
func AllStatuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// IsValid returns true if the status is one of the three known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ForRender maps an unrecognized status to todo. This is a render-time
// default only; the stored value is never rewritten.
func (s Status) ForRender() Status {
	if s.IsValid() {
		return s
	}
	return StatusTodo
}

// Title returns the column heading shown on the board.
func (s Status) Title() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return "To Do"
	}
}
