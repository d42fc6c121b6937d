// Package dispatch models the board's user input as typed events
// delivered to a single-threaded handler loop. DragStart/DragOver/Drop/
// DragEnd describe one pointer gesture; Click is the task intake trigger;
// Submit carries a tag-up form. Cosmetic work (the dragging mark) is
// posted to the next tick, kept apart from state mutation.
package dispatch

import (
	"time"

	"github.com/google/uuid"

	"tagup/internal/board"
)

// Meta identifies one event instance.
type Meta struct {
	EventID string
	At      time.Time
}

// NewMeta stamps a fresh event id and UTC time.
func NewMeta() Meta {
	return Meta{EventID: uuid.NewString(), At: time.Now().UTC()}
}

// Event is any input the board loop can handle.
type Event interface {
	isEvent()
}

// DragStart fires when the pointer picks up a task card. TaskID is the
// card's attached id as plain payload text.
type DragStart struct {
	Meta
	TaskID string
}

// DragOver fires while the pointer hovers a drop-target column.
type DragOver struct {
	Meta
	Column board.Status
}

// Drop fires once when the payload is released over a column.
type Drop struct {
	Meta
	Column board.Status
}

// DragEnd fires on the gesture source after a drop or an abort.
type DragEnd struct {
	Meta
}

// Click is the "add task" trigger with the intake field contents.
type Click struct {
	Meta
	Desc     string
	Assignee string
}

// TagUpForm carries the seven free-text fields of a status submission.
type TagUpForm struct {
	Name      string
	WorkDate  string
	ProjectDO string
	Building  string
	Yesterday string
	Today     string
	Blockers  string
}

// Submit is a tag-up form submission.
type Submit struct {
	Meta
	Form TagUpForm
}

func (DragStart) isEvent() {}
func (DragOver) isEvent()  {}
func (Drop) isEvent()      {}
func (DragEnd) isEvent()   {}
func (Click) isEvent()     {}
func (Submit) isEvent()    {}
