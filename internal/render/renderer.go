// Package render projects the task repository's state into the three
// status columns. The projection is pure and idempotent: rendering the
// same tasks twice yields the same columns.
package render

import "tagup/internal/board"

// NoDrag marks a snapshot with no drag gesture in flight. Task ids are
// wall-clock timestamps, so zero is never a real id.
const NoDrag int64 = 0

// Card is one task as shown on the board.
type Card struct {
	ID       int64
	Desc     string
	Assignee string
	Dragging bool
}

// Column is one status column with its cards in insertion order.
type Column struct {
	Status board.Status
	Title  string
	Cards  []Card
}

// Snapshot rebuilds all three columns from the tasks in insertion order.
// A task with an unrecognized status lands in the todo column; the task
// itself is left untouched. draggingID marks that task's card as the
// gesture source (NoDrag for none).
func Snapshot(tasks []board.Task, draggingID int64) []Column {
	cols := make([]Column, 0, 3)
	index := make(map[board.Status]int, 3)
	for i, s := range board.AllStatuses() {
		cols = append(cols, Column{Status: s, Title: s.Title(), Cards: []Card{}})
		index[s] = i
	}

	for _, t := range tasks {
		i := index[t.Status.ForRender()]
		cols[i].Cards = append(cols[i].Cards, Card{
			ID:       t.ID,
			Desc:     t.Desc,
			Assignee: t.Assignee,
			Dragging: t.ID == draggingID && draggingID != NoDrag,
		})
	}
	return cols
}
