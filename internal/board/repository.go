package board

import (
	"context"

	log "github.com/sirupsen/logrus"

	"tagup/internal/store"
)

// Repository owns the authoritative in-memory task collection for the
// lifetime of the program. Insertion order is preserved and is the only
// ordering; lookups are linear scans. It is not safe for concurrent use:
// all access happens on the single UI event loop.
type Repository struct {
	kv     store.KV
	logger log.FieldLogger
	tasks  []Task
}

// NewRepository returns an empty repository bridged to the given store.
func NewRepository(kv store.KV, logger log.FieldLogger) *Repository {
	return &Repository{kv: kv, logger: logger, tasks: []Task{}}
}

// Load replaces the in-memory collection wholesale with whatever the
// store holds under the tasks key. A missing or corrupt entry loads as
// an empty collection; Load never fails.
func (r *Repository) Load(ctx context.Context) {
	r.tasks = store.Load[Task](ctx, r.kv, store.TasksKey, r.logger)
}

// Save writes the full current collection to the store. Write failures
// propagate to the caller.
func (r *Repository) Save(ctx context.Context) error {
	return store.Save(ctx, r.kv, store.TasksKey, r.tasks)
}

// Append adds a task to the end of the collection.
func (r *Repository) Append(t Task) {
	r.tasks = append(r.tasks, t)
}

// FindByID returns the first task with the given id.
func (r *Repository) FindByID(id int64) (Task, bool) {
	for _, t := range r.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// SetStatus moves the task with the given id to the given column. It
// reports whether a task was found; the status value is written as-is.
func (r *Repository) SetStatus(id int64, status Status) bool {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks[i].Status = status
			return true
		}
	}
	return false
}

// Tasks returns a copy of the collection in insertion order.
func (r *Repository) Tasks() []Task {
	out := make([]Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// Len returns the number of tasks.
func (r *Repository) Len() int {
	return len(r.tasks)
}
