package dispatch

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"tagup/internal/board"
)

// ControllerOption customizes Controller construction.
type ControllerOption func(*Controller)

// WithRenderHook sets the callback invoked whenever the board must be
// redrawn.
func WithRenderHook(fn func()) ControllerOption {
	return func(c *Controller) {
		if fn != nil {
			c.render = fn
		}
	}
}

// WithNoticeHook sets the callback for the tag-up confirmation notice,
// the one explicit user-facing signal in the system.
func WithNoticeHook(fn func(string)) ControllerOption {
	return func(c *Controller) {
		if fn != nil {
			c.notice = fn
		}
	}
}

// WithErrorHook sets the callback for store write failures. Save errors
// are not recovered; the failing handler aborts and the error surfaces
// here.
func WithErrorHook(fn func(error)) ControllerOption {
	return func(c *Controller) {
		if fn != nil {
			c.fail = fn
		}
	}
}

// WithCosmeticScheduler defers cosmetic updates (the dragging mark) to
// the host's next tick. The default runs them inline.
func WithCosmeticScheduler(fn func(func())) ControllerOption {
	return func(c *Controller) {
		if fn != nil {
			c.cosmetic = fn
		}
	}
}

// Controller interprets board events: the drag-drop state machine, task
// intake, and tag-up submission. One gesture is in flight at most; the
// single UI thread guarantees handlers never overlap.
type Controller struct {
	repo   *board.Repository
	tagups *board.TagUpLog
	ids    *board.IDSource
	logger log.FieldLogger

	render   func()
	notice   func(string)
	fail     func(error)
	cosmetic func(func())

	// Gesture state. payload is the plain-text id picked up at
	// dragstart; draggingID is the cosmetic mark applied a tick later.
	payload    string
	payloadSet bool
	draggingID int64
	hover      board.Status
	hoverSet   bool
}

// NewController wires a controller to the repository and tag-up log.
func NewController(repo *board.Repository, tagups *board.TagUpLog, ids *board.IDSource, logger log.FieldLogger, opts ...ControllerOption) *Controller {
	c := &Controller{
		repo:     repo,
		tagups:   tagups,
		ids:      ids,
		logger:   logger,
		render:   func() {},
		notice:   func(string) {},
		fail:     func(error) {},
		cosmetic: func(fn func()) { fn() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Handle dispatches a typed event. Errors are routed through the error
// hook; the loop itself never fails.
func (c *Controller) Handle(ctx context.Context, e Event) {
	switch ev := e.(type) {
	case DragStart:
		c.DragStart(ev.TaskID)
	case DragOver:
		c.DragOver(ev.Column)
	case Drop:
		_ = c.Drop(ctx, ev.Column)
	case DragEnd:
		c.DragEnd()
	case Click:
		_, _, _ = c.AddTask(ctx, ev.Desc, ev.Assignee)
	case Submit:
		_, _ = c.SubmitTagUp(ctx, ev.Form)
	default:
		c.logger.WithField("event", e).Debug("dispatch: ignoring unknown event")
	}
}

// DragStart records the gesture payload. The dragging mark is applied on
// the next tick, after the host has taken its drag snapshot.
func (c *Controller) DragStart(taskID string) {
	c.payload = taskID
	c.payloadSet = true
	c.cosmetic(func() {
		id, err := board.ParseID(taskID)
		if err != nil {
			return
		}
		c.draggingID = id
		c.render()
	})
}

// DragOver marks the hovered column as a live drop target. Purely
// cosmetic; no data side effect.
func (c *Controller) DragOver(col board.Status) {
	if c.hoverSet && c.hover == col {
		return
	}
	c.hover = col
	c.hoverSet = true
	c.render()
}

// Drop resolves the payload and moves the task to the target column. An
// unresolvable id aborts the gesture with no mutation and no write. A
// drop onto the task's current column still saves and re-renders. The
// returned error is a store write failure, already routed to the error
// hook.
func (c *Controller) Drop(ctx context.Context, col board.Status) error {
	if !c.payloadSet {
		return nil
	}
	id, err := board.ParseID(c.payload)
	if err != nil {
		c.logger.WithField("payload", c.payload).Debug("drop: undecodable payload, aborting gesture")
		return nil
	}
	if _, ok := c.repo.FindByID(id); !ok {
		c.logger.WithField("id", id).Debug("drop: unknown task id, aborting gesture")
		return nil
	}
	c.repo.SetStatus(id, col)
	if err := c.repo.Save(ctx); err != nil {
		c.fail(err)
		return err
	}
	c.render()
	return nil
}

// DragEnd clears the gesture and its transient marks.
func (c *Controller) DragEnd() {
	c.payload = ""
	c.payloadSet = false
	c.draggingID = 0
	c.hoverSet = false
	c.render()
}

// AddTask is the intake trigger. A whitespace-only description is a
// silent no-op: no task, no feedback. created reports whether a task was
// appended; a non-nil error means the save failed after the append, in
// which case the caller must skip its input-clearing step.
func (c *Controller) AddTask(ctx context.Context, desc, assignee string) (task board.Task, created bool, err error) {
	if strings.TrimSpace(desc) == "" {
		return board.Task{}, false, nil
	}
	task, err = board.NewTask(c.ids.Next(), desc, assignee)
	if err != nil {
		return board.Task{}, false, nil
	}
	c.repo.Append(task)
	if err := c.repo.Save(ctx); err != nil {
		c.fail(err)
		return task, true, err
	}
	c.render()
	return task, true, nil
}

// SubmitTagUp appends a submission to the persisted log and raises the
// confirmation notice. The board is untouched; tag-ups are never listed.
func (c *Controller) SubmitTagUp(ctx context.Context, f TagUpForm) (board.TagUp, error) {
	entry := board.TagUp{
		ID:        c.ids.Next(),
		Name:      f.Name,
		WorkDate:  f.WorkDate,
		ProjectDO: f.ProjectDO,
		Building:  f.Building,
		Yesterday: f.Yesterday,
		Today:     f.Today,
		Blockers:  f.Blockers,
	}
	if err := c.tagups.Append(ctx, entry); err != nil {
		c.fail(err)
		return entry, err
	}
	c.notice("Tag-up submitted.")
	return entry, nil
}

// Dragging reports whether a gesture is in flight.
func (c *Controller) Dragging() bool {
	return c.payloadSet
}

// DraggingID returns the id carrying the cosmetic dragging mark, or zero.
func (c *Controller) DraggingID() int64 {
	return c.draggingID
}

// Hover returns the current drop-target column, if any.
func (c *Controller) Hover() (board.Status, bool) {
	return c.hover, c.hoverSet
}
