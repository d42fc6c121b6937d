package dispatch

import (
	"context"
	"errors"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"tagup/internal/board"
	"tagup/internal/store"
)

type countingKV struct {
	store.KV
	writes int
}

func (c *countingKV) Set(ctx context.Context, key, value string) error {
	c.writes++
	return c.KV.Set(ctx, key, value)
}

type fixture struct {
	ctrl    *Controller
	repo    *board.Repository
	tagups  *board.TagUpLog
	kv      *countingKV
	renders int
	notices []string
	errs    []error
	ticks   []func()
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fileKV, err := store.NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	logger, _ := logtest.NewNullLogger()
	f := &fixture{kv: &countingKV{KV: fileKV}}
	f.repo = board.NewRepository(f.kv, logger)
	f.tagups = board.NewTagUpLog(f.kv, logger)
	f.ctrl = NewController(f.repo, f.tagups, board.NewIDSource(), logger,
		WithRenderHook(func() { f.renders++ }),
		WithNoticeHook(func(msg string) { f.notices = append(f.notices, msg) }),
		WithErrorHook(func(err error) { f.errs = append(f.errs, err) }),
		WithCosmeticScheduler(func(fn func()) { f.ticks = append(f.ticks, fn) }),
	)
	return f
}

func (f *fixture) runTicks() {
	for _, fn := range f.ticks {
		fn()
	}
	f.ticks = nil
}

func (f *fixture) seedTask(t *testing.T, task board.Task) {
	t.Helper()
	f.repo.Append(task)
	if err := f.repo.Save(context.Background()); err != nil {
		t.Fatalf("seed save: %v", err)
	}
}

func TestDropMovesTaskInMemoryAndStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedTask(t, board.Task{ID: 100, Desc: "Patch pump", Assignee: "Lee", Status: board.StatusTodo})

	f.ctrl.DragStart(board.FormatID(100))
	if err := f.ctrl.Drop(ctx, board.StatusInProgress); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	f.ctrl.DragEnd()

	task, ok := f.repo.FindByID(100)
	if !ok || task.Status != board.StatusInProgress {
		t.Fatalf("in-memory task = %+v, %v", task, ok)
	}

	logger, _ := logtest.NewNullLogger()
	persisted := board.NewRepository(f.kv, logger)
	persisted.Load(ctx)
	stored, ok := persisted.FindByID(100)
	if !ok || stored.Status != board.StatusInProgress {
		t.Fatalf("persisted task = %+v, %v", stored, ok)
	}
	if f.renders == 0 {
		t.Fatal("drop must trigger a re-render")
	}
}

func TestDropPayloadIsDecodedBeforeLookup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedTask(t, board.Task{ID: 100, Desc: "Patch pump", Status: board.StatusTodo})

	// Payload text with surrounding whitespace still resolves.
	f.ctrl.DragStart(" 100 ")
	if err := f.ctrl.Drop(ctx, board.StatusDone); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if task, _ := f.repo.FindByID(100); task.Status != board.StatusDone {
		t.Fatalf("task status = %q", task.Status)
	}
}

func TestDropUnknownIDAbortsWithoutWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedTask(t, board.Task{ID: 100, Desc: "Patch pump", Status: board.StatusTodo})
	writesBefore := f.kv.writes

	f.ctrl.DragStart("424242")
	if err := f.ctrl.Drop(ctx, board.StatusDone); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if f.kv.writes != writesBefore {
		t.Fatalf("unknown-id drop wrote to the store (%d -> %d writes)", writesBefore, f.kv.writes)
	}
	if task, _ := f.repo.FindByID(100); task.Status != board.StatusTodo {
		t.Fatal("unknown-id drop mutated an unrelated task")
	}
}

func TestDropUndecodablePayloadAborts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedTask(t, board.Task{ID: 100, Desc: "Patch pump", Status: board.StatusTodo})
	writesBefore := f.kv.writes

	f.ctrl.DragStart("not-an-id")
	if err := f.ctrl.Drop(ctx, board.StatusDone); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if f.kv.writes != writesBefore {
		t.Fatal("undecodable payload still wrote to the store")
	}
}

func TestDropOntoCurrentColumnStillSaves(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedTask(t, board.Task{ID: 100, Desc: "Patch pump", Status: board.StatusTodo})
	writesBefore := f.kv.writes
	rendersBefore := f.renders

	f.ctrl.DragStart(board.FormatID(100))
	if err := f.ctrl.Drop(ctx, board.StatusTodo); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if f.kv.writes != writesBefore+1 {
		t.Fatalf("same-column drop must still save, writes %d -> %d", writesBefore, f.kv.writes)
	}
	if f.renders == rendersBefore {
		t.Fatal("same-column drop must still re-render")
	}
}

func TestDragStartMarkIsDeferredToNextTick(t *testing.T) {
	f := newFixture(t)
	f.seedTask(t, board.Task{ID: 100, Desc: "Patch pump", Status: board.StatusTodo})

	f.ctrl.DragStart(board.FormatID(100))
	if !f.ctrl.Dragging() {
		t.Fatal("payload must be captured immediately")
	}
	if f.ctrl.DraggingID() != 0 {
		t.Fatal("dragging mark must wait for the next tick")
	}
	f.runTicks()
	if f.ctrl.DraggingID() != 100 {
		t.Fatalf("dragging mark = %d after tick", f.ctrl.DraggingID())
	}

	f.ctrl.DragEnd()
	if f.ctrl.Dragging() || f.ctrl.DraggingID() != 0 {
		t.Fatal("dragend must clear the gesture and its mark")
	}
}

func TestDragOverTracksHoverColumn(t *testing.T) {
	f := newFixture(t)
	if _, ok := f.ctrl.Hover(); ok {
		t.Fatal("no hover expected before a gesture")
	}
	f.ctrl.DragOver(board.StatusDone)
	if hover, ok := f.ctrl.Hover(); !ok || hover != board.StatusDone {
		t.Fatalf("hover = %q, %v", hover, ok)
	}
	f.ctrl.DragEnd()
	if _, ok := f.ctrl.Hover(); ok {
		t.Fatal("dragend must clear the hover mark")
	}
}

func TestAddTaskEmptyDescriptionIsSilentNoOp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	writesBefore := f.kv.writes

	for _, desc := range []string{"", "   ", "\t"} {
		if _, created, err := f.ctrl.AddTask(ctx, desc, "Ana"); created || err != nil {
			t.Fatalf("desc %q: created=%v err=%v", desc, created, err)
		}
	}
	if f.repo.Len() != 0 || f.kv.writes != writesBefore {
		t.Fatal("empty intake must not mutate or persist")
	}
}

func TestAddTaskAppendsPersistsAndRenders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, created, err := f.ctrl.AddTask(ctx, "Fix leak", "Ana")
	if !created || err != nil {
		t.Fatalf("AddTask: created=%v err=%v", created, err)
	}
	if first.Desc != "Fix leak" || first.Assignee != "Ana" || first.Status != board.StatusTodo {
		t.Fatalf("unexpected task %+v", first)
	}
	second, _, err := f.ctrl.AddTask(ctx, "Order rebar", "")
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("ids must be strictly increasing: %d then %d", first.ID, second.ID)
	}
	if f.renders == 0 {
		t.Fatal("intake must re-render the board")
	}
}

type brokenKV struct{ store.KV }

func (b brokenKV) Set(context.Context, string, string) error {
	return errors.New("quota exceeded")
}

func TestAddTaskSaveFailurePropagates(t *testing.T) {
	ctx := context.Background()
	fileKV, err := store.NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	logger, _ := logtest.NewNullLogger()
	repo := board.NewRepository(brokenKV{fileKV}, logger)
	tagups := board.NewTagUpLog(brokenKV{fileKV}, logger)
	var failures []error
	ctrl := NewController(repo, tagups, board.NewIDSource(), logger,
		WithErrorHook(func(err error) { failures = append(failures, err) }))

	_, created, err := ctrl.AddTask(ctx, "Fix leak", "Ana")
	if !created {
		t.Fatal("task is appended before the save attempt")
	}
	if err == nil {
		t.Fatal("save failure must propagate so input clearing is skipped")
	}
	if len(failures) != 1 {
		t.Fatalf("expected one error hook call, got %d", len(failures))
	}
}

func TestSubmitTagUpAppendsAndRaisesNotice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedTask(t, board.Task{ID: 100, Desc: "Patch pump", Status: board.StatusTodo})

	form := TagUpForm{Name: "Lee", WorkDate: "2026-08-24", ProjectDO: "DO-7",
		Building: "B2", Yesterday: "poured slab", Today: "set forms", Blockers: ""}
	entry, err := f.ctrl.SubmitTagUp(ctx, form)
	if err != nil {
		t.Fatalf("SubmitTagUp: %v", err)
	}
	if entry.ID == 0 || entry.Name != "Lee" || entry.Blockers != "" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if len(f.notices) != 1 {
		t.Fatalf("expected one confirmation notice, got %v", f.notices)
	}

	logger, _ := logtest.NewNullLogger()
	entries := store.Load[board.TagUp](ctx, f.kv, store.TagUpsKey, logger)
	if len(entries) != 1 {
		t.Fatalf("expected tagUps log to grow by one, got %d", len(entries))
	}
	// The task board is unaffected by a submission.
	if task, _ := f.repo.FindByID(100); task.Status != board.StatusTodo {
		t.Fatal("submission touched the task board")
	}
}

func TestEndToEndIntakeDragSubmit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	logger, _ := logtest.NewNullLogger()

	// Intake onto an empty board.
	task, created, err := f.ctrl.AddTask(ctx, "Patch pump", "Lee")
	if !created || err != nil {
		t.Fatalf("AddTask: created=%v err=%v", created, err)
	}
	if task.Status != board.StatusTodo || f.repo.Len() != 1 {
		t.Fatalf("expected one todo task, got %+v", task)
	}

	// Drag it to in-progress.
	f.ctrl.DragStart(board.FormatID(task.ID))
	if err := f.ctrl.Drop(ctx, board.StatusInProgress); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	f.ctrl.DragEnd()
	moved, _ := f.repo.FindByID(task.ID)
	if moved.Status != board.StatusInProgress {
		t.Fatalf("task status = %q", moved.Status)
	}
	persisted := board.NewRepository(f.kv, logger)
	persisted.Load(ctx)
	if stored, _ := persisted.FindByID(task.ID); stored.Status != board.StatusInProgress {
		t.Fatalf("persisted status = %q", stored.Status)
	}

	// Submit a fully filled tag-up; the board must be unaffected.
	form := TagUpForm{Name: "Lee", WorkDate: "2026-08-24", ProjectDO: "DO-7",
		Building: "B2", Yesterday: "poured slab", Today: "set forms", Blockers: "crane"}
	if _, err := f.ctrl.SubmitTagUp(ctx, form); err != nil {
		t.Fatalf("SubmitTagUp: %v", err)
	}
	entries := store.Load[board.TagUp](ctx, f.kv, store.TagUpsKey, logger)
	if len(entries) != 1 {
		t.Fatalf("tagUps grew by %d entries, want 1", len(entries))
	}
	persisted.Load(ctx)
	if persisted.Len() != 1 {
		t.Fatal("submission changed the persisted task board")
	}
}
