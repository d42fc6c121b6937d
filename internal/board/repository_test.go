package board

import (
	"context"
	"reflect"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"tagup/internal/store"
)

func newTestRepo(t *testing.T) (*Repository, store.KV) {
	t.Helper()
	kv, err := store.NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	logger, _ := logtest.NewNullLogger()
	return NewRepository(kv, logger), kv
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, kv := newTestRepo(t)

	appended := []Task{
		{ID: 1, Desc: "Patch pump", Assignee: "Lee", Status: StatusTodo},
		{ID: 2, Desc: "Check valve", Assignee: "", Status: StatusInProgress},
		{ID: 3, Desc: "Walk site", Assignee: "Ana", Status: StatusDone},
	}
	for _, task := range appended {
		repo.Append(task)
	}
	if err := repo.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	logger, _ := logtest.NewNullLogger()
	reloaded := NewRepository(kv, logger)
	reloaded.Load(ctx)
	if !reflect.DeepEqual(reloaded.Tasks(), appended) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", reloaded.Tasks(), appended)
	}
}

func TestRepositoryLoadReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	repo.Append(Task{ID: 9, Desc: "stale", Status: StatusTodo})

	// Nothing persisted yet, so a load drops the in-memory task.
	repo.Load(ctx)
	if repo.Len() != 0 {
		t.Fatalf("expected wholesale replacement, still have %d tasks", repo.Len())
	}
}

func TestRepositoryLoadCorruptContentIsEmpty(t *testing.T) {
	ctx := context.Background()
	repo, kv := newTestRepo(t)
	if err := kv.Set(ctx, store.TasksKey, `]][[`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	repo.Load(ctx)
	if repo.Len() != 0 {
		t.Fatalf("corrupt store must load as empty, got %d tasks", repo.Len())
	}
}

func TestRepositoryFindByID(t *testing.T) {
	repo, _ := newTestRepo(t)
	repo.Append(Task{ID: 10, Desc: "a", Status: StatusTodo})
	repo.Append(Task{ID: 20, Desc: "b", Status: StatusDone})

	task, ok := repo.FindByID(20)
	if !ok || task.Desc != "b" {
		t.Fatalf("FindByID(20) = %+v, %v", task, ok)
	}
	if _, ok := repo.FindByID(999); ok {
		t.Fatal("expected miss for unknown id")
	}
}

func TestRepositorySetStatus(t *testing.T) {
	repo, _ := newTestRepo(t)
	repo.Append(Task{ID: 10, Desc: "a", Status: StatusTodo})

	if !repo.SetStatus(10, StatusInProgress) {
		t.Fatal("SetStatus reported miss for known id")
	}
	task, _ := repo.FindByID(10)
	if task.Status != StatusInProgress {
		t.Fatalf("status = %q, want %q", task.Status, StatusInProgress)
	}
	if repo.SetStatus(999, StatusDone) {
		t.Fatal("SetStatus must report miss for unknown id")
	}
}

func TestRepositoryTasksReturnsCopy(t *testing.T) {
	repo, _ := newTestRepo(t)
	repo.Append(Task{ID: 1, Desc: "a", Status: StatusTodo})
	tasks := repo.Tasks()
	tasks[0].Desc = "mutated"
	if got, _ := repo.FindByID(1); got.Desc != "a" {
		t.Fatal("Tasks() must not expose the internal slice")
	}
}

func TestTagUpLogAppendGrowsByOne(t *testing.T) {
	ctx := context.Background()
	kv, err := store.NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	logger, _ := logtest.NewNullLogger()
	tagups := NewTagUpLog(kv, logger)

	first := TagUp{ID: 1, Name: "Lee", WorkDate: "2026-08-24", ProjectDO: "DO-7",
		Building: "B2", Yesterday: "poured slab", Today: "set forms", Blockers: "none"}
	if err := tagups.Append(ctx, first); err != nil {
		t.Fatalf("Append: %v", err)
	}
	second := TagUp{ID: 2, Name: "Ana"}
	if err := tagups.Append(ctx, second); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries := store.Load[TagUp](ctx, kv, store.TagUpsKey, logger)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if !reflect.DeepEqual(entries[0], first) || !reflect.DeepEqual(entries[1], second) {
		t.Fatalf("unexpected log contents %+v", entries)
	}
}

func TestTagUpLogAppendTreatsCorruptLogAsEmpty(t *testing.T) {
	ctx := context.Background()
	kv, err := store.NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	if err := kv.Set(ctx, store.TagUpsKey, "corrupt"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	logger, _ := logtest.NewNullLogger()
	tagups := NewTagUpLog(kv, logger)
	if err := tagups.Append(ctx, TagUp{ID: 5, Name: "Lee"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	entries := store.Load[TagUp](ctx, kv, store.TagUpsKey, logger)
	if len(entries) != 1 || entries[0].ID != 5 {
		t.Fatalf("expected fresh single-entry log, got %+v", entries)
	}
}
