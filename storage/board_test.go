package storage

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/Hrick-08/websocket-kanban-vitest-playwright-2026/domain"
)

func TestCreateMintsIDAndCreatedAt(t *testing.T) {
	b := NewBoard()
	created := b.Create(domain.Task{Title: "X"})

	if created.ID == "" {
		t.Fatal("expected minted id")
	}
	if _, err := time.Parse(time.RFC3339, created.CreatedAt); err != nil {
		t.Fatalf("createdAt not RFC3339: %q", created.CreatedAt)
	}
	if created.Status != domain.StatusTodo {
		t.Fatalf("expected default status todo, got %q", created.Status)
	}
	if created.Priority != domain.PriorityMedium {
		t.Fatalf("expected default priority medium, got %q", created.Priority)
	}
	if created.Category != domain.CategoryFeature {
		t.Fatalf("expected default category feature, got %q", created.Category)
	}
	if created.Attachments == nil || len(created.Attachments) != 0 {
		t.Fatalf("expected empty attachment list, got %#v", created.Attachments)
	}
}

func TestCreateKeepsClientSuppliedID(t *testing.T) {
	b := NewBoard()
	created := b.Create(domain.Task{ID: "client-7", Title: "X"})
	if created.ID != "client-7" {
		t.Fatalf("client id discarded, got %q", created.ID)
	}
}

func TestCreateDiscardsClientCreatedAt(t *testing.T) {
	b := NewBoard()
	created := b.Create(domain.Task{Title: "X", CreatedAt: "1999-01-01T00:00:00Z"})
	if created.CreatedAt == "1999-01-01T00:00:00Z" {
		t.Fatal("createdAt must be assigned server-side")
	}
}

func TestUpdateMergesOnlyPatchFields(t *testing.T) {
	b := NewBoard()
	created := b.Create(domain.Task{Title: "X", Description: "desc"})

	var patch domain.TaskPatch
	if err := json.Unmarshal([]byte(`{"id":"`+created.ID+`","priority":"high"}`), &patch); err != nil {
		t.Fatalf("unmarshal patch: %v", err)
	}
	merged, ok := b.Update(patch)
	if !ok {
		t.Fatal("update reported unknown id")
	}
	if merged.Priority != domain.PriorityHigh {
		t.Fatalf("priority not applied: %q", merged.Priority)
	}
	if merged.Title != "X" || merged.Description != "desc" {
		t.Fatalf("untouched fields changed: %#v", merged)
	}
	if merged.CreatedAt != created.CreatedAt {
		t.Fatalf("createdAt changed: %q -> %q", created.CreatedAt, merged.CreatedAt)
	}
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	b := NewBoard()
	b.Seed()
	before := b.Snapshot()

	title := "x"
	if _, ok := b.Update(domain.TaskPatch{ID: "nonexistent", Title: &title}); ok {
		t.Fatal("update of unknown id must report false")
	}
	if !reflect.DeepEqual(before, b.Snapshot()) {
		t.Fatal("update of unknown id changed the store")
	}
}

func TestMoveStoresStatusVerbatim(t *testing.T) {
	b := NewBoard()
	created := b.Create(domain.Task{Title: "X"})

	if !b.Move(created.ID, "blocked") {
		t.Fatal("move reported unknown id")
	}
	snap := b.Snapshot()
	if snap[0].Status != "blocked" {
		t.Fatalf("unvalidated status must be stored as-is, got %q", snap[0].Status)
	}
}

func TestMoveUnknownIDIsNoop(t *testing.T) {
	b := NewBoard()
	b.Seed()
	before := b.Snapshot()

	if b.Move("nonexistent", domain.StatusDone) {
		t.Fatal("move of unknown id must report false")
	}
	if !reflect.DeepEqual(before, b.Snapshot()) {
		t.Fatal("move of unknown id changed the store")
	}
}

func TestDeleteIsPermanentAndIdempotent(t *testing.T) {
	b := NewBoard()
	created := b.Create(domain.Task{Title: "X"})

	if !b.Delete(created.ID) {
		t.Fatal("first delete must report true")
	}
	after := b.Snapshot()
	if b.Delete(created.ID) {
		t.Fatal("second delete must be a no-op")
	}
	if !reflect.DeepEqual(after, b.Snapshot()) {
		t.Fatal("second delete changed the store")
	}
	if len(after) != 0 {
		t.Fatalf("task not removed: %#v", after)
	}
}

func TestSnapshotKeepsInsertionOrder(t *testing.T) {
	b := NewBoard()
	first := b.Create(domain.Task{Title: "first"})
	second := b.Create(domain.Task{Title: "second"})

	snap := b.Snapshot()
	if len(snap) != 2 || snap[0].ID != first.ID || snap[1].ID != second.ID {
		t.Fatalf("unexpected order: %#v", snap)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	b := NewBoard()
	created := b.Create(domain.Task{
		Title:       "X",
		Attachments: []domain.Attachment{{ID: "a1", Name: "file.png"}},
	})

	snap := b.Snapshot()
	snap[0].Title = "mutated"
	snap[0].Attachments[0].Name = "mutated.png"

	fresh := b.Snapshot()
	if fresh[0].Title != "X" || fresh[0].Attachments[0].Name != "file.png" {
		t.Fatalf("snapshot aliases store state: %#v", fresh[0])
	}
	_ = created
}

func TestSeedInstallsDemoTasks(t *testing.T) {
	b := NewBoard()
	b.Seed()

	snap := b.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 seed tasks, got %d", len(snap))
	}
	if snap[0].ID != "1" || snap[0].Status != domain.StatusTodo {
		t.Fatalf("unexpected first seed task: %#v", snap[0])
	}
	if snap[1].ID != "2" || snap[1].Status != domain.StatusInProgress || snap[1].Category != domain.CategoryBug {
		t.Fatalf("unexpected second seed task: %#v", snap[1])
	}
}
