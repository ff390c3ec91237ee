// Package storage holds the authoritative in-memory task collection.
// There is no persistence: a process restart loses the board and the
// seed tasks are recreated.
package storage

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Hrick-08/websocket-kanban-vitest-playwright-2026/domain"
)

// Board is the single authoritative mapping of task id to task. All
// mutations funnel through its methods behind one mutex, which preserves
// a single global mutation order for the broadcast stream.
type Board struct {
	mu    sync.Mutex
	tasks []domain.Task
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Seed installs the two demo tasks recreated at every startup.
func (b *Board) Seed() {
	b.Create(domain.Task{
		ID:          "1",
		Title:       "Sample Task 1",
		Description: "This is a sample task",
		Status:      domain.StatusTodo,
		Priority:    domain.PriorityMedium,
		Category:    domain.CategoryFeature,
	})
	b.Create(domain.Task{
		ID:          "2",
		Title:       "Sample Task 2",
		Description: "Another sample task",
		Status:      domain.StatusInProgress,
		Priority:    domain.PriorityHigh,
		Category:    domain.CategoryBug,
	})
}

// Create inserts a task and returns the fully populated copy. A
// non-empty client-supplied id is kept, otherwise a new one is minted.
// CreatedAt is always assigned server-side, discarding any client value.
func (b *Board) Create(t domain.Task) domain.Task {
	b.mu.Lock()
	defer b.mu.Unlock()

	if strings.TrimSpace(t.ID) == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	if t.Status == "" {
		t.Status = domain.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	if t.Category == "" {
		t.Category = domain.CategoryFeature
	}
	if t.Attachments == nil {
		t.Attachments = []domain.Attachment{}
	}
	b.tasks = append(b.tasks, t.Clone())
	return t
}

// Update merges the patch onto the stored task and returns the merged
// result. An unknown id is a silent no-op: there is no feedback channel
// to report it on, so the caller must not broadcast anything.
func (b *Board) Update(p domain.TaskPatch) (domain.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.index(p.ID)
	if i < 0 {
		return domain.Task{}, false
	}
	p.Apply(&b.tasks[i])
	return b.tasks[i].Clone(), true
}

// Move sets the task's status. The status is stored verbatim, without
// validation against the known column values.
func (b *Board) Move(id, newStatus string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.index(id)
	if i < 0 {
		return false
	}
	b.tasks[i].Status = newStatus
	return true
}

// Delete removes the task with the given id. Deleting an absent id is a
// no-op and reports false.
func (b *Board) Delete(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.index(id)
	if i < 0 {
		return false
	}
	b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
	return true
}

// Snapshot returns a deep copy of all tasks in insertion order, used to
// seed a newly connected client.
func (b *Board) Snapshot() []domain.Task {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]domain.Task, len(b.tasks))
	for i, t := range b.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (b *Board) index(id string) int {
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
