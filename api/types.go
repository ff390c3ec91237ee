package api

import (
	"github.com/Hrick-08/websocket-kanban-vitest-playwright-2026/domain"
)

// TaskStore is the authoritative task collection the hub mutates. The
// hub is its exclusive writer; no other component holds a writable
// reference.
type TaskStore interface {
	Create(t domain.Task) domain.Task
	Update(p domain.TaskPatch) (domain.Task, bool)
	Move(id, newStatus string) bool
	Delete(id string) bool
	Snapshot() []domain.Task
}
