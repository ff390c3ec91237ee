package client

import (
	"errors"

	"github.com/Hrick-08/websocket-kanban-vitest-playwright-2026/domain"
)

// ErrBufferDiscarded is returned when a saved or cancelled buffer is
// saved again.
var ErrBufferDiscarded = errors.New("edit buffer discarded")

// EditBuffer holds draft edits for one card. It is transient state kept
// entirely outside the mirror: nothing reaches the server or the mirror
// until Save, and Cancel throws the draft away.
type EditBuffer struct {
	r      *Reconciler
	taskID string

	Title       string
	Description string
	Priority    string
	Category    string
}

// Edit starts a draft for the given task, copying its current fields
// from the mirror. It reports false when the mirror does not hold the
// task.
func (r *Reconciler) Edit(taskID string) (*EditBuffer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.index(taskID)
	if i < 0 {
		return nil, false
	}
	t := r.tasks[i]
	return &EditBuffer{
		r:           r,
		taskID:      taskID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Category:    t.Category,
	}, true
}

// Save submits the draft as a single update intent and discards the
// buffer. The mirror reflects the change only once the server echoes
// task:updated back.
func (e *EditBuffer) Save() error {
	if e.r == nil {
		return ErrBufferDiscarded
	}
	title, description := e.Title, e.Description
	priority, category := e.Priority, e.Category
	err := e.r.Update(domain.TaskPatch{
		ID:          e.taskID,
		Title:       &title,
		Description: &description,
		Priority:    &priority,
		Category:    &category,
	})
	e.r = nil
	return err
}

// Cancel discards the draft without sending anything.
func (e *EditBuffer) Cancel() {
	e.r = nil
}
