// Package client maintains a local mirror of the server's task list.
// The mirror changes only when a broadcast arrives; local intents are
// fire-and-forget and take effect through their echo, the client's own
// included. There is no optimistic apply and no delivery confirmation:
// a lost intent is simply never reflected, and a reconnect recovers
// consistency through a fresh snapshot.
package client

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/Hrick-08/websocket-kanban-vitest-playwright-2026/domain"
)

const writeWait = 10 * time.Second

// Reconciler mirrors the authoritative task list for one connection.
type Reconciler struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu    sync.RWMutex
	tasks []domain.Task
	ready bool

	onChange  func()
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Reconciler before its read loop starts.
type Option func(*Reconciler)

// WithOnChange registers a callback invoked after every event applied to
// the mirror. It runs on the read loop; renderers should hand off.
func WithOnChange(fn func()) Option {
	return func(r *Reconciler) { r.onChange = fn }
}

// Dial connects to the sync endpoint (ws:// or wss:// URL) and starts
// the read loop.
func Dial(ctx context.Context, url string, opts ...Option) (*Reconciler, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	r := &Reconciler{
		conn: conn,
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	go r.readLoop()
	return r, nil
}

// Ready reports whether the initial snapshot has arrived.
func (r *Reconciler) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ready
}

// Tasks returns a copy of the current mirror.
func (r *Reconciler) Tasks() []domain.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Task, len(r.tasks))
	for i, t := range r.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Progress returns the derived progress view over the current mirror.
func (r *Reconciler) Progress() domain.Progress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.Summarize(r.tasks)
}

// Done is closed when the read loop exits, i.e. the connection dropped
// or Close was called.
func (r *Reconciler) Done() <-chan struct{} {
	return r.done
}

// Close tears the connection down. Mirror contents remain readable.
func (r *Reconciler) Close() error {
	var err error
	r.closeOnce.Do(func() {
		r.writeMu.Lock()
		r.conn.SetWriteDeadline(time.Now().Add(writeWait))
		r.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		r.writeMu.Unlock()
		err = r.conn.Close()
	})
	return err
}

// Create submits a create intent. The task appears in the mirror only
// once the task:created echo arrives.
func (r *Reconciler) Create(t domain.Task) error {
	return r.emit(domain.EventTaskCreate, t)
}

// Update submits an update intent carrying the given patch.
func (r *Reconciler) Update(p domain.TaskPatch) error {
	return r.emit(domain.EventTaskUpdate, p)
}

// Move submits a move intent for the given task and target status.
func (r *Reconciler) Move(taskID, newStatus string) error {
	return r.emit(domain.EventTaskMove, domain.Move{TaskID: taskID, NewStatus: newStatus})
}

// Delete submits a delete intent for the given task id.
func (r *Reconciler) Delete(taskID string) error {
	return r.emit(domain.EventTaskDelete, taskID)
}

func (r *Reconciler) emit(t domain.EventType, payload any) error {
	env, err := domain.NewEnvelope(t, payload)
	if err != nil {
		return err
	}
	data, err := sonic.Marshal(env)
	if err != nil {
		return err
	}
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	r.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return r.conn.WriteMessage(websocket.TextMessage, data)
}

func (r *Reconciler) readLoop() {
	defer close(r.done)
	for {
		_, data, err := r.conn.ReadMessage()
		if err != nil {
			return
		}
		var env domain.Envelope
		if err := sonic.Unmarshal(data, &env); err != nil {
			continue
		}
		r.apply(env)
	}
}

// apply performs one mirror transition. Events referencing an id the
// mirror does not hold are dropped; the next snapshot reconciles.
func (r *Reconciler) apply(env domain.Envelope) {
	r.mu.Lock()
	changed := false
	switch env.Type {
	case domain.EventSyncTasks:
		var tasks []domain.Task
		if env.Decode(&tasks) == nil {
			r.tasks = tasks
			r.ready = true
			changed = true
		}
	case domain.EventTaskCreated:
		var t domain.Task
		if env.Decode(&t) == nil {
			r.tasks = append(r.tasks, t)
			changed = true
		}
	case domain.EventTaskUpdated:
		var p domain.TaskPatch
		if env.Decode(&p) == nil {
			if i := r.index(p.ID); i >= 0 {
				p.Apply(&r.tasks[i])
				changed = true
			}
		}
	case domain.EventTaskMoved:
		var mv domain.Move
		if env.Decode(&mv) == nil {
			if i := r.index(mv.TaskID); i >= 0 {
				r.tasks[i].Status = mv.NewStatus
				changed = true
			}
		}
	case domain.EventTaskDeleted:
		var id string
		if env.Decode(&id) == nil {
			if i := r.index(id); i >= 0 {
				r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
				changed = true
			}
		}
	}
	cb := r.onChange
	r.mu.Unlock()
	if changed && cb != nil {
		cb()
	}
}

func (r *Reconciler) index(id string) int {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
