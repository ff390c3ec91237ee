package api

import (
	"context"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"github.com/Hrick-08/websocket-kanban-vitest-playwright-2026/domain"
)

type inbound struct {
	sess *session
	env  domain.Envelope
}

// Hub owns the task store and the set of live sessions. Registrations
// and client intents are consumed by a single run loop, one at a time,
// so mutations are serialized by arrival order and every session
// observes the same broadcast order. Delivery is fire-and-forget: there
// is no acknowledgement and a disconnected session simply misses events
// until it reconnects and receives a fresh snapshot.
type Hub struct {
	store  TaskStore
	logger *log.Logger

	register   chan *session
	unregister chan *session
	intents    chan inbound
	done       chan struct{}

	// owned by Run, no lock
	sessions map[*session]struct{}
}

// NewHub creates a hub over the given store. Run must be started before
// any connection is served.
func NewHub(store TaskStore, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Hub{
		store:      store,
		logger:     logger,
		register:   make(chan *session),
		unregister: make(chan *session),
		intents:    make(chan inbound),
		done:       make(chan struct{}),
		sessions:   make(map[*session]struct{}),
	}
}

// Run processes registrations and intents until ctx is done. Broadcast
// enqueueing is synchronous with the triggering mutation: by the time an
// intent is handled, every live session has the event in its outbound
// queue.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for s := range h.sessions {
				s.close()
			}
			return
		case s := <-h.register:
			h.sessions[s] = struct{}{}
			h.sendSnapshot(s)
			h.logger.WithField("sessions", len(h.sessions)).Debug("session connected")
		case s := <-h.unregister:
			if _, ok := h.sessions[s]; ok {
				delete(h.sessions, s)
				s.close()
			}
			h.logger.WithField("sessions", len(h.sessions)).Debug("session disconnected")
		case in := <-h.intents:
			h.apply(in)
		}
	}
}

// attach hands a new session to the run loop. It reports false when the
// hub has already shut down.
func (h *Hub) attach(s *session) bool {
	select {
	case h.register <- s:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) detach(s *session) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

func (h *Hub) submit(in inbound) bool {
	select {
	case h.intents <- in:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) sendSnapshot(s *session) {
	env, err := domain.NewEnvelope(domain.EventSyncTasks, h.store.Snapshot())
	if err != nil {
		h.logger.Errorf("encode snapshot: %v", err)
		return
	}
	data, err := sonic.Marshal(env)
	if err != nil {
		h.logger.Errorf("encode snapshot frame: %v", err)
		return
	}
	if !s.send(data) {
		delete(h.sessions, s)
		s.close()
	}
}

// apply executes one client intent against the store and broadcasts the
// confirmed event. Unknown-id mutations are silent no-ops with no
// broadcast; undecodable payloads are dropped without touching the
// connection.
func (h *Hub) apply(in inbound) {
	switch in.env.Type {
	case domain.EventTaskCreate:
		var t domain.Task
		if err := in.env.Decode(&t); err != nil {
			h.dropPayload(in, err)
			return
		}
		created := h.store.Create(t)
		h.broadcast(domain.EventTaskCreated, created)
	case domain.EventTaskUpdate:
		var p domain.TaskPatch
		if err := in.env.Decode(&p); err != nil {
			h.dropPayload(in, err)
			return
		}
		merged, ok := h.store.Update(p)
		if !ok {
			return
		}
		h.broadcast(domain.EventTaskUpdated, merged)
	case domain.EventTaskMove:
		var mv domain.Move
		if err := in.env.Decode(&mv); err != nil {
			h.dropPayload(in, err)
			return
		}
		if !h.store.Move(mv.TaskID, mv.NewStatus) {
			return
		}
		h.broadcast(domain.EventTaskMoved, mv)
	case domain.EventTaskDelete:
		var id string
		if err := in.env.Decode(&id); err != nil {
			h.dropPayload(in, err)
			return
		}
		if !h.store.Delete(id) {
			return
		}
		h.broadcast(domain.EventTaskDeleted, id)
	default:
		// not part of the client->server vocabulary
		h.logger.Warnf("dropping event of type %q", in.env.Type)
	}
}

// broadcast enqueues the event on every live session, the originator
// included. A session that cannot accept the event within sendWait is
// stuck and gets dropped rather than allowed to stall the others; a
// reader that is merely behind on a burst keeps its place.
func (h *Hub) broadcast(t domain.EventType, payload any) {
	env, err := domain.NewEnvelope(t, payload)
	if err != nil {
		h.logger.Errorf("encode %s: %v", t, err)
		return
	}
	data, err := sonic.Marshal(env)
	if err != nil {
		h.logger.Errorf("encode %s frame: %v", t, err)
		return
	}
	for s := range h.sessions {
		if !s.send(data) {
			h.logger.Warn("dropping slow session")
			delete(h.sessions, s)
			s.close()
		}
	}
}

func (h *Hub) dropPayload(in inbound, err error) {
	if in.sess != nil && in.sess.metrics != nil {
		in.sess.metrics.ObserveMalformed()
	}
	h.logger.Warnf("dropping %s with bad payload: %v", in.env.Type, err)
}
