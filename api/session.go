package api

import (
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/Hrick-08/websocket-kanban-vitest-playwright-2026/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 64 * 1024
	outboundBuffer = 256

	// sendWait bounds how long a full outbound queue may hold up a
	// broadcast before the session is considered stuck. A reader that is
	// merely behind on a burst frees queue space well within this window;
	// one that never drains does not.
	sendWait = time.Second
)

// session is one websocket connection. The read pump feeds intents to
// the hub; the write pump drains the outbound queue. The queue is
// buffered so a slow reader never blocks the hub.
type session struct {
	hub     *Hub
	conn    *websocket.Conn
	metrics *connMetrics

	out       chan []byte
	closeOnce sync.Once
}

func newSession(hub *Hub, conn *websocket.Conn, metrics *connMetrics) *session {
	return &session{
		hub:     hub,
		conn:    conn,
		metrics: metrics,
		out:     make(chan []byte, outboundBuffer),
	}
}

// send enqueues a frame, first without blocking, then waiting up to
// sendWait for the write pump to free space. False means the session is
// stuck and the hub should give up on it.
func (s *session) send(data []byte) bool {
	select {
	case s.out <- data:
		return true
	default:
	}

	timer := time.NewTimer(sendWait)
	defer timer.Stop()
	select {
	case s.out <- data:
		return true
	case <-timer.C:
		return false
	}
}

// close shuts the outbound queue, which makes the write pump send a
// close frame and tear the connection down.
func (s *session) close() {
	s.closeOnce.Do(func() { close(s.out) })
}

// readPump decodes inbound frames and hands them to the hub until the
// connection drops. Undecodable frames are dropped; the connection
// stays up.
func (s *session) readPump() {
	defer func() {
		s.hub.detach(s)
		s.conn.Close()
	}()
	s.conn.SetReadLimit(maxFrameSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(pongWait))

		var env domain.Envelope
		if err := sonic.Unmarshal(data, &env); err != nil {
			s.metrics.ObserveMalformed()
			s.hub.logger.Warnf("dropping malformed frame: %v", err)
			continue
		}
		s.metrics.ObserveIntent()
		if !s.hub.submit(inbound{sess: s, env: env}) {
			return
		}
	}
}

// writePump owns all writes on the connection.
func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()
	for {
		select {
		case data, ok := <-s.out:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
