package server

import (
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// ControlMessage is sent by viewers to steer the running game.
//
// "pause" publishes game.paused, which freezes entity updates only.
// Movement, collision and the scenes keep running; snapshots report it as
// entities_paused. "resume" publishes game.resumed.
type ControlMessage struct {
	Action string `json:"action"`
}

const (
	ActionPause  = "pause"
	ActionResume = "resume"
)

func (m ControlMessage) eventKind() string {
	switch m.Action {
	case ActionPause:
		return bus.EventPaused
	case ActionResume:
		return bus.EventResumed
	default:
		return ""
	}
}

type client struct {
	id     uint64
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	drops  uint64
	server *Inspector
}

// enqueue never blocks the frame; a slow viewer loses frames.
func (c *client) enqueue(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		atomic.AddUint64(&c.drops, 1)
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (s *Inspector) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// the slot is reserved before the upgrade and released by readLoop
	if atomic.AddInt64(&s.clientCount, 1) > int64(s.config.MaxClients) {
		atomic.AddInt64(&s.clientCount, -1)
		s.logger.Warn("Maximum clients reached, rejecting viewer",
			log.String("remote_addr", r.RemoteAddr))
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		atomic.AddInt64(&s.clientCount, -1)
		s.logger.Debug("Websocket upgrade failed", log.Error(err))
		return
	}

	c := &client{
		id:     atomic.AddUint64(&s.nextID, 1),
		conn:   conn,
		send:   make(chan []byte, s.config.SendBuffer),
		done:   make(chan struct{}),
		server: s,
	}
	s.clients.Store(c.id, c)

	s.logger.Info("Viewer connected",
		log.Uint64("client_id", c.id),
		log.String("remote_addr", conn.RemoteAddr().String()),
		log.Int64("total_clients", atomic.LoadInt64(&s.clientCount)))

	s.latestMu.RLock()
	latest := s.latest
	s.latestMu.RUnlock()
	if latest != nil {
		c.enqueue(latest)
	}

	go c.writeLoop()
	c.readLoop()
}

func (c *client) readLoop() {
	s := c.server
	defer func() {
		c.close()
		s.clients.Delete(c.id)
		atomic.AddInt64(&s.clientCount, -1)
		s.logger.Info("Viewer disconnected",
			log.Uint64("client_id", c.id),
			log.Uint64("dropped_frames", atomic.LoadUint64(&c.drops)),
			log.Int64("total_clients", atomic.LoadInt64(&s.clientCount)))
	}()

	for {
		var msg ControlMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.eventKind() == "" {
			s.logger.Warn("Ignored viewer message",
				log.Uint64("client_id", c.id), log.Any("message", msg))
			continue
		}
		select {
		case s.commands <- msg:
		default:
			s.logger.Warn("Command queue full", log.String("action", msg.Action))
		}
	}
}

func (c *client) writeLoop() {
	timeout := c.server.config.WriteTimeout
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close()
				return
			}
		}
	}
}

// tokenAuth rejects requests without the configured token.
func (s *Inspector) tokenAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		token := r.URL.Query().Get("token")
		if token == "" {
			token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if token != s.config.Token {
			http.Error(w, ErrUnauthorized.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
