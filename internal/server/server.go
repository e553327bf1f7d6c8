package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeusync/arena/internal/core/engine"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
)

// Config configures the debug inspector.
type Config struct {
	// ListenAddr is the TCP address served by Start. Port 0 picks a free one.
	ListenAddr string
	// MaxClients caps concurrent websocket viewers.
	MaxClients int
	// Every broadcasts one frame out of Every. Zero means every frame.
	Every uint64
	// SendBuffer is the per-client queue length; frames beyond it are dropped.
	SendBuffer int
	// WriteTimeout bounds a single websocket write.
	WriteTimeout time.Duration
	// Token, when set, must be passed as ?token= or a Bearer header.
	Token string
}

// DefaultConfig returns the inspector defaults.
func DefaultConfig() Config {
	return Config{
		ListenAddr:   "127.0.0.1:7070",
		MaxClients:   8,
		Every:        1,
		SendBuffer:   16,
		WriteTimeout: 2 * time.Second,
	}
}

func (c Config) validate() error {
	switch {
	case c.ListenAddr == "":
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	case c.MaxClients <= 0:
		return fmt.Errorf("%w: max clients must be positive", ErrInvalidConfig)
	case c.SendBuffer <= 0:
		return fmt.Errorf("%w: send buffer must be positive", ErrInvalidConfig)
	case c.WriteTimeout <= 0:
		return fmt.Errorf("%w: write timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// Inspector serves read-only frame snapshots over HTTP and websocket.
//
// It listens for bus.EventFrameCompleted on the frame thread, encodes the
// snapshot once and fans it out to connected viewers without blocking the
// frame. Control messages from viewers are queued and published on the
// next completed frame so bus listeners never run off the frame thread.
type Inspector struct {
	config Config
	bus    bus.EventBus
	logger log.Log
	sub    bus.Subscription

	running int32
	closed  int32

	httpServer *http.Server
	listener   net.Listener
	serveDone  chan struct{}

	clients     sync.Map
	clientCount int64
	nextID      uint64

	latestMu sync.RWMutex
	latest   []byte
	status   Health

	commands chan ControlMessage
}

// New subscribes the inspector to frame completions on b.
func New(config Config, b bus.EventBus, logger log.Log) (*Inspector, error) {
	if b == nil {
		return nil, ErrNilBus
	}
	if config.Every == 0 {
		config.Every = 1
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	ins := &Inspector{
		config:   config,
		bus:      b,
		logger:   log.OrNop(logger).With(log.String("component", "inspector")),
		status:   Health{Status: "ok"},
		commands: make(chan ControlMessage, 32),
	}

	sub, err := b.Subscribe(bus.EventFrameCompleted, ins)
	if err != nil {
		return nil, fmt.Errorf("subscribe frames: %w", err)
	}
	ins.sub = sub

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", ins.handleHealth)
	mux.Handle("/snapshot", ins.tokenAuth(http.HandlerFunc(ins.handleSnapshot)))
	mux.Handle("/ws", ins.tokenAuth(http.HandlerFunc(ins.handleWebSocket)))
	ins.httpServer = &http.Server{
		Addr:              config.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ins.logger.Info("Inspector created",
		log.String("listen_addr", config.ListenAddr),
		log.Int("max_clients", config.MaxClients))

	return ins, nil
}

// ServeHTTP lets the inspector be mounted without Start.
func (s *Inspector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// Start binds the listener and serves in the background.
func (s *Inspector) Start(_ context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		s.logger.Error("Failed to create listener", log.Error(err))
		return fmt.Errorf("%w: %w", ErrListenerFailed, err)
	}
	s.listener = listener
	s.serveDone = make(chan struct{})

	go func() {
		defer close(s.serveDone)
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Inspector serve failed", log.Error(err))
		}
	}()

	s.logger.Info("Inspector listening", log.String("addr", listener.Addr().String()))
	return nil
}

// Addr is the bound address, or nil before Start.
func (s *Inspector) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop disconnects viewers and shuts the HTTP server down.
func (s *Inspector) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}

	s.logger.Info("Stopping inspector")

	// Hijacked connections are not tracked by Shutdown.
	s.disconnectAll()

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Warn("Inspector shutdown incomplete", log.ErrorWithKey("shutdown_error", err))
	}
	if s.serveDone != nil {
		<-s.serveDone
	}

	s.logger.Info("Inspector stopped")
	return err
}

// Close stops the server if needed and cancels the bus subscription.
func (s *Inspector) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	if atomic.LoadInt32(&s.running) == 1 {
		_ = s.Stop(context.Background())
	}
	s.disconnectAll()
	if s.sub != nil {
		_ = s.sub.Cancel()
	}
	return nil
}

// ClientCount reports websocket viewers holding a slot, including ones
// still completing the handshake.
func (s *Inspector) ClientCount() int {
	return int(atomic.LoadInt64(&s.clientCount))
}

// OnEvent handles bus.EventFrameCompleted.
func (s *Inspector) OnEvent(event bus.Event) error {
	if event.Type() != bus.EventFrameCompleted {
		return nil
	}
	s.applyCommands()

	raw, ok := event.Param("snapshot")
	if !ok {
		return nil
	}
	snap, ok := raw.(engine.FrameSnapshot)
	if !ok {
		return fmt.Errorf("%w: snapshot has type %T", ErrInvalidMessage, raw)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	s.latestMu.Lock()
	s.latest = data
	s.status.Frame = snap.Frame
	s.status.Scene = snap.Scene
	s.status.Depth = snap.Depth
	s.status.WorldPaused = snap.WorldPaused
	s.status.EntitiesPaused = snap.EntitiesPaused
	s.status.Entities = len(snap.Entities)
	s.latestMu.Unlock()

	if snap.Frame%s.config.Every != 0 {
		return nil
	}
	s.broadcast(data)
	return nil
}

func (s *Inspector) broadcast(data []byte) {
	s.clients.Range(func(_, value any) bool {
		if c, ok := value.(*client); ok {
			c.enqueue(data)
		}
		return true
	})
}

// applyCommands publishes queued viewer commands. Runs on the frame thread.
func (s *Inspector) applyCommands() {
	for {
		select {
		case cmd := <-s.commands:
			kind := cmd.eventKind()
			if kind == "" {
				continue
			}
			if err := s.bus.Publish(bus.NewEvent(kind, "inspector", nil)); err != nil {
				s.logger.Warn("Inspector command failed",
					log.String("action", cmd.Action), log.Error(err))
			}
		default:
			return
		}
	}
}

func (s *Inspector) disconnectAll() {
	s.clients.Range(func(_, value any) bool {
		if c, ok := value.(*client); ok {
			c.close()
		}
		return true
	})
}
