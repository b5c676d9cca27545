// Package web provides the live dashboard of the control loop: a small
// JSON API and a websocket stream of telemetry and playback events.
package web

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-motion/internal/log"
	"github.com/teslashibe/go-motion/pkg/behavior"
	"github.com/teslashibe/go-motion/pkg/control"
	"github.com/teslashibe/go-motion/pkg/hub"
	"github.com/teslashibe/go-motion/pkg/protocol"
)

// DefaultBroadcastEvery sends every 4th cycle's telemetry to websocket
// clients (~20Hz at the default cycle period).
const DefaultBroadcastEvery = 4

// StatusSource provides the latest cycle's telemetry.
type StatusSource interface {
	Snapshot() (control.Telemetry, bool)
}

// EventStore returns recent playback events, oldest first.
type EventStore interface {
	Recent(ctx context.Context, n int) ([]control.Event, error)
}

// MotionInfo describes a loaded motion.
type MotionInfo struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Mode        string  `json:"interpolation_mode"`
	Frames      int     `json:"frames"`
	DurationSec float64 `json:"duration_sec"`
	Source      string  `json:"source"`
}

// Options configures a Server.
type Options struct {
	Port   int
	Status StatusSource

	// Events defaults to an in-memory log fed by Publish.
	Events  EventStore
	Motions []MotionInfo

	// BroadcastEvery thins out telemetry on the websocket stream.
	BroadcastEvery uint64

	// OnFallState receives overrides posted to /api/fall-state; nil clears
	// the override. When unset the endpoint is disabled.
	OnFallState func(behavior.FallState)
}

// Server is the web dashboard server. It implements control.Sink.
type Server struct {
	app  *fiber.App
	opts Options

	statusHub *hub.Hub
	eventLog  *EventLog

	mu        sync.RWMutex
	fallState string
}

// NewServer creates a new dashboard server.
func NewServer(opts Options) *Server {
	if opts.BroadcastEvery == 0 {
		opts.BroadcastEvery = DefaultBroadcastEvery
	}

	s := &Server{
		opts:      opts,
		statusHub: hub.New("status"),
		eventLog:  NewEventLog(DefaultEventLogSize),
	}
	if s.opts.Events == nil {
		s.opts.Events = s.eventLog
	}

	app := fiber.New(fiber.Config{
		AppName:               "go-motion dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/motions", s.handleMotions)
	api.Get("/events", s.handleEvents)
	api.Post("/fall-state", s.handleFallState)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// App returns the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start serves on the configured port until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.opts.Port))
	if err != nil {
		return fmt.Errorf("dashboard listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go s.statusHub.Run(ctx)
	go func() {
		<-ctx.Done()
		if err := s.app.Shutdown(); err != nil {
			log.Warn("dashboard shutdown failed", "error", err)
		}
	}()

	log.Info("web dashboard listening", "addr", "http://"+ln.Addr().String())
	if err := s.app.Listener(ln); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

// Publish implements control.Sink: it records the cycle's events and
// streams telemetry to connected clients.
func (s *Server) Publish(_ context.Context, t control.Telemetry) error {
	for _, ev := range t.Events {
		s.eventLog.Add(ev)
		msg, err := protocol.NewEventMessage(ev)
		if err != nil {
			return err
		}
		s.broadcast(msg)
	}

	if s.statusHub.ClientCount() == 0 || t.Cycle%s.opts.BroadcastEvery != 0 {
		return nil
	}
	msg, err := protocol.NewTelemetryMessage(t)
	if err != nil {
		return err
	}
	s.broadcast(msg)
	return nil
}

func (s *Server) broadcast(msg *protocol.Message) {
	data, err := msg.Bytes()
	if err != nil {
		log.Warn("failed to encode dashboard message", "type", msg.Type, "error", err)
		return
	}
	s.statusHub.Broadcast(hub.NewMessage(data))
}

// FallStateOverride returns the override last posted, or "".
func (s *Server) FallStateOverride() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fallState
}
