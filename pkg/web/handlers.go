package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-motion/internal/log"
	"github.com/teslashibe/go-motion/pkg/behavior"
	"github.com/teslashibe/go-motion/pkg/hub"
	"github.com/teslashibe/go-motion/pkg/protocol"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 1000
)

// handleStatus returns the latest cycle's telemetry
func (s *Server) handleStatus(c *fiber.Ctx) error {
	if s.opts.Status == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "control loop not attached")
	}
	t, ok := s.opts.Status.Snapshot()
	if !ok {
		return fiber.NewError(fiber.StatusServiceUnavailable, "no cycle has run yet")
	}
	return c.JSON(t)
}

// handleMotions lists the loaded motions
func (s *Server) handleMotions(c *fiber.Ctx) error {
	motions := s.opts.Motions
	if motions == nil {
		motions = []MotionInfo{}
	}
	return c.JSON(motions)
}

// handleEvents returns recent playback events
func (s *Server) handleEvents(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultEventLimit)
	if limit <= 0 || limit > maxEventLimit {
		return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 1000")
	}

	events, err := s.opts.Events.Recent(c.UserContext(), limit)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(events)
}

// FallStateRequest is the request body for /api/fall-state. An empty
// FallState clears the override.
type FallStateRequest struct {
	FallState string `json:"fall_state"`
}

// handleFallState overrides the detected fall state
func (s *Server) handleFallState(c *fiber.Ctx) error {
	if s.opts.OnFallState == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
			"error": "fall state override not configured",
		})
	}

	var req FallStateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body: "+err.Error())
	}

	var state behavior.FallState
	if req.FallState != "" {
		parsed, ok := behavior.ParseFallState(req.FallState)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "unknown fall state "+req.FallState)
		}
		state = parsed
	}

	s.opts.OnFallState(state)
	s.mu.Lock()
	s.fallState = req.FallState
	s.mu.Unlock()

	if msg, err := protocol.NewFallStateMessage(req.FallState); err == nil {
		s.broadcast(msg)
	}

	return c.JSON(fiber.Map{
		"fall_state": req.FallState,
	})
}

// handleStatusWS streams telemetry and events. The latest snapshot is sent
// on connect; pings are answered with pongs.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	client := hub.NewClient(s.statusHub, c)
	client.OnMessage = func(data []byte) {
		msg, err := protocol.ParseMessage(data)
		if err != nil {
			log.Debug("ignoring websocket message", "error", err)
			return
		}
		if msg.Type == protocol.TypePing {
			if pong, err := protocol.NewPongMessage().Bytes(); err == nil {
				client.Send(hub.NewMessage(pong))
			}
		}
	}

	if s.opts.Status != nil {
		if t, ok := s.opts.Status.Snapshot(); ok {
			if msg, err := protocol.NewTelemetryMessage(t); err == nil {
				if data, err := msg.Bytes(); err == nil {
					client.Send(hub.NewMessage(data))
				}
			}
		}
	}

	client.Run()
}
