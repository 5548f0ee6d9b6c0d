package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/UladRH/quotes-assignment-task/pkg/session"
)

const (
	// sessionStateKey is the key the typed state record is stored under in
	// the transport session bag.
	sessionStateKey = "state"

	// localsStateKey is the fiber locals key carrying the decoded state
	// through one request.
	localsStateKey = "session_state"
)

// withSession decodes the typed session state from the cookie-backed
// session bag, lazily initializes it, makes it available to handlers, and
// persists it back after the handler ran. This adapter is the only place
// that touches the raw session carrier; the engine only ever sees the
// typed record.
func (s *Server) withSession(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		s.logger.Error("failed to load session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "session unavailable"})
	}

	state := &session.State{}
	if raw, ok := sess.Get(sessionStateKey).(string); ok && raw != "" {
		// Malformed state reads as a fresh session rather than an error.
		if err := json.Unmarshal([]byte(raw), state); err != nil {
			s.logger.Warn("discarding malformed session state", zap.Error(err))
			state = &session.State{}
		}
	}

	s.tracker.EnsureInitialized(state)
	c.Locals(localsStateKey, state)

	handlerErr := c.Next()

	raw, err := json.Marshal(state)
	if err != nil {
		s.logger.Error("failed to encode session state", zap.Error(err))
		return handlerErr
	}

	sess.Set(sessionStateKey, string(raw))
	if err := sess.Save(); err != nil {
		s.logger.Error("failed to save session", zap.Error(err))
	}

	return handlerErr
}

// sessionState returns the request's decoded session state.
func (s *Server) sessionState(c *fiber.Ctx) *session.State {
	state, _ := c.Locals(localsStateKey).(*session.State)
	return state
}
