package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/UladRH/quotes-assignment-task/pkg/catalog"
	"github.com/UladRH/quotes-assignment-task/pkg/session"
)

// ErrorResponse is the JSON error body for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleRollQuote serves one recommended quote, updating the session's
// recency list and roll counter.
func (s *Server) handleRollQuote(c *fiber.Ctx) error {
	state := s.sessionState(c)

	excludeIDs := s.tracker.RecentIDs(state)
	rolledCount := s.tracker.RollCount(state)

	q, err := s.service.RollQuote(c.Context(), excludeIDs, rolledCount)
	if err != nil {
		return s.errorResponse(c, err)
	}

	s.tracker.AddRolledID(state, q.QuoteID)

	return c.JSON(q)
}

// handleGetQuote returns a single quote by its id.
func (s *Server) handleGetQuote(c *fiber.Ctx) error {
	quoteID, ok := parseQuoteID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "quote id must be a positive integer"})
	}

	q, err := s.service.GetQuoteByID(c.Context(), quoteID)
	if err != nil {
		return s.errorResponse(c, err)
	}

	return c.JSON(q)
}

// handleGetSimilarQuotes returns quotes nearest to the given one, up to the
// configured batch cap.
func (s *Server) handleGetSimilarQuotes(c *fiber.Ctx) error {
	quoteID, ok := parseQuoteID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "quote id must be a positive integer"})
	}

	limit := c.QueryInt("limit", s.config.SimilarMaxLimit)
	if limit < 1 || limit > s.config.SimilarMaxLimit {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "limit must be between 1 and " + strconv.Itoa(s.config.SimilarMaxLimit),
		})
	}

	result, err := s.service.GetSimilarQuotes(c.Context(), quoteID, limit)
	if err != nil {
		return s.errorResponse(c, err)
	}

	return c.JSON(result)
}

// handleListQuotes returns one page of the catalog listing.
func (s *Server) handleListQuotes(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	skip := c.QueryInt("skip", 0)
	if limit < 0 || skip < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "limit and skip must be non-negative"})
	}

	page, err := s.service.GetPage(c.Context(), limit, skip)
	if err != nil {
		return s.errorResponse(c, err)
	}

	return c.JSON(page)
}

// handleLikeQuote records a like by the session user.
func (s *Server) handleLikeQuote(c *fiber.Ctx) error {
	quoteID, ok := parseQuoteID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "quote id must be a positive integer"})
	}

	actorID, err := s.tracker.UserID(s.sessionState(c))
	if err != nil {
		return s.errorResponse(c, err)
	}

	summary, err := s.service.Like(c.Context(), actorID, quoteID)
	if err != nil {
		return s.errorResponse(c, err)
	}

	return c.JSON(summary)
}

// handleUnlikeQuote removes the session user's like.
func (s *Server) handleUnlikeQuote(c *fiber.Ctx) error {
	quoteID, ok := parseQuoteID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "quote id must be a positive integer"})
	}

	actorID, err := s.tracker.UserID(s.sessionState(c))
	if err != nil {
		return s.errorResponse(c, err)
	}

	summary, err := s.service.Unlike(c.Context(), actorID, quoteID)
	if err != nil {
		return s.errorResponse(c, err)
	}

	return c.JSON(summary)
}

// parseQuoteID validates the :quoteId path parameter: the decimal string
// form of a positive integer, as the upstream catalog requires.
func parseQuoteID(c *fiber.Ctx) (string, bool) {
	raw := c.Params("quoteId")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return "", false
	}

	return raw, true
}

// errorResponse maps engine errors onto HTTP statuses.
func (s *Server) errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "quote not found"})
	case errors.Is(err, catalog.ErrInvalidID):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid quote id"})
	case errors.Is(err, session.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "session is not initialized"})
	default:
		s.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
	}
}
