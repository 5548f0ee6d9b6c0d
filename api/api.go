package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"

	"github.com/UladRH/quotes-assignment-task/pkg/quotes"
	"github.com/UladRH/quotes-assignment-task/pkg/session"
)

// Server is the HTTP API server for rolling, browsing, and rating quotes.
type Server struct {
	config   Config
	service  *quotes.Service
	tracker  *session.Tracker
	sessions *fibersession.Store
	logger   *zap.Logger
	app      *fiber.App
}

// NewServer creates a new API server. The engine service and session
// tracker are injected so tests can drive them directly.
func NewServer(config Config, service *quotes.Service, tracker *session.Tracker, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	cookieKey := config.CookieSecret
	if cookieKey == "" {
		cookieKey = encryptcookie.GenerateKey()
		logger.Warn("no cookie secret configured, sessions will not survive restarts")
	}

	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: cookieKey,
	}))

	s := &Server{
		config:   config,
		service:  service,
		tracker:  tracker,
		sessions: fibersession.New(),
		logger:   logger,
		app:      app,
	}

	app.Get("/ping", s.handlePing)

	quotesGroup := app.Group("/quotes", s.withSession)
	quotesGroup.Get("/", s.handleListQuotes)
	quotesGroup.Get("/roll", s.handleRollQuote)
	quotesGroup.Get("/:quoteId", s.handleGetQuote)
	quotesGroup.Get("/:quoteId/similar", s.handleGetSimilarQuotes)
	quotesGroup.Post("/:quoteId/likes", s.handleLikeQuote)
	quotesGroup.Delete("/:quoteId/likes", s.handleUnlikeQuote)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
