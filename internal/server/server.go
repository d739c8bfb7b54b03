// Package server exposes the analyzer and its collaborators over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ingestion"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/reports"
	"github.com/spigell/resume-matcher/internal/scoring"
)

// DefaultBodyLimit leaves room for base64 overhead on top of the default upload limit.
const DefaultBodyLimit = 16 << 20

// Deps are the collaborators the handlers call.
type Deps struct {
	Analyzer *scoring.Analyzer
	Uploads  *ingestion.Service
	Reports  reports.Store
	Logger   *zap.Logger
}

// Options tune the fiber app.
type Options struct {
	BodyLimit   int
	AccessLog   bool
	CORSOrigins string
}

// Server wraps the fiber app.
type Server struct {
	app    *fiber.App
	deps   Deps
	logger *zap.Logger
}

// New builds the app and registers every route.
func New(deps Deps, opts Options) (*Server, error) {
	if deps.Analyzer == nil {
		return nil, errors.New("analyzer is required")
	}
	if deps.Uploads == nil {
		return nil, errors.New("upload service is required")
	}
	if deps.Reports == nil {
		return nil, errors.New("report store is required")
	}
	if opts.BodyLimit <= 0 {
		opts.BodyLimit = DefaultBodyLimit
	}
	if opts.CORSOrigins == "" {
		opts.CORSOrigins = "*"
	}

	s := &Server{deps: deps, logger: logger.WithFields(deps.Logger, zap.String("component", "http"))}

	s.app = fiber.New(fiber.Config{
		AppName:               "resume-matcher",
		DisableStartupMessage: true,
		BodyLimit:             opts.BodyLimit,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, HEAD",
	}))
	if opts.AccessLog {
		s.app.Use(s.accessLog)
	}

	s.routes()

	return s, nil
}

func (s *Server) routes() {
	s.app.Get("/health", s.health)

	api := s.app.Group("/api")
	api.Post("/uploads", s.uploadJSON)
	api.Post("/uploads/form", s.uploadForm)
	api.Post("/analyze", s.analyze)
	api.Get("/reports/:id", s.getReport)
}

// accessLog writes one line per request. Errors are rendered by the error
// handler after the chain returns, so their status is derived here.
func (s *Server) accessLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status, _, _ = classify(err)
	}

	s.logger.Info("request",
		zap.Int("status", status),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Duration("latency", time.Since(start)),
	)

	return err
}

// App exposes the underlying fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks until the listener fails or Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	if err := s.app.Listen(addr); err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
