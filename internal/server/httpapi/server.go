// Package httpapi exposes the tracker over HTTP/JSON: the auth endpoint and
// the token-guarded subject and attempt endpoints, with permissive CORS for
// the browser frontend.
package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/egetrack/egetrack/internal/logging"
	"github.com/egetrack/egetrack/internal/server/services"
)

type Server struct {
	address  string
	logger   logging.Logger
	users    *services.UserService
	subjects *services.SubjectService
	attempts *services.AttemptService
	secret   []byte
	app      *fiber.App
}

func NewServer(address string, l logging.Logger, us *services.UserService, ss *services.SubjectService, as *services.AttemptService, secretKey string) *Server {
	s := &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		users:    us,
		subjects: ss,
		attempts: as,
		secret:   []byte(secretKey),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type, X-Auth-Token",
		MaxAge:       86400,
	}))
	app.Use(s.requestLogger)

	app.Post("/api/auth", s.handleAuth)

	subjects := app.Group("/api/subjects", s.requireAuth)
	subjects.Get("/", s.handleListSubjects)
	subjects.Post("/", s.handleCreateSubject)
	subjects.Put("/", s.handleArchiveSubject)
	subjects.Delete("/", s.handleDeleteSubject)

	attempts := app.Group("/api/attempts", s.requireAuth)
	attempts.Get("/", s.handleListAttempts)
	attempts.Post("/", s.handleRecordAttempt)

	s.app = app
	return s
}

// App exposes the underlying fiber app, used by tests via app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		_ = s.app.ShutdownWithTimeout(5 * time.Second)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	return s.app.Listen(s.address)
}
