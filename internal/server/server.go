// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"agora/internal/config"
	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/observability"
	"agora/internal/repository"
	"agora/internal/service"
	"agora/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

const requestTimeout = 10 * time.Second

var (
	promOnce       sync.Once
	promMiddleware *fiberprometheus.FiberPrometheus
)

// prometheusMiddleware registers the HTTP collectors once per process.
func prometheusMiddleware() *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMiddleware = fiberprometheus.New("agora-api")
	})
	return promMiddleware
}

// Deps are the already-initialised backends the server is built on.
type Deps struct {
	Store    *repository.Store
	Sessions session.Store
	// Redis is optional. When set it is part of the readiness check.
	Redis *redis.Client
}

// Server holds all dependencies and provides handlers
type Server struct {
	config   *config.Config
	store    *repository.Store
	sessions session.Store
	redis    *redis.Client
	app      *fiber.App
	prom     *fiberprometheus.FiberPrometheus

	users    *service.UserService
	auth     *service.AuthService
	contents *service.ContentService
	follows  *service.FollowService
	feed     *service.FeedService
	comments *service.CommentService
}

// NewServer wires the services over deps.
func NewServer(cfg *config.Config, deps Deps) *Server {
	store := deps.Store
	enricher := service.NewEnricher(store.Users, store.Contents, store.Images)

	return &Server{
		config:   cfg,
		store:    store,
		sessions: deps.Sessions,
		redis:    deps.Redis,
		prom:     prometheusMiddleware(),
		users:    service.NewUserService(store.Users, store.Follows, cfg.BcryptCost),
		auth:     service.NewAuthService(store.Users, deps.Sessions),
		contents: service.NewContentService(store.Contents, store.Images, enricher),
		follows:  service.NewFollowService(store.Users, store.Follows),
		feed:     service.NewFeedService(store.Follows, store.Contents, enricher),
		comments: service.NewCommentService(store.Comments, enricher),
	}
}

// App returns the configured fiber application, building it on first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	bodyLimit := s.config.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 10
	}

	app := fiber.New(fiber.Config{
		AppName:      "Agora API",
		BodyLimit:    bodyLimit << 20,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: s.errorHandler,
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())
	app.Use(s.prom.Middleware)
	app.Use(helmet.New(helmet.Config{
		// Inline data-URI images are part of the API responses.
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	s.prom.RegisterAt(app, "/metrics")

	prefix := s.config.APIPrefix
	api := app.Group(prefix)

	authRequired := middleware.AuthRequired(s.sessions)
	optionalAuth := middleware.OptionalAuth(s.sessions)

	users := api.Group("/users")
	users.Post("/", s.CreateUser)
	users.Get("/", optionalAuth, s.GetUsers)
	users.Put("/:id", authRequired, s.UpdateUser)

	login := api.Group("/login")
	login.Post("/", s.Login)
	login.Get("/", s.LoginStatus)
	login.Delete("/", s.Logout)

	contents := api.Group("/contents")
	contents.Post("/like", authRequired, s.ToggleLike)
	contents.Post("/", authRequired, s.CreateContent)
	contents.Get("/", optionalAuth, s.GetContents)

	api.Get("/feed", authRequired, s.GetFeed)

	follow := api.Group("/follow", authRequired)
	follow.Post("/", s.Follow)
	follow.Delete("/", s.Unfollow)

	comments := api.Group("/comments")
	comments.Post("/", authRequired, s.AddComment)
	comments.Get("/:contentId", s.GetComments)
	comments.Delete("/:id", authRequired, s.DeleteComment)

	if s.config.StaticDir != "" {
		app.Static("/", s.config.StaticDir)
	}
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC(),
	})
}

// ReadinessCheck reports whether the store, and Redis when configured, answer.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	checks := fiber.Map{}
	healthy := true

	dbStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		observability.Ctx(ctx).Warn().Err(err).Msg("store readiness check failed")
		dbStatus = "unhealthy"
		healthy = false
	}
	checks["database"] = dbStatus

	if s.redis != nil {
		redisStatus := "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			observability.Ctx(ctx).Warn().Err(err).Msg("redis readiness check failed")
			redisStatus = "unhealthy"
			healthy = false
		}
		checks["redis"] = redisStatus
	}

	status := fiber.StatusOK
	overall := "healthy"
	if !healthy {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  overall,
		"backend": s.store.Backend,
		"checks":  checks,
		"time":    time.Now().UTC(),
	})
}

// errorHandler renders errors that escaped the handlers, such as unknown
// routes, oversized bodies and recovered panics.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := models.CodeInternal
		switch {
		case fe.Code == fiber.StatusNotFound:
			code = models.CodeNotFound
		case fe.Code == fiber.StatusUnauthorized:
			code = models.CodeUnauthorized
		case fe.Code < fiber.StatusInternalServerError:
			code = models.CodeValidation
		}
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message, Code: code})
	}

	observability.Ctx(c.UserContext()).Error().Err(err).Msg("unhandled error")
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// Start starts the server
func (s *Server) Start() error {
	observability.L().Info().Str("port", s.config.Port).Str("prefix", s.config.APIPrefix).Msg("server starting")
	return s.App().Listen(":" + s.config.Port)
}

// Shutdown gracefully drains HTTP connections. Backends are closed by their owner.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app == nil {
		return nil
	}
	return s.app.ShutdownWithContext(ctx)
}
