// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mesto/auth"
	"mesto/cache"
	"mesto/config"
	"mesto/database"
	"mesto/middleware"
	"mesto/models"
	"mesto/repository"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config   *config.Config
	db       *gorm.DB
	redis    *redis.Client
	limiter  *middleware.Limiter
	tokens   *auth.TokenService
	userRepo repository.UserRepository
	cardRepo repository.CardRepository
	prom     *fiberprometheus.FiberPrometheus
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Initialize Redis
	cache.InitRedis(cfg.RedisURL)

	s, err := NewServerWithDeps(cfg, db, cache.GetClient())
	if err != nil {
		return nil, err
	}
	s.prom = fiberprometheus.New("mesto")
	return s, nil
}

// NewServerWithDeps creates a server around already-initialized dependencies.
// Used directly by tests, which supply an in-memory database.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:   cfg,
		db:       db,
		redis:    rdb,
		limiter:  middleware.NewLimiter(rdb, cfg.Env == "test"),
		tokens:   tokens,
		userRepo: repository.NewUserRepository(db),
		cardRepo: repository.NewCardRepository(db),
	}, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Request ID for tracing
	app.Use(requestid.New())

	// Recover from handler panics
	app.Use(recover.New())

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware
	app.Use(middleware.StructuredLogger())

	// Prometheus metrics
	if s.prom != nil {
		s.prom.RegisterAt(app, "/metrics")
		app.Use(s.prom.Middleware)
	}

	origins := s.config.AllowedOrigins
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health check
	app.Get("/healthz", s.HealthCheck)

	// Auth routes
	app.Post("/signup", s.limiter.Limit("signup", 3, 10*time.Minute), s.Signup)
	app.Post("/signin", s.limiter.Limit("signin", 10, 5*time.Minute), s.Signin)

	// Protected routes
	protected := app.Group("", s.AuthRequired())

	// User routes
	users := protected.Group("/users")
	users.Get("/", s.GetAllUsers)
	// Define /me routes BEFORE generic /:id route
	users.Get("/me", s.GetMyProfile)
	users.Patch("/me", s.UpdateMyProfile)
	users.Patch("/me/avatar", s.UpdateMyAvatar)
	users.Get("/:id", s.GetUserProfile)

	// Card routes
	cards := protected.Group("/cards")
	cards.Get("/", s.GetCards)
	cards.Post("/", s.CreateCard)
	cards.Delete("/:id", s.DeleteCard)
	cards.Put("/:id/likes", s.LikeCard)
	cards.Delete("/:id/likes", s.UnlikeCard)
}

// HealthCheck handles health check requests
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "ok"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. A missing or malformed
// Authorization header is rejected before the token service is consulted;
// no persistence lookup happens here, the verified claim is trusted as-is.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return models.RespondWithError(c,
				models.NewAuthenticationError("Authorization required"))
		}

		userID, err := s.tokens.Verify(parts[1])
		if err != nil {
			return models.RespondWithError(c, err)
		}

		// Store user ID in context
		c.Locals("userID", userID)

		return c.Next()
	}
}

// App builds the Fiber application with middleware and routes configured.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Mesto API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Single top-level boundary for anything handlers did not
			// reclassify themselves.
			slog.Error("unhandled error", "path", c.Path(), "error", err)
			return models.RespondWithError(c, err)
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	slog.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			slog.Error("error closing sql DB", "error", cerr)
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			slog.Error("error closing redis", "error", rerr)
		}
	}

	slog.Info("server shutdown complete")
	return nil
}
