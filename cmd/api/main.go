package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/cardlet/cardlet-invites/internal/http/handlers"
	"github.com/cardlet/cardlet-invites/internal/http/middleware"
	"github.com/cardlet/cardlet-invites/internal/repository"
	"github.com/cardlet/cardlet-invites/internal/service"
	"github.com/cardlet/cardlet-invites/pkg/config"
	"github.com/cardlet/cardlet-invites/pkg/database"
	"github.com/cardlet/cardlet-invites/pkg/events"
	"github.com/cardlet/cardlet-invites/pkg/logger"
	mw "github.com/cardlet/cardlet-invites/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Event bus and redis are optional in development: the API degrades to
	// no notifications and no rate limiting rather than refusing to start.
	var eventBus events.Publisher
	if bus, err := events.NewNATSEventBus(cfg.NATS.URL); err != nil {
		logger.Warn("NATS unavailable, lifecycle events disabled", "error", err)
	} else {
		eventBus = bus
		defer bus.Close()
	}

	redisClient := connectRedis(ctx, cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	rsvpRepo := repository.NewRSVPRepository(pool)

	// Services
	userService := service.NewUserService(userRepo, cfg)
	eventService := service.NewEventService(eventRepo, userRepo, eventBus)
	rsvpService := service.NewRSVPService(rsvpRepo, eventRepo, eventBus)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler()
	eventHandler := handlers.NewEventHandler(eventService, rsvpService)
	shareHandler := handlers.NewShareHandler(eventService, rsvpService)
	rsvpHandler := handlers.NewRSVPHandler(rsvpService)

	share := cfg.Share()
	viewLimiter := middleware.NewRateLimiter(redisClient, "share-view", share.ViewLimit, share.LimitWindow)
	rsvpLimiter := middleware.NewRateLimiter(redisClient, "share-rsvp", share.RSVPLimit, share.LimitWindow)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(mw.CORS)
	r.Use(middleware.Authenticate(cfg.Auth.JWTSecret, userService))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes())

		// Public share surface; registered before the /events mount so the
		// static segment wins over the {id} routes.
		r.Route("/events/share/{shareLink}", func(r chi.Router) {
			r.With(viewLimiter.Middleware()).Get("/", shareHandler.View)
			r.With(rsvpLimiter.Middleware()).Post("/rsvp", shareHandler.CreateRSVP)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Mount("/users", userHandler.Routes())
			r.Mount("/events", eventHandler.Routes())
			r.Mount("/rsvp", rsvpHandler.Routes())
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down api...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	logger.Info("Starting api", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		logger.Warn("Invalid REDIS_URL, rate limiting disabled", "error", err)
		return nil
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.DB = cfg.DB

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, rate limiting disabled", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}
