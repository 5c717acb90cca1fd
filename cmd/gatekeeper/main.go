package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/layer-3/gatekeeper/adapters/events"
	"github.com/layer-3/gatekeeper/adapters/store"
	"github.com/layer-3/gatekeeper/adapters/tokenizer"
	"github.com/layer-3/gatekeeper/adapters/users"
	"github.com/layer-3/gatekeeper/config"
	"github.com/layer-3/gatekeeper/internal/ratelimit"
	"github.com/layer-3/gatekeeper/ports"
	"github.com/layer-3/gatekeeper/service"
	transport "github.com/layer-3/gatekeeper/transport/http"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var (
		replayStore ports.ReplayStore
		limiter     ratelimit.Limiter
		eventPub    ports.EventPublisher
	)

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}

		replayStore = store.NewRedisStore(redisClient, "gatekeeper:")
		limiter = ratelimit.NewRedisLimiter(redisClient, "gatekeeper:rl:")

		logger := watermill.NewStdLogger(false, false)
		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			logger,
		)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}
		eventPub = events.NewWatermillPublisher(publisher)
	} else {
		// Single-instance mode: in-memory stores with an hourly expiry sweep.
		memStore := store.NewMemoryStore()
		memLimiter := ratelimit.NewMemoryLimiter()

		storeSweeper := store.NewSweeper(memStore, time.Hour)
		storeSweeper.Start(ctx)
		defer storeSweeper.Stop()

		limiterSweeper := store.NewSweeper(memLimiter, time.Hour)
		limiterSweeper.Start(ctx)
		defer limiterSweeper.Stop()

		replayStore = memStore
		limiter = memLimiter
		eventPub = events.NewLogPublisher()
	}

	authService := service.NewAuthService(
		tokenizer.NewJWTTokenizer([]byte(cfg.Secret)),
		replayStore,
		users.NewMemoryDirectory(),
		eventPub,
		cfg.Domain,
		cfg.ChainID,
	)
	csrfService := service.NewCSRFService(replayStore)

	router := transport.SetupRouter(authService, csrfService, limiter, transport.RouterOptions{
		CSRFMode:    cfg.CSRFMode,
		CORSOrigins: cfg.CORSOrigins,
		Cookies: transport.CookieOptions{
			Secure:   cfg.CookieSecure,
			SameSite: cfg.CookieSameSite,
		},
	})

	// Request deadlines so a stuck client cannot hold a rate-limit slot.
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("gatekeeper listening on %s (csrf mode: %s)", cfg.ListenAddr, cfg.CSRFMode)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
