package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dastarkhwan/backend/internal/cache"
	"github.com/dastarkhwan/backend/internal/catalog"
	"github.com/dastarkhwan/backend/internal/delivery/http"
	"github.com/dastarkhwan/backend/internal/domain"
	"github.com/dastarkhwan/backend/internal/geo"
	"github.com/dastarkhwan/backend/internal/metrics"
	"github.com/dastarkhwan/backend/internal/repository/postgres"
	"github.com/dastarkhwan/backend/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Configuration
	cfg := loadConfig()
	bounds := cfg.Bounds

	// Database connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo service.AreaRepository
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err == nil {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			pool.Close()
			pool, err = nil, pingErr
		}
	}
	if pool == nil {
		log.Printf("Warning: Could not connect to database: %v", err)
		log.Println("Running with in-memory catalog only")
		mock := postgres.NewMockRepository()
		mock.SeedDemo()
		repo = mock
	} else {
		defer pool.Close()
		log.Println("Connected to PostgreSQL")
		pg := postgres.NewPostgresRepository(pool)
		if err := pg.Migrate(ctx); err != nil {
			log.Fatalf("Schema migration failed: %v", err)
		}
		repo = pg
	}

	// Optional Redis verdict cache
	var verdictCache *cache.VerdictCache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Invalid REDIS_URL, verdict cache disabled: %v", err)
		} else {
			rdb := redis.NewClient(opts)
			if err := rdb.Ping(ctx).Err(); err != nil {
				log.Printf("Warning: Could not connect to Redis, verdict cache disabled: %v", err)
			} else {
				log.Println("Connected to Redis")
				verdictCache = cache.New(rdb, cfg.CacheTTL, 6)
			}
		}
	}

	// Dependency Injection: catalog, metrics, services
	zoneCatalog := catalog.New()
	m := metrics.New()
	areaSvc := service.NewAreaService(repo, zoneCatalog, verdictCache, bounds)
	engine := service.NewServiceabilityEngine(zoneCatalog, bounds, verdictCache, m)

	// Build the in-memory catalog from persisted areas before serving
	if err := areaSvc.LoadCatalog(ctx); err != nil {
		log.Fatalf("Failed to load zone catalog: %v", err)
	}
	log.Printf("Zone catalog loaded: %d areas", len(areaSvc.ListAreas()))

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "Dastarkhwan Serviceability API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	http.SetupRoutes(app, engine, areaSvc, repo, bounds, m)

	// Graceful shutdown
	go func() {
		port := cfg.Port
		if port == "" {
			port = "8080"
		}
		log.Printf("Server starting on :%s", port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited gracefully")
}

type Config struct {
	DatabaseURL string
	RedisURL    string
	Port        string
	Env         string
	Bounds      geo.Bounds
	CacheTTL    time.Duration
}

func loadConfig() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("GO_ENV", "development"),
		Bounds: geo.Bounds{
			MinLat: getEnvFloat("BOUNDS_MIN_LAT", domain.DefaultMinLat),
			MaxLat: getEnvFloat("BOUNDS_MAX_LAT", domain.DefaultMaxLat),
			MinLng: getEnvFloat("BOUNDS_MIN_LNG", domain.DefaultMinLng),
			MaxLng: getEnvFloat("BOUNDS_MAX_LNG", domain.DefaultMaxLng),
		},
		CacheTTL: time.Duration(getEnvInt("CACHE_TTL_SECONDS", 60)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
