package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/tapedeck/api/internal/client"
	"github.com/tapedeck/api/internal/config"
	"github.com/tapedeck/api/internal/handler"
	"github.com/tapedeck/api/internal/middleware"
	"github.com/tapedeck/api/internal/model"
	"github.com/tapedeck/api/internal/service"
	"github.com/tapedeck/api/internal/store"
	"github.com/tapedeck/api/internal/worker"
	ws "github.com/tapedeck/api/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available: %v", err)
	}

	// Initialize Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize validator
	validate := validator.New()

	// Initialize WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Object storage is optional; without it result bytes are served
	// straight from the job store.
	var storage client.StorageClient
	if r2, err := client.NewR2Client(&cfg.R2); err != nil {
		log.Printf("Object storage disabled: %v", err)
	} else {
		storage = r2
	}

	// Initialize services
	retention := time.Duration(cfg.Audio.RetentionSeconds) * time.Second
	jobStore := store.NewRedisStore(redisClient, retention)
	buffers := service.NewBufferCache(retention)
	processService := service.NewProcessService(jobStore, asynqClient, buffers, storage, cfg)

	// Initialize handlers
	processHandler := handler.NewProcessHandler(processService, validate, cfg.Audio.MaxUploadMB)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    cfg.Audio.MaxUploadMB * 1024 * 1024,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"redis":   redisClient.Ping(c.Context()).Err() == nil,
				"storage": storage != nil,
			},
		})
	})

	// API routes
	api := app.Group("/api", authMiddleware.Authenticate())

	api.Get("/styles", processHandler.Styles)

	process := api.Group("/process")
	process.Post("/", rateLimiter.ProcessLimit(cfg.RateLimit.ProcessPerHour), processHandler.Submit)
	process.Get("/status/:taskId/:style", rateLimiter.QueryLimit(cfg.RateLimit.QueryPerMin), processHandler.Status)
	process.Get("/result/:taskId/:style", rateLimiter.QueryLimit(cfg.RateLimit.QueryPerMin), processHandler.Result)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/tasks/:taskId/:style", websocket.New(func(c *websocket.Conn) {
		taskID := c.Params("taskId")
		style, ok := model.ParseStyle(c.Params("style"))
		if !ok {
			c.Close()
			return
		}
		hub.HandleConnection(c, model.JobKey(taskID, style))
	}))

	// Start Asynq worker server
	go startWorkerServer(cfg, processService, hub)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func startWorkerServer(cfg *config.Config, processService *service.ProcessService, hub *ws.Hub) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"style": 10,
			},
		},
	)

	styleWorker := worker.NewStyleWorker(processService, hub)

	mux := asynq.NewServeMux()
	mux.HandleFunc(service.TaskTypeStyle, styleWorker.ProcessTask)

	if err := srv.Run(mux); err != nil {
		log.Printf("Asynq worker error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "SERVICE_ERROR",
			"message": message,
		},
	})
}
