package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/content-compass/configs"
	"github.com/maheshrc27/content-compass/internal/ai"
	"github.com/maheshrc27/content-compass/internal/cache"
	"github.com/maheshrc27/content-compass/internal/database"
	job "github.com/maheshrc27/content-compass/internal/jobs"
	"github.com/maheshrc27/content-compass/internal/lock"
	"github.com/maheshrc27/content-compass/internal/metrics"
	"github.com/maheshrc27/content-compass/internal/models"
	"github.com/maheshrc27/content-compass/internal/queue"
	"github.com/maheshrc27/content-compass/internal/repository"
	"github.com/maheshrc27/content-compass/internal/service"
	"github.com/maheshrc27/content-compass/internal/state"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisClient, err := cache.Connect(cfg.RedisURI)
	if err != nil {
		log.Println("Warning: Redis cache unavailable, dashboard caching disabled", err)
	}
	dashboardCache := cache.New(redisClient)

	redisConn := redisConnOpt(cfg.RedisURI)
	client := asynq.NewClient(redisConn)
	defer client.Close()

	locks := lock.New(cfg.LockTimeout)
	locks.OnTimeout = func(key string) {
		metrics.LockTimeouts.Inc()
		slog.Warn("lock wait timed out", "key", key)
	}

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	postRepo := repository.NewPostRepository(db)
	planRepo := repository.NewContentPlanRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	apiKeyRepository := repository.NewApiKeyRepository(db)

	r2Service, err := service.NewR2Service(*cfg)
	if err != nil {
		log.Fatalf("Failed to configure object storage: %v", err)
	}

	mapper := ai.NewMapper(ai.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model))

	authService := service.NewAuthService(*cfg)
	workspaceService := service.NewWorkspaceService(db, userRepo, teamRepo, postRepo, planRepo)
	dashboardService := service.NewDashboardService(postRepo, dashboardCache)
	postService := service.NewPostService(postRepo, dashboardService)
	invitationService := service.NewInvitationService(db, invitationRepo, teamRepo, userRepo,
		service.NewMailer(*cfg), cfg.FrontendURL, cfg.InvitationTTL)
	planService := service.NewPlanService(mapper)
	platformService := service.NewPlatformService()
	userService := service.NewUserService(r2Service)
	billingService := service.NewBillingService(service.NewStripeGateway(cfg.Stripe.SecretKey), userRepo,
		cfg.FrontendURL, cfg.Stripe.PriceID, cfg.Stripe.WebhookSecret)
	apiKeyService := service.NewApiKeyService(apiKeyRepository)

	registry := state.NewRegistry(workspaceService, locks, state.Hooks{
		PostSaved: func(ctx context.Context, post models.Post) {
			dashboardService.Invalidate(ctx, post.TeamID)
			if err := queue.EnqueuePost(ctx, client, post); err != nil {
				slog.Error("failed to enqueue auto-publish", "post_id", post.ID, "error", err)
			}
		},
		PostDeleted: func(ctx context.Context, post models.Post) {
			dashboardService.Invalidate(ctx, post.TeamID)
		},
	})

	app := fiber.New(fiber.Config{
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    10 * 1024 * 1024, // 10 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	registerRoutes(app, *cfg, services{
		auth:        authService,
		apiKeys:     apiKeyService,
		platform:    platformService,
		user:        userService,
		invitations: invitationService,
		plans:       planService,
		dashboard:   dashboardService,
		billing:     billingService,
	}, registry)

	// cron jobs
	maintenanceJob := job.NewMaintenanceJob(postService, invitationService)

	c := cron.New()
	if err := c.AddFunc("@every 15m", maintenanceJob.SweepOverdue); err != nil {
		log.Fatalf("Failed to schedule overdue sweep: %v", err)
	}
	if err := c.AddFunc("@every 1h", maintenanceJob.PurgeInvitations); err != nil {
		log.Fatalf("Failed to schedule invitation purge: %v", err)
	}
	c.Start()
	defer c.Stop()

	// queue
	queueW := queue.NewQueue(postService)
	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: 10,
	})

	go func() {
		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeSchedulePost, queueW.HandleSchedulePostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, server)
}

// redisConnOpt accepts a redis:// URL or a bare host:port address.
func redisConnOpt(uri string) asynq.RedisConnOpt {
	if opt, err := asynq.ParseRedisURI(uri); err == nil {
		return opt
	}
	return asynq.RedisClientOpt{Addr: uri}
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, server *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Failed to shut down server: %v", err)
	}
	server.Shutdown()

	log.Println("Server shutdown complete.")
}
