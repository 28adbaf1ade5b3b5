package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/atlasworks/atlas-api/internal/config"
	"github.com/atlasworks/atlas-api/internal/database"
	"github.com/atlasworks/atlas-api/internal/handler"
	"github.com/atlasworks/atlas-api/internal/middleware"
	"github.com/atlasworks/atlas-api/internal/models"
	"github.com/atlasworks/atlas-api/internal/repository"
	"github.com/atlasworks/atlas-api/internal/router"
	"github.com/atlasworks/atlas-api/internal/service"
	cloud "github.com/atlasworks/atlas-api/pkg/cloudinary"
)

const uploadMaxSizeMB = 10

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.CaseStudy{},
		&models.BlogPost{},
		&models.ActivityLog{},
		&models.Task{},
		&models.ClientRequest{},
		&models.PortfolioStat{},
		&models.UploadRecord{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	projectRepo := repository.NewContentRepository[models.Project, *models.Project](db)
	caseStudyRepo := repository.NewContentRepository[models.CaseStudy, *models.CaseStudy](db)
	blogPostRepo := repository.NewContentRepository[models.BlogPost, *models.BlogPost](db)
	taskRepo := repository.NewTaskRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	broker := service.NewActivityBroker()
	activityService := service.NewActivityService(activityRepo, userRepo, broker, natsConn, cfg.ActivitySubject, logger)
	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.JWTAccessTTL, logger)
	projectService := service.NewContentService(projectRepo, activityService, nil, logger)
	caseStudyService := service.NewContentService(caseStudyRepo, activityService, nil, logger)
	blogPostService := service.NewContentService(blogPostRepo, activityService, nil, logger)
	taskService := service.NewTaskService(taskRepo, validate, activityService, logger)
	requestService := service.NewRequestService(requestRepo, validate, activityService, logger)
	statsService := service.NewStatsService(statsRepo, redisClient, cfg.StatsCacheTTL, validate, activityService, logger)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.EnsureAdmin(bootCtx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		bootCancel()
		log.Fatalf("failed to bootstrap admin account: %v", err)
	}
	bootCancel()

	deps := router.Dependencies{
		AuthHandler:      handler.NewAuthHandler(authService, validate, logger),
		ProjectHandler:   handler.NewContentHandler(projectService, handler.ProjectCodec(validate), logger),
		CaseStudyHandler: handler.NewContentHandler(caseStudyService, handler.CaseStudyCodec(validate), logger),
		BlogPostHandler:  handler.NewContentHandler(blogPostService, handler.BlogPostCodec(validate), logger),
		ActivityHandler:  handler.NewActivityHandler(activityService, broker, logger),
		TaskHandler:      handler.NewTaskHandler(taskService, logger),
		RequestHandler:   handler.NewRequestHandler(requestService, logger),
		StatsHandler:     handler.NewStatsHandler(statsService, logger),
		JWTMiddleware:    middleware.JWTProtected(cfg.JWTSecret),
	}

	if cfg.CloudinaryCloudName != "" {
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		uploadRepo := repository.NewUploadRepository(db)
		uploadService := service.NewUploadService(uploader, uploadRepo, uploadMaxSizeMB, logger)
		deps.UploadHandler = handler.NewUploadHandler(uploadService, logger)
	} else {
		logger.Warn().Msg("cloudinary not configured; upload routes disabled")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, deps)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
