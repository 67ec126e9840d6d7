package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fishlog/achievements"
	"fishlog/config"
	"fishlog/handlers"
	"fishlog/middleware"
	"fishlog/models"
	"fishlog/services"
	"fishlog/utils"
	"fishlog/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		bootLog := utils.NewLogger("fishlog", "info")
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := utils.NewLogger("fishlog", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := db.AutoMigrate(
		&models.Catch{},
		&models.AchievementRecord{},
		&models.UserProgress{},
		&models.Angler{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	var images services.ImageStore
	if cfg.R2Enabled() {
		store, err := utils.NewR2ImageStore(ctx, utils.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			Bucket:          cfg.R2Bucket,
			CDNBaseURL:      cfg.CDNBaseURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize R2 client")
		}
		images = store
	} else {
		log.Warn().Msg("⚠️  R2 not configured, photo uploads are disabled")
	}

	engine := achievements.NewDefaultEngine(achievements.WithLogger(log.With().Str("component", "engine").Logger()))

	catchService := services.NewCatchService(db, images, log)
	progressionService := services.NewProgressionService(db, log)
	achievementService := services.NewAchievementService(db, engine, progressionService, log)
	statsService := services.NewStatsService(db, catchService)

	sched, err := achievementService.StartRecalculationScheduler(ctx, cfg.RecalcInterval)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start recalculation scheduler")
	}

	if cfg.SyncEnabled() {
		workers.NewAnglerSyncWorker(db, cfg.SyncServiceURL, cfg.SyncServiceToken, log).Start(ctx)
	} else {
		log.Warn().Msg("⚠️  SYNC_SERVICE_URL not set, leaderboard names fall back to user ids")
	}

	app := newApp(cfg, log)
	handlers.SetupCatchRoutes(app, catchService, achievementService, log)
	handlers.SetupAchievementRoutes(app, achievementService, log)
	handlers.SetupProgressionRoutes(app, progressionService, statsService, log)

	go func() {
		if err := app.Listen(cfg.GetHTTPAddr()); err != nil {
			log.Error().Err(err).Msg("Server error")
		}
	}()

	log.Info().Str("addr", cfg.GetHTTPAddr()).Msg("✅ Server running")
	log.Info().Dur("interval", cfg.RecalcInterval).Msg("✅ Achievement recalculation scheduled")
	log.Info().Msg("✅ GatewayAuthMiddleware enforced globally")

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	if err := sched.Shutdown(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown failed")
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

func newApp(cfg *config.Config, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.BodyLimit(),
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed, no exceptions
	app.Use(middleware.GatewayAuthMiddleware(cfg.GatewayToken, log))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOriginsHeader(),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	log.Info().Str("origins", cfg.AllowedOriginsHeader()).Msg("✅ CORS configured")

	return app
}
