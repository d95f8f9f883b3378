package main

import (
	"context"
	"log"

	"picnify/cmd"
	"picnify/internal/data/repository"
	"picnify/internal/jobs"
	"picnify/internal/usecase"
	"picnify/internal/wire"
	"picnify/pkg/cache"
	"picnify/pkg/database"
	"picnify/pkg/events"
	"picnify/pkg/gateway"
	"picnify/pkg/mailer"
	"picnify/pkg/metrics"
	"picnify/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	deps := usecase.Deps{
		Metrics: metrics.New(prometheus.NewRegistry()),
	}

	// Redis backs the property cache and the rate limiter; both degrade without it
	var redisClient *redis.Client
	if config.Redis.URL != "" {
		redisClient, err = cache.NewRedisClient(context.Background(), config.Redis.URL)
		if err != nil {
			logger.Warn("Redis unavailable, using in-memory rate limiting and no cache", zap.Error(err))
		} else {
			defer redisClient.Close()
			deps.Cache = cache.NewRedisCache(redisClient, config.App.Name, logger)
			logger.Info("Redis connected successfully")
		}
	}

	if config.AMQP.URL != "" {
		publisher, err := events.NewAMQPPublisher(config.AMQP.URL, config.AMQP.Exchange, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, booking events will only be logged", zap.Error(err))
		} else {
			defer publisher.Close()
			deps.Publisher = publisher
		}
	}

	if config.Razorpay.Enabled() {
		deps.Refunder = gateway.NewRazorpayRefunder(config.Razorpay.KeyID, config.Razorpay.KeySecret, logger)
	} else {
		logger.Warn("Razorpay keys not set, refunds will be recorded but not issued")
	}

	if config.Email.Host != "" {
		deps.Mailer = mailer.NewSMTPMailer(config.Email, logger)
	}

	// Wire all dependencies
	app := wire.Wiring(repos, config, deps, redisClient, logger)

	scheduler := jobs.NewScheduler(app.Service.Booking, repos.Session, jobs.Schedules{
		ExpireBookings: config.Jobs.ExpireBookingsSchedule,
		CleanSessions:  config.Jobs.CleanSessionsSchedule,
	}, logger)
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
