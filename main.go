// main.go
package main

import (
	"context"
	"log"

	"expert-marketplace/cmd"
	"expert-marketplace/internal/data/repository"
	"expert-marketplace/internal/wire"
	"expert-marketplace/pkg/database"
	"expert-marketplace/pkg/events"
	"expert-marketplace/pkg/utils"

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

	if config.Database.Migrate {
		if err := database.Migrate(context.Background(), db); err != nil {
			logger.Fatal("Failed to apply schema", zap.Error(err))
		}
		logger.Info("Database schema applied")
	}

	// Booking events go to Redis when configured
	var publisher events.Publisher = events.NopPublisher{}
	if config.Redis.URL != "" {
		redisPublisher, err := events.NewRedisPublisher(context.Background(), config.Redis.URL, config.Redis.Channel)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		publisher = redisPublisher
		logger.Info("Publishing booking events", zap.String("channel", config.Redis.Channel))
	}
	defer publisher.Close()

	tokens, err := utils.NewTokenManager(config.JWT)
	if err != nil {
		logger.Fatal("Failed to init token manager", zap.Error(err))
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)
	tx := repository.NewTransactor(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, tx, tokens, publisher, config, logger)

	// Start server
	if err := cmd.APIServer(app.Router, config.App.Port, config.HTTP, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
