package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/NiksFok/conf-bot/internal/api"
	"github.com/NiksFok/conf-bot/internal/config"
	"github.com/NiksFok/conf-bot/internal/db"
	"github.com/NiksFok/conf-bot/internal/logger"
)

// Start boots the points-and-rewards API: config, logger, database, then the
// HTTP server. It blocks until the server stops.
func Start() error {
	conf, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	database, err := db.Open(conf.Postgres)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	s := api.NewServer(conf, database)

	zap.L().Info("conf-bot api starting",
		zap.String("environment", conf.API.Environment),
		zap.String("port", conf.API.Port),
	)
	if err = s.Router.Run(":" + conf.API.Port); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

// configPath lets deployments point at their own config file without
// rebuilding the image.
func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	return "./cmd/app/config.yml"
}
