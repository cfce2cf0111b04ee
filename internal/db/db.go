package db

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/NiksFok/conf-bot/internal/config"
	"github.com/NiksFok/conf-bot/internal/repository/dao"
)

// Open connects to Postgres and runs the schema migration. A DATABASE_URL
// environment variable wins over the config block, so hosted deployments can
// inject a single connection string.
func Open(conf *config.PostgresConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(resolveDSN(conf)), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	if err = dao.InitTables(db); err != nil {
		return nil, fmt.Errorf("dao.InitTables -> %w", err)
	}

	return db, nil
}

func resolveDSN(conf *config.PostgresConfig) string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	return fmt.Sprintf(
		"host=%v user=%v password=%v dbname=%v port=%v sslmode=disable",
		conf.Host, conf.User, conf.Password, conf.DB, conf.Port,
	)
}
