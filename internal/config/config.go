package config

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Points   *PointsConfig   `mapstructure:"points"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	BaseURL            string   `mapstructure:"base_url"`
	Port               string   `mapstructure:"port"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

// PointsConfig holds the tunable knobs of the points ledger. The values are
// reloaded live when the config file changes, so reads must go through the
// accessor methods.
type PointsConfig struct {
	registrationBonus  atomic.Int64
	defaultVisitReward atomic.Int64
}

// NewPointsConfig builds a fixed points configuration, mostly for tests and
// tools that do not go through Load.
func NewPointsConfig(registrationBonus, defaultVisitReward int) *PointsConfig {
	c := &PointsConfig{}
	c.registrationBonus.Store(int64(registrationBonus))
	c.defaultVisitReward.Store(int64(defaultVisitReward))

	return c
}

func (c *PointsConfig) RegistrationBonus() int {
	return int(c.registrationBonus.Load())
}

func (c *PointsConfig) DefaultVisitReward() int {
	return int(c.defaultVisitReward.Load())
}

func (c *PointsConfig) store(v *viper.Viper) {
	c.registrationBonus.Store(v.GetInt64("points.registration_bonus"))
	c.defaultVisitReward.Store(v.GetInt64("points.default_visit_reward"))
}

func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{
		API:      &APIConfig{},
		Gin:      &GinConfig{},
		Postgres: &PostgresConfig{},
		Points:   &PointsConfig{},
	}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}
	conf.Points.store(v)

	if key := os.Getenv("JWT_SIGNING_KEY"); key != "" {
		conf.API.JWTSigningKey = key
	}

	// Only the points section is safe to change at runtime; everything else
	// requires a restart.
	v.OnConfigChange(func(e fsnotify.Event) {
		if err := v.ReadInConfig(); err != nil {
			zap.L().Warn("config reload failed", zap.String("file", e.Name), zap.Error(err))
			return
		}
		conf.Points.store(v)
		zap.L().Info("points config reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return conf, nil
}
