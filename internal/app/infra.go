package app

import (
	"database/sql"

	"github.com/rinov1/WorkWave/internal/config"
	"github.com/rinov1/WorkWave/internal/shared/connection"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const connectRetries = 5

// Infra holds the shared connections of one process.
type Infra struct {
	Config config.Config
	GormDB *gorm.DB
	DB     *sql.DB
	Redis  *redis.Client
}

func Connect(cfg config.Config) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, connectRetries)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &Infra{Config: cfg, GormDB: gormDB, DB: sqlDB, Redis: rdb}, nil
}

// ConnectDB opens only the database, for commands that never touch Redis.
func ConnectDB(cfg config.Config) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, connectRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	return &Infra{Config: cfg, GormDB: gormDB, DB: sqlDB}, nil
}

func (i *Infra) Close() {
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			zap.L().Warn("close redis failed", zap.Error(err))
		}
	}
	if i.DB != nil {
		if err := i.DB.Close(); err != nil {
			zap.L().Warn("close database failed", zap.Error(err))
		}
	}
}
