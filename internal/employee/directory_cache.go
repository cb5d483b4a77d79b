package employee

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	DirectoryCacheKey = "employees:directory"
	directoryCacheTTL = time.Hour
)

// DirectoryCache holds the HR employee list in Redis. A nil client disables it.
type DirectoryCache struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewDirectoryCache(rdb *redis.Client, logger ...*zap.Logger) *DirectoryCache {
	l := zap.L().Named("employee.directory")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.directory")
	}
	return &DirectoryCache{rdb: rdb, logger: l}
}

func (c *DirectoryCache) get(ctx context.Context) ([]EmployeeResponse, bool) {
	if c.rdb == nil {
		return nil, false
	}
	cached, err := c.rdb.Get(ctx, DirectoryCacheKey).Result()
	if err != nil {
		return nil, false
	}
	var resp []EmployeeResponse
	if json.Unmarshal([]byte(cached), &resp) != nil {
		return nil, false
	}
	return resp, true
}

func (c *DirectoryCache) store(ctx context.Context, list []EmployeeResponse) {
	if c.rdb == nil {
		return
	}
	jsonData, err := json.Marshal(list)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, DirectoryCacheKey, jsonData, directoryCacheTTL).Err(); err != nil {
		c.logger.Warn("directory cache store failed", zap.Error(err))
	}
}

// Invalidate drops the cached list; the next read reloads it.
func (c *DirectoryCache) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, DirectoryCacheKey).Err(); err != nil {
		c.logger.Error("failed to invalidate employee directory cache",
			zap.Error(err),
			zap.String("key", DirectoryCacheKey),
		)
	}
}
