package redis_client

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient returns a connected client for the read cache.
func NewRedisClient(host string, port int) (*redis.Client, error) {

	// The cache only serves read-throughs, so a modest pool is enough.
	maxPool := runtime.NumCPU() * 4
	if maxPool > 128 {
		maxPool = 128
	}

	rc := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", host, port),
		PoolSize:    maxPool,
		DialTimeout: 3 * time.Second,
	})

	ctx, cancelFunc := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelFunc()
	_, err := rc.Ping(ctx).Result()
	if err != nil {
		err = errors.New("Redis connection failed: " + err.Error())
		zap.L().Error("redis_connect", zap.Error(err))
		return nil, err
	}
	return rc, nil
}
