package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auctionhousego/internal/cache"
	"auctionhousego/internal/config"
	"auctionhousego/internal/database/db_client"
	"auctionhousego/internal/http/http_server"
	"auctionhousego/internal/redis/redis_client"
	"auctionhousego/internal/services/account"
	"auctionhousego/internal/services/auction"
	"auctionhousego/internal/services/bidding"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Postgres db client
	pgDb, err := db_client.Open(cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDb)
	if err != nil {
		Log.Fatal("pg-open", zap.Error(err))
	}
	defer pgDb.Close()

	if err := db_client.Migrate(pgDb); err != nil {
		Log.Fatal("pg-migrate", zap.Error(err))
	}

	// 4. Redis-backed read cache. The marketplace works without it; a
	// missing Redis just means every read hits Postgres.
	var readCache *cache.Cache
	redisClient, err := redis_client.NewRedisClient(cfg.RedisCacheHost, int(cfg.RedisCachePort))
	if err != nil {
		Log.Warn("redis unavailable, running without read cache", zap.Error(err))
	} else {
		defer redisClient.Close()
		readCache = cache.New(redisClient, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	}

	// 5. Services
	services := http_server.Services{
		Accounts: account.NewAccountService(pgDb, cfg.JwtSecret, time.Duration(cfg.JwtTTLMinutes)*time.Minute),
		Auctions: auction.NewAuctionService(pgDb, readCache),
		Bidding:  bidding.NewBiddingService(pgDb, readCache),
	}

	// 6. HTTP server
	bidLimiter := rate.NewLimiter(rate.Limit(cfg.BidRateLimit), cfg.BidRateBurst)
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, services, bidLimiter)

	go func() {
		<-ctx.Done()
		_ = httpServer.Dispose()
	}()

	if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
