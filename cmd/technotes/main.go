package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/blueplan/technotes-go/internal/technotes/api"
	"github.com/blueplan/technotes-go/internal/technotes/config"
	"github.com/blueplan/technotes-go/internal/technotes/limiter"
	logx "github.com/blueplan/technotes-go/internal/technotes/log"
	"github.com/blueplan/technotes-go/internal/technotes/notes"
	"github.com/blueplan/technotes-go/internal/technotes/pool"
	"github.com/blueplan/technotes-go/internal/technotes/users"
)

func main() {
	cfg := config.Load()

	logger, err := logx.New(cfg.App.LogLevel)
	if err != nil {
		stdlog.Fatalf("init logger: %v", err)
	}

	ctx := context.Background()
	logger.Info(ctx, "starting technotes service",
		logx.KV("version", cfg.App.Version),
		logx.KV("environment", cfg.App.Environment))

	db, err := surrealdb.New(cfg.Database.URL)
	if err != nil {
		stdlog.Fatalf("connect surrealdb at %s: %v", cfg.Database.URL, err)
	}
	if _, err := db.Signin(map[string]interface{}{
		"user": cfg.Database.Username,
		"pass": cfg.Database.Password,
	}); err != nil {
		stdlog.Fatalf("surrealdb signin: %v", err)
	}
	if _, err := db.Use(cfg.Database.Namespace, cfg.Database.Database); err != nil {
		stdlog.Fatalf("surrealdb use %s/%s: %v", cfg.Database.Namespace, cfg.Database.Database, err)
	}

	noteStore := notes.NewSurrealStore(db)
	directory := users.NewSurrealDirectory(db)
	service := notes.NewService(noteStore, directory, logger)

	var (
		rateLimiter limiter.Limiter
		redisMgr    *pool.RedisManager
	)
	if cfg.Security.EnableRateLimit {
		if cfg.Security.RedisAddr != "" {
			redisMgr = pool.NewRedisManager(cfg.Security.RedisAddr, cfg.Security.RedisDB, logger)
			rateLimiter = limiter.NewRedis(redisMgr, cfg.Security.RateLimitPerMinute)
			// The limiter fails open, so an unreachable redis degrades
			// rate limiting rather than blocking startup.
			if err := redisMgr.Ping(ctx); err != nil {
				logger.Warn(ctx, "redis unreachable, rate limiting degraded",
					logx.KV("error", err),
					logx.KV("addr", cfg.Security.RedisAddr))
			}
		} else {
			rateLimiter = limiter.NewInmem(cfg.Security.RateLimitPerMinute)
		}
	}

	router := api.NewRouter(cfg, logger, service, directory, rateLimiter)

	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router.Handler(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http server failed", logx.KV("error", err))
			os.Exit(1)
		}
	}()
	logger.Info(ctx, "technotes service started", logx.KV("address", addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down technotes service")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "http server shutdown failed", logx.KV("error", err))
	}

	db.Close()
	if redisMgr != nil {
		if err := redisMgr.Close(); err != nil {
			logger.Error(ctx, "redis close failed", logx.KV("error", err))
		}
	}

	logger.Info(ctx, "technotes service stopped")
}
