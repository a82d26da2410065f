package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/TRHS-OMNIA/crew-backend/config"
	"github.com/TRHS-OMNIA/crew-backend/internal/api/handler"
	"github.com/TRHS-OMNIA/crew-backend/internal/api/router"
	"github.com/TRHS-OMNIA/crew-backend/internal/calendar"
	"github.com/TRHS-OMNIA/crew-backend/internal/repository"
	"github.com/TRHS-OMNIA/crew-backend/internal/service"
	"github.com/TRHS-OMNIA/crew-backend/pkg/database"
	"github.com/TRHS-OMNIA/crew-backend/pkg/jwt"
	applogger "github.com/TRHS-OMNIA/crew-backend/pkg/logger"
	"github.com/TRHS-OMNIA/crew-backend/pkg/redis"
)

func main() {
	// 1. Load configuration.
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize logging.
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. Connect the database and run migrations.
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("unwrap sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 4. Connect Redis. The rate limiter and QR scan cache degrade without
	// it, so a failure downgrades rather than aborts.
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, rate limiting and scan cache disabled", zap.Error(err))
		rdb = nil
	}

	// 5. Pick the calendar mirror: Google when a calendar is configured,
	// a log-only stand-in otherwise.
	var cal calendar.Sync
	if cfg.Google.CalendarID != "" {
		cal, err = calendar.NewGoogleSync(context.Background(), &cfg.Google)
		if err != nil {
			logger.Warn("google calendar unavailable, mirroring disabled", zap.Error(err))
			cal = calendar.NewLogSync(logger)
		}
	} else {
		cal = calendar.NewLogSync(logger)
	}

	// 6. Session tokens.
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 7. Dependency injection: Repository → Service → Handler.
	repo := repository.NewRepository(db)
	svc, err := service.New(cfg, repo, jwtMgr, rdb, cal, logger)
	if err != nil {
		logger.Fatal("service wiring failed", zap.Error(err))
	}
	h := handler.NewHandler(svc)

	// 8. Routes.
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 9. HTTP server with graceful shutdown.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}

	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("stopped")
}
