package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/DinithaNawanjana/paylanka-devops/internal/config"
	"github.com/DinithaNawanjana/paylanka-devops/internal/db"
	"github.com/DinithaNawanjana/paylanka-devops/internal/events"
	httpapi "github.com/DinithaNawanjana/paylanka-devops/internal/http"
	"github.com/DinithaNawanjana/paylanka-devops/internal/payments"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- DB ---
	pool, err := db.NewPool(ctx, cfg.DatabaseDSN(), cfg.PoolMaxConns, cfg.PoolIdleTimeout)
	if err != nil {
		logger.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN(), logger); err != nil {
			logger.Fatalf("db migrate: %v", err)
		}
	}

	repo := payments.NewPostgresRepository(pool)

	// --- AMQP (optional) ---
	var publisher httpapi.EventPublisher
	if cfg.AMQPURL != "" {
		conn, err := events.DialRabbit(cfg.AMQPURL)
		if err != nil {
			logger.Fatalf("amqp connect: %v", err)
		}
		defer conn.Close()

		pub, err := events.NewPublisher(conn)
		if err != nil {
			logger.Fatalf("amqp publisher: %v", err)
		}
		defer pub.Close()
		publisher = pub
	}

	// --- HTTP ---
	h := httpapi.NewHandler(repo, publisher, cfg.DefaultCurrency, logger)
	router := httpapi.NewRouter(h, cfg.CORSAllowOrigins, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Infof("payments-api listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Infof("shutdown signal: %s", sig)
	case err := <-errCh:
		logger.Errorf("fatal error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = httpServer.Shutdown(shutdownCtx)
	cancel()

	logger.Info("shutdown complete")
}
