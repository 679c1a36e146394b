package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/crystal-levels/internal/app"
	"github.com/vancomm/crystal-levels/internal/config"
	"github.com/vancomm/crystal-levels/internal/database"
	"github.com/vancomm/crystal-levels/internal/level"
	"github.com/vancomm/crystal-levels/internal/repository"
)

func main() {
	log, err := config.NewLogger()
	if err != nil {
		logrus.Fatal("unable to configure logging: ", err)
	}
	level.Log = log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, log)
	stop()
	if err != nil {
		log.Error("exit reason: ", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, log *logrus.Logger) error {
	jwt, err := config.NewJWT()
	if err != nil {
		return fmt.Errorf("unable to read jwt config: %w", err)
	}
	cookies, err := config.NewCookies(jwt)
	if err != nil {
		return fmt.Errorf("unable to read cookies config: %w", err)
	}
	ws, err := config.NewWebSocket()
	if err != nil {
		return fmt.Errorf("unable to read ws config: %w", err)
	}
	profile, err := config.NewGenerator()
	if err != nil {
		return fmt.Errorf("unable to read generator profile: %w", err)
	}

	var store app.Store
	if config.MemoryStore() {
		log.Warn("keeping levels in memory, nothing survives a restart")
		store = repository.NewMemory()
	} else {
		pool, migrator, err := database.ConnectAndMigrate(ctx)
		if err != nil {
			return fmt.Errorf("unable to connect and migrate db: %w", err)
		}
		defer pool.Close()
		if version, dirty, err := migrator.Version(); err == nil {
			log.WithFields(logrus.Fields{
				"version": version,
				"dirty":   dirty,
			}).Info("database migrated")
		}
		defer migrator.Close()
		store = repository.New(pool)
	}

	log.WithFields(logrus.Fields{
		"passes":       profile.Passes,
		"max_attempts": profile.MaxAttempts,
		"timeout":      profile.Timeout,
	}).Debug("generator profile")

	a := app.New(log, app.Options{
		Store:     store,
		Cookies:   cookies,
		WebSocket: ws,
		Generator: level.NewGenerator(profile.Options()),
		Origins:   config.CorsOrigins(),
		BasePath:  config.BasePath(),
	})

	return a.Serve(ctx, config.Port())
}
