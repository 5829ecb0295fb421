package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tombolahq/tombola-backend/internal/config"
	"github.com/tombolahq/tombola-backend/internal/httpapi"
	"github.com/tombolahq/tombola-backend/internal/hub"
	"github.com/tombolahq/tombola-backend/internal/room"
)

func main() {
	cfg := config.Load()

	log := newLogger(cfg.LogLevel)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx, log)

	// A configured default room reproduces the classic single-session
	// deployment: clients attach without a code.
	if cfg.DefaultRoom != "" {
		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.EnsureRoom{Code: cfg.DefaultRoom, Reply: reply}
		<-reply
		log.Info("default room ready", zap.String("room", cfg.DefaultRoom))
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpapi.SetupRoutes(h, cfg.DefaultRoom, log),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		h.Inbox() <- hub.ShutdownHub{}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}
