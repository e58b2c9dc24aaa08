package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quizbuzz/buzzer-backend/internal/config"
	"github.com/quizbuzz/buzzer-backend/internal/httpapi"
	"github.com/quizbuzz/buzzer-backend/internal/netutil"
	"github.com/quizbuzz/buzzer-backend/internal/session"
)

func main() {
	// A missing .env is fine; the environment wins either way.
	dotenvErr := godotenv.Load()

	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if dotenvErr != nil && !errors.Is(dotenvErr, os.ErrNotExist) {
		logger.Warn("could not load .env file", zap.Error(dotenvErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := session.New(ctx, clockwork.NewRealClock(), logger.Named("session"))
	handler := httpapi.SetupRoutes(sess, cfg, logger)

	if ip, err := netutil.LocalIP(); err == nil {
		if _, port, perr := net.SplitHostPort(cfg.Addr); perr == nil {
			addr := net.JoinHostPort(ip, port)
			logger.Info("reachable on local network",
				zap.String("ws_url", "ws://"+addr+"/ws"),
				zap.String("http_url", "http://"+addr+"/"))
		}
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server shut down")
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
