package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"coursehub/internal/config"
	"coursehub/internal/providers"
	"coursehub/internal/providers/strapi"
	"coursehub/internal/session"
	"coursehub/internal/web"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Production() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(cfg config.Config, logger *zap.Logger) error {
	roles, err := cfg.RoleIDs()
	if err != nil {
		return err
	}

	sessions, err := session.NewManager(cfg.SessionKey, cfg.SessionName, cfg.SessionSecure, logger)
	if err != nil {
		return err
	}

	cms := strapi.New(cfg.CMSBaseURL, cfg.CMSTimeout, roles, logger)
	srv := web.NewServer(providers.StrapiConnector(cms), sessions, roles, logger)
	srv.Secure = cfg.SessionSecure
	if cfg.CSRFKey != "" {
		srv.CSRFKey = []byte(cfg.CSRFKey)
	} else {
		logger.Warn("CSRF_KEY not set, form posts are not CSRF protected")
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("cms", cfg.CMSBaseURL),
			zap.String("roles", roles.String()))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
