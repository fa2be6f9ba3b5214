package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/guests-api/internal/config"
	"github.com/deppfellow/guests-api/internal/handler"
	"github.com/deppfellow/guests-api/internal/logger"
	"github.com/deppfellow/guests-api/internal/repository"
	"github.com/deppfellow/guests-api/internal/router"
	"github.com/deppfellow/guests-api/internal/server"
	"github.com/deppfellow/guests-api/internal/service"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

const DefaultContextTimeout = 30

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load config")
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	err = run(cfg, &log, loggerService)

	// Flush New Relic before any exit.
	loggerService.Shutdown()

	if err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

// run serves until SIGINT/SIGTERM or a listener failure, then shuts the
// server down gracefully.
func run(cfg *config.Config, log *zerolog.Logger, loggerService *logger.LoggerService) error {
	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	repos := repository.NewRepositories(srv)
	services, err := service.NewServices(srv, repos)
	if err != nil {
		_ = srv.DB.Close()
		return fmt.Errorf("could not create services: %w", err)
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var startErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
	case startErr = <-serveErr:
		if startErr != nil {
			startErr = fmt.Errorf("failed to start server: %w", startErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if startErr == nil {
		log.Info().Msg("server exited properly")
	}

	return startErr
}
