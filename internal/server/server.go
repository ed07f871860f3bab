package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/uruhongore/academy/internal/bootstrap"
	"github.com/uruhongore/academy/internal/config"
	"github.com/uruhongore/academy/internal/pkg/helpers"
)

// Server holds the state for the HTTP server.
type Server struct {
	config    *config.Config
	router    *gin.Engine
	dbPool    *pgxpool.Pool
	logger    zerolog.Logger
	http      *http.Server
	stopHub   context.CancelFunc
	hubClosed <-chan struct{}
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer() (*Server, error) {
	// 1. Load configuration and set up the logger
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	// 2. Connect, migrate and seed
	dbPool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	// 3. Wire repositories, services and controllers
	deps, err := bootstrap.BuildDependencies(cfg, dbPool, lgr)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	// 4. Mount routes
	router := bootstrap.SetupRouter(cfg, deps, lgr)

	// The hub lives until Shutdown cancels its context
	hubCtx, stopHub := context.WithCancel(context.Background())
	go deps.Hub.Run(hubCtx)

	return &Server{
		config:    cfg,
		router:    router,
		dbPool:    dbPool,
		logger:    lgr,
		stopHub:   stopHub,
		hubClosed: deps.Hub.Done(),
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")

	// Timeouts come from config, falling back to defaults
	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  helpers.ParseDuration(s.config.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: helpers.ParseDuration(s.config.Server.WriteTimeout, 30*time.Second),
		IdleTimeout:  120 * time.Second,
	}

	// Listen in the background so signals can be handled here
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	// Wait for SIGINT or SIGTERM
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			s.Shutdown(context.Background())
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server, disconnects websocket clients and closes the pool.
func (s *Server) Shutdown(ctx context.Context) error {
	timeout := helpers.ParseDuration(s.config.Server.ShutdownTimeout, 10*time.Second)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	shutdownError := false

	// Stop accepting requests and drain in-flight ones
	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownError = true
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	// Disconnect websocket clients
	if s.stopHub != nil {
		s.stopHub()
		select {
		case <-s.hubClosed:
			s.logger.Info().Msg("WebSocket hub stopped.")
		case <-ctx.Done():
			s.logger.Warn().Msg("Timed out waiting for the WebSocket hub to stop")
		}
		s.stopHub = nil
	}

	// Close the pool last, after every request has finished
	if s.dbPool != nil {
		s.logger.Info().Msg("Closing database connection pool...")
		s.dbPool.Close()
		s.dbPool = nil
		s.logger.Info().Msg("Database connection pool closed.")
	}

	s.logger.Info().Msg("Server shutdown process complete.")
	if shutdownError {
		return errors.New("server shutdown completed with errors")
	}
	return nil
}
