package main

import (
	"os"

	"github.com/uruhongore/academy/internal/pkg/logger"
	"github.com/uruhongore/academy/internal/server"
)

// @title Uruhongore Academy API
// @version 1.0
// @description School administration API: students, modules, academic periods, marks and report cards.

// @contact.name API Support
// @contact.email support@uruhongore.academy

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// NewServer orchestrates config, logger, database, dependencies and router setup
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
