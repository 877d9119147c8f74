package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gearguard-backend/internal/api/routes"
	"gearguard-backend/internal/bootstrap"
	"gearguard-backend/internal/config"
	"gearguard-backend/internal/logger"
	"gearguard-backend/internal/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	_ "gearguard-backend/docs" // This is needed for swag
)

//	@title			GearGuard Backend API
//	@version		1.0
//	@description	Backend API for GearGuard, tracking equipment, maintenance teams and maintenance requests.

//	@contact.name	API Support

//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT

//	@host		localhost:7008
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 15 * time.Second

func main() {
	// Load environment variables from .env file in development
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}
	logger.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := bootstrap.Open(ctx, cfg, bootstrap.Options{})
	if err != nil {
		logrus.Fatal(err)
	}
	defer infra.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	services := routes.NewServices(infra.Deps)
	router, err := routes.SetupRoutes(infra.Deps, services)
	if err != nil {
		logrus.Fatal(err)
	}

	jobs, err := scheduler.New(cfg.OverdueCron, services.Reminder)
	if err != nil {
		logrus.Fatal("Failed to create scheduler: ", err)
	}
	jobs.Start()

	port := cfg.Port
	if port == "" {
		port = "7008"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("HTTP server shutdown failed")
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("Scheduled job still running at shutdown")
	}
}
