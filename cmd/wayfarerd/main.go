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

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"

	"github.com/LimHyeonGyu/wayferecicd/internal/config"
	"github.com/LimHyeonGyu/wayferecicd/internal/database"
	"github.com/LimHyeonGyu/wayferecicd/internal/geocode"
	"github.com/LimHyeonGyu/wayferecicd/internal/handlers"
	"github.com/LimHyeonGyu/wayferecicd/internal/influx"
	"github.com/LimHyeonGyu/wayferecicd/internal/logging"
	"github.com/LimHyeonGyu/wayferecicd/internal/metrics"
	"github.com/LimHyeonGyu/wayferecicd/internal/service"
	storagefactory "github.com/LimHyeonGyu/wayferecicd/internal/storage/factory"
)

const serviceName = "wayfarerd"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional, for local development only.
	_ = godotenv.Load()

	configDir, err := os.Getwd()
	if err != nil {
		return err
	}
	if dir := os.Getenv("WAYFARERD_CONFIG_DIR"); dir != "" {
		configDir = dir
	}
	if err := config.Load(configDir); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	sessionStart := time.Now()
	logPath := logging.LogFilePath(viper.GetString("logsDir"), serviceName, sessionStart)
	if err := os.MkdirAll(viper.GetString("logsDir"), 0755); err != nil {
		return fmt.Errorf("failed to create logs dir: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	log := logging.Setup(viper.GetString("logLevel"), logFile)
	log.Info().Str("logFile", logPath).Msg("wayfarerd starting")

	storageCfg := config.GetStorageConfig()

	dbm := database.NewManager(log)
	if storageCfg.Type != "memory" {
		if err := dbm.Connect(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := dbm.Setup(); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	store, err := storagefactory.NewStore(storageCfg, dbm.DB, log)
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	defer store.Close()

	influxManager := influx.NewManager(log)
	if viper.GetBool("influx.enabled") {
		if err := influxManager.Connect(); err != nil {
			log.Warn().Err(err).Msg("InfluxDB unavailable, continuing without activity metrics")
		}
		defer influxManager.Close()
	}

	recorder, err := metrics.NewRecorder(influxManager)
	if err != nil {
		return fmt.Errorf("failed to create metrics recorder: %w", err)
	}

	geocoder := geocode.New(config.GetGeocodingConfig(), log)

	joins := service.NewMemberRoomService(store, log)
	h := &handlers.Handler{
		Markers:   service.NewMarkerService(store, geocoder, recorder, log),
		Members:   service.NewMemberService(store, log),
		Rooms:     service.NewRoomService(store, joins, log),
		Schedules: service.NewScheduleService(store, log),
		Joins:     joins,
		Logger:    log,
	}

	serverCfg := config.GetServerConfig()
	e := echo.New()
	h.Register(e, serverCfg.AllowedOrigins)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", serverCfg.ListenAddr).Msg("HTTP server listening")
		if err := e.Start(serverCfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	log.Info().Msg("wayfarerd stopped")
	return nil
}
