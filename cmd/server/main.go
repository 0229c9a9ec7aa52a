package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"soilwatch/config"
	"soilwatch/database"
	"soilwatch/logging"
	"soilwatch/pkg/middleware"
	"soilwatch/pkg/validation"
	"soilwatch/router"

	// Readings
	readingCtrlImp "soilwatch/pkg/reading/controllerImp"
	readingRepoImp "soilwatch/pkg/reading/repositoryImp"
	readingService "soilwatch/pkg/reading/service"
	readingSvcImp "soilwatch/pkg/reading/serviceImp"

	// Export
	exportCtrlImp "soilwatch/pkg/export/controllerImp"
	exportSvcImp "soilwatch/pkg/export/serviceImp"

	// Weather
	weatherCtrlImp "soilwatch/pkg/weather/controllerImp"
	weatherSvcImp "soilwatch/pkg/weather/serviceImp"

	// Profiles
	profileCtrlImp "soilwatch/pkg/profile/controllerImp"
	profileRepoImp "soilwatch/pkg/profile/repositoryImp"
	profileSvcImp "soilwatch/pkg/profile/serviceImp"

	// Health
	healthCtrlImp "soilwatch/pkg/health/controllerImp"
)

func main() {
	// 1) Config + logger
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Infow("starting", "config", cfg.Redacted())

	// 2) DB + automigrate
	db, err := database.Open(cfg.DBDriver, cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalw("database", "driver", cfg.DBDriver, "err", err)
	}

	// 3) Repos/Services/Controllers
	v := validation.New()
	loc := cfg.Location()

	rRepo := readingRepoImp.New(db, logger)
	rSvc := readingSvcImp.New(rRepo, v, loc, logger)
	importLegacy(cfg.ImportPath, rSvc, logger)

	exSvc := exportSvcImp.New(rRepo, loc, logger)
	wSvc := weatherSvcImp.NewOpenWeather(&http.Client{Timeout: cfg.WeatherTimeout}, cfg.WeatherBaseURL, cfg.WeatherAPIKey, logger)
	if !wSvc.Configured() {
		logger.Warn("WEATHER_API_KEY not set, /api/weather will answer configuration_missing")
	}
	pSvc := profileSvcImp.New(profileRepoImp.New(db), v, logger)

	// 4) Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = v
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestLog(logger))

	// Static (optional frontend build)
	if _, err := os.Stat(cfg.StaticDir); err == nil {
		e.Static("/static", cfg.StaticDir)
		if index := filepath.Join(cfg.StaticDir, "index.html"); fileExists(index) {
			e.File("/", index)
		}
	} else {
		logger.Infow("static dir not found, serving API only", "dir", cfg.StaticDir)
	}

	// 5) Router
	r := router.New(
		e,
		readingCtrlImp.New(rSvc, logger),
		exportCtrlImp.New(exSvc, logger),
		weatherCtrlImp.New(wSvc, logger),
		profileCtrlImp.New(pSvc, logger),
		healthCtrlImp.NewHealthCtrl(db, wSvc),
	)

	// 6) Start, stop on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		logger.Infow("listening", "port", cfg.Port)
		if err := r.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("server", "err", err)
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("shutdown", "err", err)
	}
}

// importLegacy seeds an empty store from a browser export file.
func importLegacy(path string, svc readingService.ReadingService, logger *zap.SugaredLogger) {
	if path == "" {
		return
	}
	if len(svc.All()) > 0 {
		logger.Infow("store not empty, skipping import", "path", path)
		return
	}
	f, err := os.Open(path)
	if err != nil {
		logger.Warnw("import file", "path", path, "err", err)
		return
	}
	defer f.Close()
	n, err := svc.Import(f)
	if err != nil {
		logger.Warnw("import failed", "path", path, "err", err)
		return
	}
	logger.Infow("imported legacy readings", "path", path, "count", n)
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
