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

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/vehicle-configurator/internal/catalog"
	"github.com/iliyamo/vehicle-configurator/internal/config"
	"github.com/iliyamo/vehicle-configurator/internal/configurator"
	"github.com/iliyamo/vehicle-configurator/internal/database"
	"github.com/iliyamo/vehicle-configurator/internal/handler"
	"github.com/iliyamo/vehicle-configurator/internal/imagery"
	"github.com/iliyamo/vehicle-configurator/internal/logger"
	"github.com/iliyamo/vehicle-configurator/internal/middleware"
	"github.com/iliyamo/vehicle-configurator/internal/queue"
	"github.com/iliyamo/vehicle-configurator/internal/repository"
	"github.com/iliyamo/vehicle-configurator/internal/router"
	"github.com/iliyamo/vehicle-configurator/internal/service"
	"github.com/iliyamo/vehicle-configurator/internal/session"
)

func main() {
	cfg := config.Load()
	ccfg := config.LoadConfiguratorConfig()

	mode := "dev"
	if cfg.IsProd() {
		mode = "prod"
	}
	lg, err := logger.New(mode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	db, err := database.Open(cfg)
	if err != nil {
		lg.Fatal("database open failed", "error", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		lg.Warn("redis unreachable; cache, rate limit and preload memo disabled")
	} else {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vehicles := repository.NewVehicleRepo(db)
	leads := repository.NewLeadRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	loader := catalog.NewLoader(vehicles, lg)
	publisher := service.NewQueuePublisher(ccfg.BrokerURL, ccfg.LeadsQueue)
	leadSvc := service.NewLeadService(leads, publisher, lg)

	var preloader imagery.Preloader
	if ccfg.PreloadEnabled {
		preloader = &imagery.CachedPreloader{
			Next:   imagery.NewHTTPPreloader(ccfg.PreloadTimeout, ccfg.PreloadMaxBytes),
			Redis:  rdb,
			TTL:    ccfg.PreloadCacheTTL,
			Prefix: ccfg.PreloadCachePrefix,
		}
	}
	sessions := session.NewRegistry(func(id string) *configurator.Controller {
		return configurator.New(id, loader, configurator.Options{
			Preloader:      preloader,
			PreloadTimeout: ccfg.PreloadTimeout,
			Sink:           leadSvc,
			Log:            lg,
		})
	}, ccfg.SessionTTL, lg)
	go sessions.Run(ctx, ccfg.SweepInterval)

	if ccfg.LeadsConsumerEnabled {
		consumer := &queue.LeadConsumer{URL: ccfg.BrokerURL, Queue: ccfg.LeadsQueue, Dir: ccfg.LeadsLogDir, Log: lg}
		go consumer.Run(ctx)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(lg))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, "Cache-Control"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))

	router.RegisterRoutes(e, handler.Ready(db, rdb))
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewCatalogHandler(vehicles, loader, lg),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterConfigurator(e, handler.NewConfiguratorHandler(sessions, lg), cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, lg))
	router.RegisterAdmin(e, handler.NewAdminHandler(vehicles, leads, lg), cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		lg.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error("shutdown failed", "error", err)
	}
	sessions.CloseAll()
}
