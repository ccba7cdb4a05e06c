package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"tripplanner/internal/adapters/gateway"
	server "tripplanner/internal/adapters/http_server"
	"tripplanner/internal/adapters/observability"
	redisad "tripplanner/internal/adapters/redis"
	"tripplanner/internal/adapters/travel"
	"tripplanner/internal/app"
	"tripplanner/internal/domain"
	"tripplanner/internal/shared"
	mysqlrepo "tripplanner/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// cache
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, caching degraded")
	}

	// external providers
	gw, err := gateway.New(cfg.GatewayBase, cfg.GatewayKey, cfg.GatewayRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("gateway client")
	}
	mode := domain.TravelMode(cfg.TravelMode)
	tt := travel.New(gw, cache.Named("travel"), cfg.TravelTTL)

	deps := app.PlannerDeps{
		Search: gw,
		Fit:    gw,
		Travel: tt,
		Cache:  cache.Named("itinerary"),
	}

	// db (optional)
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		deps.Repo = mysqlrepo.New(db)
	}

	planner := app.NewPlannerService(deps, app.PlannerConfig{
		Mode:          mode,
		Fallback:      domain.Coords{Lat: cfg.FallbackLat, Lng: cfg.FallbackLng},
		Filter:        app.PlaceFilter{MinRating: cfg.MinRating},
		Workers:       cfg.SearchWorkers,
		DefaultBudget: cfg.DefaultBudget,
		CacheTTL:      cfg.CacheTTL,
	})

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{P: planner})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdown); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("mode", string(mode)).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
