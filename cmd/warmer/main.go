package main

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tripplanner/internal/adapters/gateway"
	"tripplanner/internal/adapters/observability"
	redisad "tripplanner/internal/adapters/redis"
	"tripplanner/internal/adapters/travel"
	"tripplanner/internal/app"
	"tripplanner/internal/domain"
	"tripplanner/internal/shared"
	mysqlrepo "tripplanner/internal/storage/mysql"
)

// warmer pre-plans a default itinerary for each popular destination so the
// route matrix and itinerary caches are hot before traffic arrives.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Str("base", cfg.GatewayBase).
		Int("workers", cfg.WarmWorkers).
		Int("days", cfg.WarmDays).
		Strs("cities", cfg.WarmCities).
		Msg("warmer starting")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}

	gw, err := gateway.New(cfg.GatewayBase, cfg.GatewayKey, cfg.GatewayRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize gateway client")
	}

	deps := app.PlannerDeps{
		Search: gw,
		Fit:    gw,
		Travel: travel.New(gw, cache.Named("travel"), cfg.TravelTTL),
		Cache:  cache.Named("itinerary"),
	}
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		deps.Repo = mysqlrepo.New(db)
	}

	planner := app.NewPlannerService(deps, app.PlannerConfig{
		Mode:          domain.TravelMode(cfg.TravelMode),
		Fallback:      domain.Coords{Lat: cfg.FallbackLat, Lng: cfg.FallbackLng},
		Filter:        app.PlaceFilter{MinRating: cfg.MinRating},
		Workers:       cfg.SearchWorkers,
		DefaultBudget: cfg.DefaultBudget,
		CacheTTL:      cfg.CacheTTL,
	})

	start := time.Now().AddDate(0, 0, 1)
	end := start.AddDate(0, 0, max(cfg.WarmDays, 1)-1)

	sem := semaphore.NewWeighted(int64(max(cfg.WarmWorkers, 1)))
	var wg sync.WaitGroup

	for _, city := range cfg.WarmCities {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(city string) {
			defer wg.Done()
			defer sem.Release(1)

			it, err := planner.Plan(ctx, domain.PlanRequest{
				Destination: city,
				StartDate:   start.Format(app.DateLayout),
				EndDate:     end.Format(app.DateLayout),
				Energy:      domain.EnergyMedium,
				Style:       domain.StyleBalanced,
			})
			if err != nil {
				log.Warn().Str("city", city).Err(err).Msg("warm failed")
				return
			}
			log.Info().Str("city", city).Str("id", it.ID).Int("score", it.Compliance.Score).Msg("warm ok")
		}(city)
	}

	wg.Wait()
	log.Info().Msg("warming completed")
}
