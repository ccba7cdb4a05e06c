package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	LogLevel      string
	HTTPAddr      string
	MetricsAddr   string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	GatewayBase   string
	GatewayKey    string
	GatewayRPS    int
	TravelMode    string
	TravelTTL     time.Duration
	SearchWorkers int
	FallbackLat   float64
	FallbackLng   float64
	MinRating     float64
	DefaultBudget int64
	CacheTTL      time.Duration
	WarmCities    []string
	WarmDays      int
	WarmWorkers   int
}

// PopularDestinations are pre-planned by the warmer when WARM_CITIES is unset.
var PopularDestinations = []string{
	"Đà Lạt", "Hội An", "Huế", "Hà Nội", "Hồ Chí Minh", "Nha Trang", "Đà Nẵng", "Phú Quốc",
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		LogLevel:      env("LOG_LEVEL", "info"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		MySQLDSN:      env("MYSQL_DSN", ""),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		GatewayBase:   env("GATEWAY_BASE_URL", "http://localhost:8090"),
		GatewayKey:    env("GATEWAY_API_KEY", ""),
		GatewayRPS:    atoi("GATEWAY_RPS", 5),
		TravelMode:    env("TRAVEL_MODE", "driving"),
		TravelTTL:     time.Duration(atoi("TRAVEL_CACHE_TTL_SECONDS", 86400)) * time.Second,
		SearchWorkers: atoi("SEARCH_WORKERS", 4),
		FallbackLat:   atof("FALLBACK_LAT", 10.7769),
		FallbackLng:   atof("FALLBACK_LNG", 106.7009),
		MinRating:     atof("MIN_RATING", 0),
		DefaultBudget: int64(atoi("DEFAULT_BUDGET", 5_000_000)),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		WarmCities:    list("WARM_CITIES", PopularDestinations),
		WarmDays:      atoi("WARM_DAYS", 3),
		WarmWorkers:   atoi("WARM_WORKERS", 2),
	}
	if c.GatewayKey == "" {
		log.Warn().Msg("GATEWAY_API_KEY is empty")
	}
	if c.MySQLDSN == "" {
		log.Warn().Msg("MYSQL_DSN is empty, itineraries will not be persisted")
	}
	return c
}

func list(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
