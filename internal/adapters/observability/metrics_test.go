package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tripplanner/internal/adapters/observability"
)

func scrape(t *testing.T) string {
	t.Helper()
	mh := observability.MetricsHandler(observability.InitRegistry())
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	return string(body)
}

func TestMetricsRegistryAndHandler(t *testing.T) {
	// record one sample so counters are non-zero
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)

	if out := scrape(t); !strings.Contains(out, "tripplanner_http_requests_total") {
		t.Fatalf("expected tripplanner_http_requests_total in output")
	}
}

func TestObserveItinerary(t *testing.T) {
	observability.ObserveItinerary("high", 83, 1)

	out := scrape(t)
	for _, want := range []string{
		`tripplanner_itineraries_built_total{energy="high"}`,
		"tripplanner_compliance_score_bucket",
		"tripplanner_meal_spacing_violations_total",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}

func TestNewLogger_Level(t *testing.T) {
	if got := observability.NewLogger("prod", "debug").GetLevel(); got != zerolog.DebugLevel {
		t.Fatalf("level = %v, want debug", got)
	}
	if got := observability.NewLogger("dev", "bogus").GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("level = %v, want info", got)
	}
}
