package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"tripplanner/internal/adapters/gateway"
	"tripplanner/internal/domain"
)

func newClient(t *testing.T, h http.HandlerFunc) *gateway.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	cl, err := gateway.New(ts.URL, "test-key", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := gateway.New("http://localhost", "", 1); err == nil {
		t.Fatalf("expected error without API key")
	}
}

func TestClient_SearchPlaces_RetriesThenSuccess(t *testing.T) {
	var hits int32
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			w.WriteHeader(500)
		default:
			if r.Header.Get("X-API-Key") != "test-key" {
				t.Errorf("missing api key header")
			}
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["textQuery"] != "bảo tàng tại Huế" {
				t.Errorf("unexpected query: %v", body["textQuery"])
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"places": []any{map[string]any{"displayName": map[string]any{"text": "Bảo tàng Cổ vật"}}},
			})
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	got, err := cl.SearchPlaces(ctx, "bảo tàng tại Huế", 10)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_SearchPlaces_404(t *testing.T) {
	cl := newClient(t, http.NotFoundHandler().ServeHTTP)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := cl.SearchPlaces(ctx, "x", 5)
	if !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_SearchNearby_SendsLocationBias(t *testing.T) {
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			LocationBias struct {
				Circle struct {
					Center struct{ Latitude, Longitude float64 }
					Radius float64
				}
			}
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.LocationBias.Circle.Radius != 5000 || body.LocationBias.Circle.Center.Latitude != 16.46 {
			t.Errorf("unexpected bias: %+v", body.LocationBias)
		}
		_, _ = w.Write([]byte(`{"places":[]}`))
	})
	if _, err := cl.SearchNearby(context.Background(), "điểm tham quan Huế", domain.Coords{Lat: 16.46, Lng: 107.59}, 5000, 20); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestClient_RouteMatrix_ParsesBothShapes(t *testing.T) {
	bodies := []string{
		`[{"originIndex":0,"destinationIndex":0,"duration":"600s","distanceMeters":4200,"condition":"ROUTE_EXISTS"}]`,
		`{"elements":[{"originIndex":0,"destinationIndex":0,"duration":{"seconds":600},"distanceMeters":4200,"status":{}}]}`,
	}
	for _, b := range bodies {
		b := b
		cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasSuffix(r.URL.Path, ":computeRouteMatrix") {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(b))
		})
		pts := []domain.Coords{{Lat: 16.46, Lng: 107.59}}
		els, err := cl.RouteMatrix(context.Background(), pts, pts, domain.ModeDriving)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if len(els) != 1 || !els[0].OK() || els[0].Minutes() != 10 || els[0].DistanceMeters != 4200 {
			t.Fatalf("unexpected elements for %s: %+v", b, els)
		}
	}
}

func TestMatrixElement_FailedStatus(t *testing.T) {
	var e gateway.MatrixElement
	if err := json.Unmarshal([]byte(`{"status":{"code":5,"message":"NOT_FOUND"}}`), &e); err != nil {
		t.Fatal(err)
	}
	if e.OK() {
		t.Fatalf("element with error status must not be OK")
	}
}

func TestClient_PreferenceFit_Clamps(t *testing.T) {
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"score":1.7}`))
	})
	got, err := cl.PreferenceFit(context.Background(), domain.Candidate{Name: "Đại Nội"}, domain.Preferences{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != 1 {
		t.Fatalf("score not clamped: %v", got)
	}
}

func TestClient_SearchHotels_TruncatesToLimit(t *testing.T) {
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("engine") != "google_hotels" {
			t.Errorf("unexpected engine %q", r.URL.Query().Get("engine"))
		}
		_, _ = w.Write([]byte(`{"properties":[{"name":"A"},{"name":"B"},{"name":"C"}]}`))
	})
	got, err := cl.SearchHotels(context.Background(), domain.HotelQuery{City: "Huế", Limit: 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 hotels, got %d", len(got))
	}
}
