package httpserver_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpserver "tripplanner/internal/adapters/http_server"
	"tripplanner/internal/app"
	"tripplanner/internal/domain"
)

// ---- fake planner ----

type fakePlanner struct {
	stored    map[string]domain.Itinerary
	lastQuery domain.ItineraryQuery
	lastAmend app.AmendRequest
	repaired  int
}

func (f *fakePlanner) Plan(ctx context.Context, req domain.PlanRequest) (domain.Itinerary, error) {
	if req.Destination == "" {
		return domain.Itinerary{}, fmt.Errorf("%w: destination is required", app.ErrInvalidRequest)
	}
	it := domain.Itinerary{
		ID:          "it-1",
		Destination: req.Destination,
		Energy:      domain.ParseEnergy(string(req.Energy)),
		Days:        []domain.Day{{Date: "2025-03-01"}},
		Compliance:  domain.ComplianceReport{Score: 85},
	}
	if f.stored == nil {
		f.stored = map[string]domain.Itinerary{}
	}
	f.stored[it.ID] = it
	return it, nil
}

func (f *fakePlanner) GetItinerary(ctx context.Context, id string) (domain.Itinerary, error) {
	it, ok := f.stored[id]
	if !ok {
		return domain.Itinerary{}, domain.ErrNotFound
	}
	return it, nil
}

func (f *fakePlanner) ListItineraries(ctx context.Context, q domain.ItineraryQuery) ([]domain.ItinerarySummary, error) {
	f.lastQuery = q
	return []domain.ItinerarySummary{{ID: "it-1", Destination: "Đà Lạt", Days: 3}}, nil
}

func (f *fakePlanner) AddActivities(ctx context.Context, id string, req app.AmendRequest) (domain.Itinerary, error) {
	f.lastAmend = req
	it, ok := f.stored[id]
	if !ok {
		return domain.Itinerary{}, domain.ErrNotFound
	}
	return it, nil
}

func (f *fakePlanner) RepairMealSpacing(ctx context.Context, it domain.Itinerary) domain.Itinerary {
	f.repaired++
	return it
}

func (f *fakePlanner) AuditCompliance(it domain.Itinerary) domain.ComplianceReport {
	return domain.ComplianceReport{Score: 70, Checks: []domain.CheckResult{{Name: "meals", Verdict: domain.Pass}}}
}

func (f *fakePlanner) RescoreWithTravelTime(ctx context.Context, cands []domain.Candidate, ref domain.Coords, e domain.Energy, activityBudget int64) []domain.Candidate {
	out := append([]domain.Candidate(nil), cands...)
	for i := range out {
		out[i].Score = 1
	}
	return out
}

func newTestServer(t *testing.T, p *fakePlanner) *httptest.Server {
	t.Helper()
	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{P: p})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	res, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { res.Body.Close() })
	return res
}

// ---- tests ----

func TestPlan_CreatedThenCacheableGet(t *testing.T) {
	ts := newTestServer(t, &fakePlanner{})

	res := post(t, ts.URL+"/v1/itineraries", `{"destination":"Đà Lạt","energy":"high"}`)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("plan status %d", res.StatusCode)
	}
	if loc := res.Header.Get("Location"); loc != "/v1/itineraries/it-1" {
		t.Fatalf("location %q", loc)
	}

	get, err := http.Get(ts.URL + "/v1/itineraries/it-1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer get.Body.Close()
	etag := get.Header.Get("ETag")
	if get.StatusCode != http.StatusOK || etag == "" {
		t.Fatalf("get status %d etag %q", get.StatusCode, etag)
	}
	var it domain.Itinerary
	if err := json.NewDecoder(get.Body).Decode(&it); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if it.Destination != "Đà Lạt" || it.Energy != domain.EnergyHigh {
		t.Fatalf("unexpected itinerary: %+v", it)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/itineraries/it-1", nil)
	req.Header.Set("If-None-Match", etag)
	again, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET conditional: %v", err)
	}
	defer again.Body.Close()
	if again.StatusCode != http.StatusNotModified {
		t.Fatalf("want 304, got %d", again.StatusCode)
	}
}

func TestPlan_MissingDestinationIsProblem(t *testing.T) {
	ts := newTestServer(t, &fakePlanner{})

	res := post(t, ts.URL+"/v1/itineraries", `{"energy":"low"}`)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type %q", ct)
	}
}

func TestPlan_MalformedBody(t *testing.T) {
	ts := newTestServer(t, &fakePlanner{})
	res := post(t, ts.URL+"/v1/itineraries", `{"destination":`)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", res.StatusCode)
	}
}

func TestGetItinerary_NotFound(t *testing.T) {
	ts := newTestServer(t, &fakePlanner{})
	res, err := http.Get(ts.URL + "/v1/itineraries/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d", res.StatusCode)
	}
	var p struct {
		Status int    `json:"status"`
		Title  string `json:"title"`
	}
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if p.Status != 404 || p.Title != "Not Found" {
		t.Fatalf("unexpected problem: %+v", p)
	}
}

func TestListItineraries_PassesFilterAndValidatesLimit(t *testing.T) {
	fp := &fakePlanner{}
	ts := newTestServer(t, fp)

	res, err := http.Get(ts.URL + "/v1/itineraries?destination=Hue&limit=5")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	if fp.lastQuery.Destination != "Hue" || fp.lastQuery.Limit != 5 {
		t.Fatalf("query not forwarded: %+v", fp.lastQuery)
	}

	bad, err := http.Get(ts.URL + "/v1/itineraries?limit=500")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for limit=500, got %d", bad.StatusCode)
	}
}

func TestAddActivities_ForwardsDay(t *testing.T) {
	fp := &fakePlanner{stored: map[string]domain.Itinerary{"it-1": {ID: "it-1"}}}
	ts := newTestServer(t, fp)

	res := post(t, ts.URL+"/v1/itineraries/it-1/activities", `{"query":"bảo tàng","day":2}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	if fp.lastAmend.Day != 2 || fp.lastAmend.Query != "bảo tàng" {
		t.Fatalf("amend not forwarded: %+v", fp.lastAmend)
	}

	missing := post(t, ts.URL+"/v1/itineraries/other/activities", `{"query":"x"}`)
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404, got %d", missing.StatusCode)
	}
}

func TestRepair_RequiresDays(t *testing.T) {
	fp := &fakePlanner{}
	ts := newTestServer(t, fp)

	if res := post(t, ts.URL+"/v1/itineraries/repair", `{"days":[]}`); res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", res.StatusCode)
	}
	if res := post(t, ts.URL+"/v1/itineraries/repair", `{"days":[{"date":"2025-03-01","segments":[]}]}`); res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	if fp.repaired != 1 {
		t.Fatalf("repaired %d times", fp.repaired)
	}
}

func TestAudit_ReturnsReport(t *testing.T) {
	ts := newTestServer(t, &fakePlanner{})
	res := post(t, ts.URL+"/v1/itineraries/audit", `{"days":[]}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	var rep domain.ComplianceReport
	if err := json.NewDecoder(res.Body).Decode(&rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Score != 70 || rep.Check("meals") != domain.Pass {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestRescore_RequiresRef(t *testing.T) {
	ts := newTestServer(t, &fakePlanner{})

	if res := post(t, ts.URL+"/v1/candidates/rescore", `{"candidates":[]}`); res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", res.StatusCode)
	}
	res := post(t, ts.URL+"/v1/candidates/rescore", `{"candidates":[{"name":"Hồ Xuân Hương"}],"ref":{"lat":11.94,"lng":108.45}}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	var out []domain.Candidate
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].Score != 1 {
		t.Fatalf("unexpected candidates: %+v", out)
	}
}

func TestBudget_AllocatesByStyle(t *testing.T) {
	ts := newTestServer(t, &fakePlanner{})
	res, err := http.Get(ts.URL + "/v1/budget?total=10000000&style=budget")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	var b domain.BudgetAllocation
	if err := json.NewDecoder(res.Body).Decode(&b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Hotel != 3_000_000 || b.Activities != 1_000_000 || b.Food != 1_500_000 || b.Transport != 4_500_000 {
		t.Fatalf("unexpected allocation: %+v", b)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, &fakePlanner{})
	res, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
}
