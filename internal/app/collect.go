package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"tripplanner/internal/domain"
)

const (
	perQueryLimit     = 20
	defaultWorkers    = 4
	minFoodCandidates = 50
	minDrinkResults   = 20
)

var interestQueries = map[string][]string{
	"food":        {"quán ăn tại %s", "nhà hàng tại %s", "đặc sản tại %s"},
	"coffee":      {"cà phê tại %s", "cafe tại %s", "coffee tại %s"},
	"museum":      {"bảo tàng tại %s", "museum tại %s"},
	"photography": {"điểm check-in tại %s", "địa điểm chụp ảnh tại %s", "viewpoint tại %s"},
	"nightlife":   {"bar tại %s", "pub tại %s", "club tại %s"},
	"nature":      {"thiên nhiên tại %s", "cảnh quan thiên nhiên tại %s", "núi tại %s"},
	"park":        {"công viên tại %s", "park tại %s"},
	"shopping":    {"trung tâm thương mại tại %s", "mall tại %s", "shopping tại %s"},
	"temple":      {"chùa tại %s", "đền tại %s", "temple tại %s"},
	"beach":       {"bãi biển tại %s", "beach tại %s"},
	"attraction":  {"địa điểm tham quan tại %s", "khu du lịch tại %s"},
}

// iteration order for partial interest matches
var interestKeys = []string{
	"food", "coffee", "museum", "photography", "nightlife", "nature",
	"park", "shopping", "temple", "beach", "attraction",
}

var defaultQueries = []struct {
	format string
	limit  int
	cat    domain.Category
}{
	{"địa điểm tham quan tại %s", 20, ""},
	{"bảo tàng tại %s", 15, domain.CategoryMuseum},
	{"địa danh nổi tiếng tại %s", 15, domain.CategoryLandmark},
	{"công viên tại %s", 10, domain.CategoryPark},
	{"điểm ngắm cảnh tại %s", 10, domain.CategoryViewpoint},
	{"thiên nhiên tại %s", 10, domain.CategoryNatural},
	{"chùa tại %s", 10, domain.CategoryTemple},
}

// InterestQueries expands free-text interests into search queries for city.
// Unknown interests are searched verbatim. The result has no duplicates.
func InterestQueries(interests []string, city string) []string {
	var out []string
	seen := map[string]bool{}
	push := func(q string) {
		if !seen[q] {
			seen[q] = true
			out = append(out, q)
		}
	}
	for _, raw := range interests {
		p := strings.ToLower(strings.TrimSpace(raw))
		if p == "" {
			continue
		}
		if qs, ok := interestQueries[p]; ok {
			for _, q := range qs {
				push(fmt.Sprintf(q, city))
			}
			continue
		}
		for _, k := range interestKeys {
			if strings.Contains(p, k) || strings.Contains(k, p) {
				for _, q := range interestQueries[k] {
					push(fmt.Sprintf(q, city))
				}
				break
			}
		}
		push(p + " tại " + city)
	}
	return out
}

type searchTask struct {
	query  string
	limit  int
	forced domain.Category
}

type CollectorConfig struct {
	Search  domain.SearchClient
	Locale  Locale
	Filter  PlaceFilter
	Workers int
}

// Collector gathers raw candidates for a destination from the search provider.
type Collector struct {
	search  domain.SearchClient
	loc     Locale
	filter  PlaceFilter
	workers int64
}

func NewCollector(cfg CollectorConfig) *Collector {
	w := cfg.Workers
	if w <= 0 {
		w = defaultWorkers
	}
	if cfg.Locale.Key == nil {
		cfg.Locale = VietnameseLocale()
	}
	return &Collector{search: cfg.Search, loc: cfg.Locale, filter: cfg.Filter, workers: int64(w)}
}

// Collect runs every query concurrently and merges the hits in priority
// order: interest queries, default sightseeing, food, then drinks. A failed
// query only loses its own results.
func (c *Collector) Collect(ctx context.Context, city string, days int, interests []string) []domain.Candidate {
	if c.search == nil || strings.TrimSpace(city) == "" {
		return nil
	}
	if days < 1 {
		days = 1
	}
	var tasks []searchTask
	for _, q := range InterestQueries(interests, city) {
		tasks = append(tasks, searchTask{query: q, limit: perQueryLimit})
	}
	for _, d := range defaultQueries {
		tasks = append(tasks, searchTask{query: fmt.Sprintf(d.format, city), limit: d.limit, forced: d.cat})
	}
	tasks = append(tasks,
		searchTask{query: "quán ăn ngon tại " + city, limit: max(days*3*2, minFoodCandidates), forced: domain.CategoryFood},
		searchTask{query: "quán cà phê tại " + city, limit: max(days*2, minDrinkResults), forced: domain.CategoryDrink},
	)

	results := make([][]domain.Candidate, len(tasks))
	sem := semaphore.NewWeighted(c.workers)
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range tasks {
		i, t := i, t
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			results[i] = c.run(gctx, t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Str("city", city).Msg("candidate collection interrupted")
	}

	merged := Dedup(c.loc, results...)
	log.Info().Str("city", city).Int("queries", len(tasks)).Int("candidates", len(merged)).Msg("candidates collected")
	return merged
}

func (c *Collector) run(ctx context.Context, t searchTask) []domain.Candidate {
	raw, err := c.search.SearchPlaces(ctx, t.query, t.limit)
	if err != nil {
		log.Warn().Err(err).Str("query", t.query).Msg("place search failed")
		return nil
	}
	out := make([]domain.Candidate, 0, len(raw))
	for _, m := range raw {
		if cand, ok := NormalizePlace(mapPlace(m), t.forced, c.filter); ok {
			out = append(out, cand)
		}
	}
	log.Debug().Str("query", t.query).Int("hits", len(raw)).Int("kept", len(out)).Msg("place search")
	return out
}
