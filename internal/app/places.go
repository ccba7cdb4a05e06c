package app

import (
	"strings"

	"tripplanner/internal/domain"
)

var priceLevelCost = map[int]int64{
	0: 0,
	1: 100_000,
	2: 250_000,
	3: 500_000,
	4: 1_000_000,
}

// CostForPriceLevel maps a 0..4 price tier to an estimated VND cost.
func CostForPriceLevel(level int) int64 { return priceLevelCost[level] }

var categoryDuration = map[domain.Category]int{
	domain.CategoryFood:       75,
	domain.CategoryDrink:      60,
	domain.CategoryAttraction: 120,
	domain.CategoryMuseum:     90,
	domain.CategoryPark:       60,
	domain.CategoryShopping:   120,
	domain.CategoryLandmark:   90,
	domain.CategoryViewpoint:  60,
	domain.CategoryNatural:    120,
	domain.CategoryTemple:     90,
}

// DurationFor is the typical visit length of a category.
func DurationFor(c domain.Category) int {
	if d, ok := categoryDuration[c]; ok {
		return d
	}
	return defaultDuration
}

var irrelevantKeywords = []string{
	"cong ty", "congty", "co phan", "dich vu", "van phong", "tru so", "chi nhanh",
	"doanh nghiep", "to chuc", "co quan",
	"company", "corporation", "corp", "ltd", "llc", "office", "headquarters",
	"branch", "enterprise", "organization", "agency", "service provider",
	"business center", "trading", "import export", "import-export",
}

var touristTypes = []string{
	"restaurant", "cafe", "coffee_shop", "food", "meal_takeaway",
	"tourist_attraction", "museum", "park", "zoo", "aquarium",
	"amusement_park", "art_gallery", "church", "hindu_temple",
	"mosque", "synagogue", "shopping_mall", "beach", "bar",
	"night_club", "bakery", "point_of_interest",
}

// IsIrrelevantPlace flags companies, offices and similar non-tourist hits.
func IsIrrelevantPlace(name string, types []string) bool {
	key := VietnameseKey(name)
	if key == "" {
		return false
	}
	for _, kw := range irrelevantKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	if hasAnyType(types, []string{"establishment"}) && !hasAnyType(types, touristTypes) {
		return true
	}
	return false
}

// InferCategory classifies a place by its provider types, then by name.
func InferCategory(types []string, name string) domain.Category {
	if len(types) == 0 {
		return categoryFromName(name)
	}
	if hasAnyType(types, []string{"cafe", "coffee_shop", "bakery", "bar", "night_club"}) {
		return domain.CategoryDrink
	}
	if hasAnyType(types, []string{"restaurant", "food"}) {
		return domain.CategoryFood
	}
	if hasAnyType(types, []string{"point_of_interest", "meal_takeaway", "meal_delivery"}) {
		n := strings.ToLower(name)
		for _, kw := range []string{"nhà hàng", "quán ăn", "đồ ăn", "restaurant"} {
			if strings.Contains(n, kw) {
				return domain.CategoryFood
			}
		}
	}
	switch {
	case hasAnyType(types, []string{"museum"}):
		return domain.CategoryMuseum
	case hasAnyType(types, []string{"park"}):
		return domain.CategoryPark
	case hasAnyType(types, []string{"shopping_mall"}):
		return domain.CategoryShopping
	case hasAnyType(types, []string{"tourist_attraction", "zoo", "aquarium", "amusement_park",
		"art_gallery", "church", "hindu_temple", "mosque", "synagogue", "beach"}):
		return domain.CategoryAttraction
	}
	return categoryFromName(name)
}

var nameCategoryRules = []struct {
	cat      domain.Category
	keywords []string
}{
	{domain.CategoryDrink, []string{"cafe", "coffee", "cà phê", "bar", "pub", "trà", "nước", "sinh tố", "giải khát"}},
	{domain.CategoryMuseum, []string{"museum", "bảo tàng"}},
	{domain.CategoryPark, []string{"park", "công viên", "garden"}},
	{domain.CategoryShopping, []string{"mall"}},
	{domain.CategoryFood, []string{"restaurant", "quán ăn", "đồ ăn", "nhà hàng"}},
	{domain.CategoryTemple, []string{"chùa", "đền", "pagoda", "temple"}},
	{domain.CategoryAttraction, []string{"bãi biển", "beach"}},
	{domain.CategoryNatural, []string{"thác", "waterfall", "hang", "cave", "núi", "mountain"}},
	{domain.CategoryViewpoint, []string{"viewpoint", "điểm ngắm", "vantage"}},
	{domain.CategoryLandmark, []string{"landmark", "monument", "địa danh"}},
}

func categoryFromName(name string) domain.Category {
	n := strings.ToLower(name)
	for _, r := range nameCategoryRules {
		for _, kw := range r.keywords {
			if strings.Contains(n, kw) {
				return r.cat
			}
		}
	}
	return domain.CategoryAttraction
}

// PlaceFilter is the quality gate applied to raw search hits.
type PlaceFilter struct {
	MinRating  float64
	NeedPhotos bool
	NeedCoords bool
}

// NormalizePlace turns a raw hit into a Candidate. forced, when set, overrides
// category inference. It reports false for hits the filter rejects.
func NormalizePlace(p domain.RawPlace, forced domain.Category, f PlaceFilter) (domain.Candidate, bool) {
	if strings.TrimSpace(p.Name) == "" || IsIrrelevantPlace(p.Name, p.Types) {
		return domain.Candidate{}, false
	}
	if p.BusinessStatus == "CLOSED_PERMANENTLY" {
		return domain.Candidate{}, false
	}
	if p.Rating < f.MinRating || (f.NeedPhotos && !p.HasPhotos) || (f.NeedCoords && p.Coords == nil) {
		return domain.Candidate{}, false
	}
	cat := forced
	if cat == "" {
		cat = InferCategory(p.Types, p.Name)
	}
	return domain.Candidate{
		Name:          strings.TrimSpace(p.Name),
		Address:       p.Address,
		Category:      cat,
		Coords:        p.Coords,
		Rating:        p.Rating,
		Votes:         p.Votes,
		PriceLevel:    p.PriceLevel,
		EstimatedCost: CostForPriceLevel(p.PriceLevel),
		DurationMin:   DurationFor(cat),
		Types:         p.Types,
	}, true
}
