package app

import (
	"math"
	"sort"
	"time"

	"tripplanner/internal/domain"
)

const (
	hotelSearchLimit = 30
	hotelTopN        = 10
	premiumBonus     = 0.2
)

// Nights counts the nights between check-in and check-out, at least one.
func Nights(start, end time.Time) int {
	n := int(end.Sub(start).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}

// HotelValue scores a hotel on rating, review volume and price against the
// per-night budget. Premium travellers get a bonus for hotels above budget.
func HotelValue(h domain.Hotel, perNight float64, style domain.SpendingStyle) float64 {
	rating := h.Rating / 5
	reviews := math.Min(float64(h.Reviews)/1000, 1)
	price := 0.0
	if perNight > 0 {
		price = math.Max(0, 1-math.Min(float64(h.PricePerNight)/perNight, 1.5))
	}
	v := 0.6*rating + 0.3*reviews + 0.1*price
	if style == domain.StylePremium && float64(h.PricePerNight) > perNight {
		v += premiumBonus
	}
	return v
}

// RankHotels scores hotels against the hotel budget and returns the best ten,
// each annotated with its stay cost.
func RankHotels(hotels []domain.Hotel, hotelBudget int64, nights int, style domain.SpendingStyle) []domain.Hotel {
	if nights < 1 {
		nights = 1
	}
	perNight := float64(hotelBudget) / float64(nights)
	out := make([]domain.Hotel, 0, len(hotels))
	for _, h := range hotels {
		if h.Name == "" {
			continue
		}
		h.BudgetPerNight = math.Round(perNight)
		h.Nights = nights
		h.TotalCost = h.PricePerNight * int64(nights)
		h.ValueScore = HotelValue(h, perNight, style)
		out = append(out, h)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ValueScore > out[j].ValueScore })
	if len(out) > hotelTopN {
		out = out[:hotelTopN]
	}
	return out
}
