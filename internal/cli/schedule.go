package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tripplanner/internal/app"
	"tripplanner/internal/domain"
)

// PoolFile is the input of the schedule command: a candidate pool and an
// optional hotel to anchor travel times.
type PoolFile struct {
	Destination string             `json:"destination"`
	Candidates  []domain.Candidate `json:"candidates"`
	Hotel       *domain.Hotel      `json:"hotel,omitempty"`
}

type ScheduleCmd struct {
	Pool      string   `arg:"" help:"JSON file with destination, candidates and optional hotel." type:"existingfile"`
	Days      int      `short:"d" help:"Trip length in days." default:"3"`
	Start     string   `short:"s" help:"First day (YYYY-MM-DD). Defaults to today."`
	Energy    string   `short:"e" help:"Energy level." enum:"low,medium,high" default:"medium"`
	Style     string   `help:"Spending style." enum:"budget,balanced,premium" default:"balanced"`
	Budget    int64    `short:"b" help:"Total budget in VND." default:"5000000"`
	Interests []string `short:"i" help:"Interests, used by the audit."`
	Output    string   `short:"o" help:"Write the itinerary here instead of stdout." type:"path"`
}

func (c *ScheduleCmd) Validate() error {
	if c.Days < 1 || c.Days > app.MaxTripDays {
		return fmt.Errorf("days must be between 1 and %d", app.MaxTripDays)
	}
	if c.Start != "" {
		if _, err := time.Parse(app.DateLayout, c.Start); err != nil {
			return fmt.Errorf("invalid start date %q", c.Start)
		}
	}
	return nil
}

func (c *ScheduleCmd) Run(ctx *Context) error {
	var pool PoolFile
	if err := readJSON(c.Pool, &pool); err != nil {
		return err
	}
	if len(pool.Candidates) == 0 {
		return fmt.Errorf("%s has no candidates", c.Pool)
	}

	var start time.Time
	if c.Start != "" {
		start, _ = time.Parse(app.DateLayout, c.Start)
	}
	energy := domain.ParseEnergy(c.Energy)
	style := domain.ParseStyle(c.Style)
	alloc := app.AllocateBudget(c.Budget, style)

	cands := append([]domain.Candidate(nil), pool.Candidates...)
	for i := range cands {
		if cands[i].DurationMin <= 0 {
			cands[i].DurationMin = app.DurationFor(cands[i].Category)
		}
	}
	app.Rescore(cands, energy, alloc.Activities)
	app.SortByScore(cands)

	it := ctx.Planner.BuildItinerary(context.Background(), app.BuildRequest{
		Destination: strings.TrimSpace(pool.Destination),
		Candidates:  cands,
		Hotel:       pool.Hotel,
		Days:        c.Days,
		Start:       start,
		Energy:      energy,
		Style:       style,
		Budget:      alloc,
		Preferences: c.Interests,
	})
	return ctx.emit(c.Output, it)
}
