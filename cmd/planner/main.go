package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tripplanner/internal/adapters/travel"
	"tripplanner/internal/app"
	"tripplanner/internal/cli"
	"tripplanner/internal/domain"
)

var CLI struct {
	Version kong.VersionFlag
	Verbose bool   `short:"v" help:"Log scheduling decisions to stderr."`
	Mode    string `help:"Travel mode for offline estimates." enum:"walking,bicycling,driving,transit" default:"driving"`

	Schedule cli.ScheduleCmd `cmd:"" help:"Build an itinerary from a candidate pool file."`
	Audit    cli.AuditCmd    `cmd:"" help:"Grade an itinerary file, optionally repairing meal spacing."`
	Budget   cli.BudgetCmd   `cmd:"" help:"Split a total budget by spending style."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("planner"),
		kong.Description("Offline itinerary scheduler: no search provider, great-circle travel times"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	level := zerolog.WarnLevel
	if CLI.Verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	appCtx := &cli.Context{
		Planner: app.NewPlannerService(app.PlannerDeps{
			Travel: travel.New(nil, nil, 0),
		}, app.PlannerConfig{Mode: domain.TravelMode(CLI.Mode)}),
		Out: os.Stdout,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
