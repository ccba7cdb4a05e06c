package cli

import (
	"context"
	"fmt"

	"tripplanner/internal/domain"
)

type AuditCmd struct {
	Itinerary string `arg:"" help:"Itinerary JSON file." type:"existingfile"`
	Repair    bool   `short:"r" help:"Repair back-to-back meals first and print the whole itinerary."`
	Output    string `short:"o" help:"Write the result here instead of stdout." type:"path"`
}

func (c *AuditCmd) Run(ctx *Context) error {
	var it domain.Itinerary
	if err := readJSON(c.Itinerary, &it); err != nil {
		return err
	}
	if len(it.Days) == 0 {
		return fmt.Errorf("%s has no days", c.Itinerary)
	}
	if !c.Repair {
		return ctx.emit(c.Output, ctx.Planner.AuditCompliance(it))
	}
	fixed := ctx.Planner.RepairMealSpacing(context.Background(), it)
	fixed.Compliance = ctx.Planner.AuditCompliance(fixed)
	return ctx.emit(c.Output, fixed)
}
