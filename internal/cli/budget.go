package cli

import (
	"fmt"

	"tripplanner/internal/app"
	"tripplanner/internal/domain"
)

type BudgetCmd struct {
	Total int64  `arg:"" help:"Total budget in VND."`
	Style string `short:"s" help:"Spending style." enum:"budget,balanced,premium" default:"balanced"`
}

func (c *BudgetCmd) Validate() error {
	if c.Total < 0 {
		return fmt.Errorf("total must not be negative")
	}
	return nil
}

func (c *BudgetCmd) Run(ctx *Context) error {
	return ctx.emit("", app.AllocateBudget(c.Total, domain.ParseStyle(c.Style)))
}
