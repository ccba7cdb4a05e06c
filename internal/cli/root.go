package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"tripplanner/internal/app"
)

type Context struct {
	Planner *app.PlannerService
	Out     io.Writer
}

func readJSON(path string, dst any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// emit writes v as indented JSON to path, or to ctx.Out when path is empty.
func (ctx *Context) emit(path string, v any) error {
	w := ctx.Out
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
