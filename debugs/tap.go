package debugs

import (
	"context"
	"slices"

	"github.com/glomdom/zyde/logs"
	"github.com/samber/lo"
	"go.starlark.net/repl"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

// Tap opens a starlark REPL on stdin with globals bound, for looking at a
// machine after it stopped.
type Tap func(ctx context.Context, what string, globals map[string]any) error

func (Module) Tap(
	logger logs.Logger,
) Tap {
	return func(ctx context.Context, what string, globals map[string]any) error {
		names := lo.Keys(globals)
		slices.Sort(names)
		logger.InfoContext(ctx, "tap: "+what, "globals", names)
		defer func() {
			logger.InfoContext(ctx, "tap end: "+what)
		}()

		dict, err := toStringDict(globals)
		if err != nil {
			return err
		}
		thread := &starlark.Thread{
			Name: what,
		}
		repl.REPLOptions(fileOptions, thread, dict)
		return nil
	}
}

// Inspect evaluates one starlark expression against globals.
type Inspect func(ctx context.Context, expr string, globals map[string]any) (starlark.Value, error)

func (Module) Inspect(
	logger logs.Logger,
) Inspect {
	return func(ctx context.Context, expr string, globals map[string]any) (starlark.Value, error) {
		dict, err := toStringDict(globals)
		if err != nil {
			return nil, err
		}
		thread := &starlark.Thread{
			Name: "inspect",
		}
		logger.DebugContext(ctx, "inspect", "expr", expr)
		return starlark.EvalOptions(fileOptions, thread, "<inspect>", expr, dict)
	}
}
