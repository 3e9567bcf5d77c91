package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/apd/v3"
	"github.com/glomdom/zyde/asm"
	"github.com/glomdom/zyde/configs"
	"github.com/glomdom/zyde/debugs"
	"github.com/glomdom/zyde/logs"
	"github.com/glomdom/zyde/numbers"
	"github.com/glomdom/zyde/regvm"
	"github.com/glomdom/zyde/stackvm"
	"github.com/samber/lo"
)

// RegisterExt marks register IR for List.
const RegisterExt = ".zreg"

// Session runs programs with the configured numeric model.
type Session interface {
	RunStack(ctx context.Context, path string) error
	RunRegisters(ctx context.Context, path string) error
	List(ctx context.Context, path string) error
	REPL(ctx context.Context) error
}

// NewSession fails when settings are out of range.
type NewSession func() (Session, error)

type env struct {
	settings configs.Settings
	logger   logs.Logger
	newSpan  logs.NewSpan
	tap      debugs.Tap
	inspect  debugs.Inspect
	stdout   io.Writer
}

func (Module) NewSession(
	settings configs.Settings,
	logger logs.Logger,
	newSpan logs.NewSpan,
	tap debugs.Tap,
	inspect debugs.Inspect,
	stdout Stdout,
) NewSession {
	return func() (Session, error) {
		if err := settings.Validate(); err != nil {
			return nil, err
		}
		e := env{
			settings: settings,
			logger:   logger,
			newSpan:  newSpan,
			tap:      tap,
			inspect:  inspect,
			stdout:   stdout,
		}
		switch settings.Number {
		case numbers.KindFloat:
			return &session[float64]{env: e, arith: numbers.Float{}}, nil
		case numbers.KindDecimal:
			return &session[*apd.Decimal]{env: e, arith: numbers.NewDecimal(uint32(settings.Precision))}, nil
		default:
			return &session[int64]{env: e, arith: numbers.Int{}}, nil
		}
	}
}

type session[T any] struct {
	env
	arith numbers.Arith[T]
}

// open treats "-" as stdin.
func open(path string) (io.ReadCloser, string, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), "<stdin>", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", wrap(err)
	}
	return f, path, nil
}

func (s *session[T]) assembleStack(path string) (*stackvm.Program[T], error) {
	r, name, err := open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return asm.Assemble(name, r, s.arith)
}

func (s *session[T]) assembleRegisters(path string) ([]regvm.Inst[T], error) {
	r, name, err := open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return regvm.Assemble(name, r, s.arith)
}

func (s *session[T]) stackVM(prog *stackvm.Program[T]) *stackvm.VM[T] {
	vm := stackvm.New(prog, s.arith)
	vm.Out = s.stdout
	vm.Logger = s.logger
	vm.MaxSteps = s.settings.MaxSteps
	vm.MaxCallDepth = s.settings.MaxCallDepth
	return vm
}

func (s *session[T]) RunStack(ctx context.Context, path string) error {
	ctx, _ = s.newSpan(ctx, "run "+path, "")
	prog, err := s.assembleStack(path)
	if err != nil {
		return logs.WrapSpan(ctx, err)
	}
	vm := s.stackVM(prog)
	runErr := vm.Run()
	s.logger.InfoContext(ctx, "run end",
		"steps", vm.Steps,
		"stack", len(vm.Stack),
	)
	return s.postMortem(ctx, runErr, s.stackGlobals(vm))
}

func (s *session[T]) RunRegisters(ctx context.Context, path string) error {
	ctx, _ = s.newSpan(ctx, "run "+path, "")
	prog, err := s.assembleRegisters(path)
	if err != nil {
		return logs.WrapSpan(ctx, err)
	}
	vm := regvm.New(prog, s.settings.Registers, s.arith)
	vm.Out = s.stdout
	vm.Logger = s.logger
	vm.MaxSteps = s.settings.MaxSteps
	vm.MaxCallDepth = s.settings.MaxCallDepth
	runErr := vm.Run()
	s.logger.InfoContext(ctx, "run end",
		"steps", vm.Steps,
	)
	return s.postMortem(ctx, runErr, s.registerGlobals(vm))
}

func (s *session[T]) List(ctx context.Context, path string) error {
	if filepath.Ext(path) == RegisterExt {
		prog, err := s.assembleRegisters(path)
		if err != nil {
			return err
		}
		writeRegisterListing(s.stdout, prog)
		return nil
	}
	prog, err := s.assembleStack(path)
	if err != nil {
		return err
	}
	writeStackListing(s.stdout, prog.Listing(s.arith))
	return nil
}

func (s *session[T]) format(v T, _ int) string {
	return s.arith.Format(v)
}

func (s *session[T]) formatVars(vars map[string]T) map[string]string {
	return lo.MapValues(vars, func(v T, _ string) string {
		return s.arith.Format(v)
	})
}

func (s *session[T]) stackGlobals(vm *stackvm.VM[T]) map[string]any {
	return map[string]any{
		"pc":         vm.PC,
		"steps":      vm.Steps,
		"stack":      lo.Map(vm.Stack, s.format),
		"vars":       s.formatVars(vm.Vars),
		"call_stack": vm.CallStack.ReturnPCs(),
		"callstack":  vm.CallStackString,
	}
}

func (s *session[T]) registerGlobals(vm *regvm.VM[T]) map[string]any {
	return map[string]any{
		"pc":         vm.PC,
		"steps":      vm.Steps,
		"registers":  lo.Map(vm.Registers, s.format),
		"vars":       s.formatVars(vm.Vars),
		"call_stack": vm.CallStack.ReturnPCs(),
		"callstack":  vm.CallStackString,
	}
}

// postMortem reports the final machine state as requested by -dump,
// -inspect and -tap, then returns runErr tagged with the run span.
func (s *session[T]) postMortem(ctx context.Context, runErr error, globals map[string]any) error {
	if runErr != nil {
		s.logger.ErrorContext(ctx, "trap",
			"error", runErr,
			"call_stack", globals["call_stack"],
		)
	}

	if *doDump {
		writeState(s.stdout, globals)
	}

	var errs []error
	for _, expr := range *inspects {
		v, err := s.inspect(ctx, expr, globals)
		if err != nil {
			errs = append(errs, fmt.Errorf("inspect %q: %w", expr, err))
			continue
		}
		fmt.Fprintf(s.stdout, "%s = %s\n", expr, v)
	}

	if *doTap {
		if err := s.tap(ctx, "post-mortem", globals); err != nil {
			errs = append(errs, err)
		}
	}

	if runErr != nil {
		errs = append([]error{logs.WrapSpan(ctx, runErr)}, errs...)
	}
	return errors.Join(errs...)
}
