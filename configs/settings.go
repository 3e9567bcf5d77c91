package configs

import (
	"errors"
	"fmt"

	"github.com/glomdom/zyde/cmds"
	"github.com/glomdom/zyde/modes"
	"github.com/glomdom/zyde/numbers"
	"github.com/glomdom/zyde/vars"
)

// Settings tune both machines. Command line flags override config files,
// which override defaults.
type Settings struct {
	Number       numbers.Kind
	Precision    int
	Registers    int
	MaxSteps     int
	MaxCallDepth int
}

const (
	DefaultRegisters = 16
	// development mode only, so that a runaway loop fails a test instead
	// of hanging it
	DevelopmentMaxSteps = 1 << 20
	DefaultMaxCallDepth = 1 << 16
	MaxPrecision        = 1000
)

var ErrInvalidSetting = errors.New("invalid setting")

// Validate applies the bounds of schema.cue to values that came from flags.
// A zero Precision selects the decimal default.
func (s Settings) Validate() error {
	if s.Registers <= 0 {
		return fmt.Errorf("%w: registers %d, must be positive", ErrInvalidSetting, s.Registers)
	}
	if s.Precision < 0 || s.Precision > MaxPrecision {
		return fmt.Errorf("%w: precision %d, must be within 1..%d", ErrInvalidSetting, s.Precision, MaxPrecision)
	}
	if s.MaxSteps < 0 {
		return fmt.Errorf("%w: max steps %d, must not be negative", ErrInvalidSetting, s.MaxSteps)
	}
	if s.MaxCallDepth < 0 {
		return fmt.Errorf("%w: max call depth %d, must not be negative", ErrInvalidSetting, s.MaxCallDepth)
	}
	return nil
}

var (
	numberFlag       numbers.Kind
	precisionFlag    = cmds.Var[int]("-precision")
	registersFlag    = cmds.Var[int]("-regs")
	maxStepsFlag     = cmds.Var[*int]("-max-steps")
	maxCallDepthFlag = cmds.Var[int]("-max-call-depth")
)

func init() {
	cmds.Define("-number", cmds.Func(func(s string) (err error) {
		numberFlag, err = numbers.ParseKind(s)
		return
	}).Desc("numeric model: int, float or decimal"))
}

func (Module) Settings(
	loader Loader,
	mode modes.Mode,
) Settings {
	var ret Settings

	ret.Number = vars.FirstNonZero(
		numberFlag,
		First[numbers.Kind](loader, "number"),
		numbers.KindInt,
	)

	ret.Precision = vars.FirstNonZero(
		*precisionFlag,
		First[int](loader, "precision"),
	)

	ret.Registers = vars.FirstNonZero(
		*registersFlag,
		First[int](loader, "registers"),
		DefaultRegisters,
	)

	// zero is meaningful here, so presence decides
	if mode.IsDevelopment() {
		ret.MaxSteps = DevelopmentMaxSteps
	}
	if n := First[*int](loader, "max_steps"); n != nil {
		ret.MaxSteps = *n
	}
	if n := *maxStepsFlag; n != nil {
		ret.MaxSteps = *n
	}

	ret.MaxCallDepth = vars.FirstNonZero(
		*maxCallDepthFlag,
		First[int](loader, "max_call_depth"),
		DefaultMaxCallDepth,
	)

	return ret
}
