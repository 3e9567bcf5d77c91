package asm

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedLine   = errors.New("malformed line")
	ErrArity           = fmt.Errorf("%w: wrong number of operands", ErrMalformedLine)
	ErrBadLiteral      = fmt.Errorf("%w: invalid numeric literal", ErrMalformedLine)
	ErrUnknownMnemonic = fmt.Errorf("%w: unknown instruction", ErrMalformedLine)
	ErrReservedName    = fmt.Errorf("%w: reserved name", ErrMalformedLine)

	ErrUnbalancedControlFlow = errors.New("unbalanced control flow")
	ErrControlFlowMismatch   = errors.New("mismatched control flow")
	ErrElseWithoutIf         = fmt.Errorf("%w: ELSE without IF", ErrControlFlowMismatch)
	ErrEndIfWithoutIf        = fmt.Errorf("%w: ENDIF without IF", ErrControlFlowMismatch)
	ErrEndWhileWithoutWhile  = fmt.Errorf("%w: ENDWHILE without WHILE", ErrControlFlowMismatch)
	ErrEndDoWithoutDo        = fmt.Errorf("%w: ENDDO without DO", ErrControlFlowMismatch)

	ErrUndefinedLabel  = errors.New("undefined label")
	ErrDuplicateLabel  = errors.New("duplicate label")
	ErrProgramTooLarge = errors.New("program too large")
)

// LineError locates an assembly failure in the source.
type LineError struct {
	File string
	Line int
	Err  error
}

func (e *LineError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// WithFile sets the file name on a *LineError in err that has none.
func WithFile(err error, file string) error {
	var lineErr *LineError
	if file != "" && errors.As(err, &lineErr) && lineErr.File == "" {
		lineErr.File = file
	}
	return err
}
