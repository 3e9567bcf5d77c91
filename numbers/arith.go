// Package numbers supplies the numeric capability the assembler and the
// virtual machines are generic over.
package numbers

import (
	"errors"
	"fmt"
)

// Arith is the capability a value type must provide. Implementations are
// stateless or immutable and may be shared.
type Arith[T any] interface {
	Add(a, b T) (T, error)
	Sub(a, b T) (T, error)
	Mul(a, b T) (T, error)
	Div(a, b T) (T, error)
	Equal(a, b T) bool
	Less(a, b T) bool
	FromInt(n int32) T
	Format(v T) string
}

var ErrDivisionByZero = errors.New("division by zero")

// Bool materializes a comparison result as 1 or 0.
func Bool[T any](arith Arith[T], b bool) T {
	if b {
		return arith.FromInt(1)
	}
	return arith.FromInt(0)
}

func IsZero[T any](arith Arith[T], v T) bool {
	return arith.Equal(v, arith.FromInt(0))
}

type Kind string

const (
	KindInt     Kind = "int"
	KindFloat   Kind = "float"
	KindDecimal Kind = "decimal"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindInt, KindFloat, KindDecimal:
		return k, nil
	case "":
		return KindInt, nil
	}
	return "", fmt.Errorf("unknown number kind: %q", s)
}
