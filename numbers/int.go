package numbers

import "strconv"

// Int is 64-bit two's complement arithmetic. Overflow wraps.
type Int struct{}

var _ Arith[int64] = Int{}

func (Int) Add(a, b int64) (int64, error) {
	return a + b, nil
}

func (Int) Sub(a, b int64) (int64, error) {
	return a - b, nil
}

func (Int) Mul(a, b int64) (int64, error) {
	return a * b, nil
}

func (Int) Div(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}

func (Int) Equal(a, b int64) bool {
	return a == b
}

func (Int) Less(a, b int64) bool {
	return a < b
}

func (Int) FromInt(n int32) int64 {
	return int64(n)
}

func (Int) Format(v int64) string {
	return strconv.FormatInt(v, 10)
}
