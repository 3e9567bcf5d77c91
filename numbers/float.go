package numbers

import "strconv"

// Float follows IEEE 754: dividing by zero yields an infinity or NaN
// instead of failing.
type Float struct{}

var _ Arith[float64] = Float{}

func (Float) Add(a, b float64) (float64, error) {
	return a + b, nil
}

func (Float) Sub(a, b float64) (float64, error) {
	return a - b, nil
}

func (Float) Mul(a, b float64) (float64, error) {
	return a * b, nil
}

func (Float) Div(a, b float64) (float64, error) {
	return a / b, nil
}

func (Float) Equal(a, b float64) bool {
	return a == b
}

func (Float) Less(a, b float64) bool {
	return a < b
}

func (Float) FromInt(n int32) float64 {
	return float64(n)
}

func (Float) Format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
