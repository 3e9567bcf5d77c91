package numbers

import (
	"github.com/cockroachdb/apd/v3"
)

// Decimal is arbitrary-precision decimal arithmetic rounded to Precision
// significant digits. Values are never mutated after they are returned.
type Decimal struct {
	ctx *apd.Context
}

var _ Arith[*apd.Decimal] = Decimal{}

const DefaultDecimalPrecision = 34

func NewDecimal(precision uint32) Decimal {
	if precision == 0 {
		precision = DefaultDecimalPrecision
	}
	return Decimal{
		ctx: apd.BaseContext.WithPrecision(precision),
	}
}

func (d Decimal) context() *apd.Context {
	if d.ctx == nil {
		return apd.BaseContext.WithPrecision(DefaultDecimalPrecision)
	}
	return d.ctx
}

func (d Decimal) Add(a, b *apd.Decimal) (*apd.Decimal, error) {
	ret := new(apd.Decimal)
	if _, err := d.context().Add(ret, a, b); err != nil {
		return nil, err
	}
	return ret, nil
}

func (d Decimal) Sub(a, b *apd.Decimal) (*apd.Decimal, error) {
	ret := new(apd.Decimal)
	if _, err := d.context().Sub(ret, a, b); err != nil {
		return nil, err
	}
	return ret, nil
}

func (d Decimal) Mul(a, b *apd.Decimal) (*apd.Decimal, error) {
	ret := new(apd.Decimal)
	if _, err := d.context().Mul(ret, a, b); err != nil {
		return nil, err
	}
	return ret, nil
}

func (d Decimal) Div(a, b *apd.Decimal) (*apd.Decimal, error) {
	if b.IsZero() {
		return nil, ErrDivisionByZero
	}
	ret := new(apd.Decimal)
	if _, err := d.context().Quo(ret, a, b); err != nil {
		return nil, err
	}
	return ret, nil
}

func (Decimal) Equal(a, b *apd.Decimal) bool {
	return a.Cmp(b) == 0
}

func (Decimal) Less(a, b *apd.Decimal) bool {
	return a.Cmp(b) < 0
}

func (Decimal) FromInt(n int32) *apd.Decimal {
	return apd.New(int64(n), 0)
}

func (Decimal) Format(v *apd.Decimal) string {
	if v == nil {
		return "<nil>"
	}
	return v.Text('f')
}
