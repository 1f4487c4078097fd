package operations

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// guardDigits is the extra precision carried through intermediate steps of
// inexact computations before the final rounding.
const guardDigits = 8

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)

	// maxExponent bounds integer exponents before the int conversion in
	// Execute; IntPart on anything larger would silently wrap.
	maxExponent = decimal.NewFromInt(math.MaxInt32)
)

type addition struct{}

func (addition) Name() string                           { return "add" }
func (addition) Validate(a, b decimal.Decimal) error    { return nil }
func (o addition) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := o.Validate(a, b); err != nil {
		return decimal.Decimal{}, err
	}
	return a.Add(b), nil
}

type subtraction struct{}

func (subtraction) Name() string                        { return "subtract" }
func (subtraction) Validate(a, b decimal.Decimal) error { return nil }
func (o subtraction) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := o.Validate(a, b); err != nil {
		return decimal.Decimal{}, err
	}
	return a.Sub(b), nil
}

type multiplication struct{}

func (multiplication) Name() string                        { return "multiply" }
func (multiplication) Validate(a, b decimal.Decimal) error { return nil }
func (o multiplication) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := o.Validate(a, b); err != nil {
		return decimal.Decimal{}, err
	}
	return a.Mul(b), nil
}

type division struct {
	precision int32
}

func (division) Name() string { return "divide" }

func (division) Validate(a, b decimal.Decimal) error {
	if b.IsZero() {
		return fmt.Errorf("%w: cannot divide by zero", ErrDivisionByZero)
	}
	return nil
}

func (o division) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := o.Validate(a, b); err != nil {
		return decimal.Decimal{}, err
	}
	return trim(a.DivRound(b, o.precision)), nil
}

type power struct {
	precision int32
}

func (power) Name() string { return "power" }

func (power) Validate(a, b decimal.Decimal) error {
	if b.Sign() < 0 {
		return fmt.Errorf("%w: exponent must be non-negative", ErrOperandValue)
	}
	return nil
}

func (o power) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := o.Validate(a, b); err != nil {
		return decimal.Decimal{}, err
	}
	if b.IsInteger() {
		if b.Cmp(maxExponent) > 0 {
			return decimal.Decimal{}, fmt.Errorf("%w: exponent %s is too large", ErrOperandValue, b)
		}
		res, err := a.PowInt32(int32(b.IntPart()))
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrOperandValue, err)
		}
		return res, nil
	}
	res, err := a.PowWithPrecision(b, o.precision+guardDigits)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrOperandValue, err)
	}
	return trim(res.Round(o.precision)), nil
}

type root struct {
	precision int32
}

func (root) Name() string { return "root" }

func (root) Validate(a, b decimal.Decimal) error {
	if b.Sign() <= 0 {
		return fmt.Errorf("%w: root degree must be positive", ErrOperandValue)
	}
	return nil
}

// Execute computes a^(1/b). The inverse degree is carried with guard digits
// and the result rounded back to the configured precision, so exact roots
// such as root(9, 2) come out exact.
func (o root) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := o.Validate(a, b); err != nil {
		return decimal.Decimal{}, err
	}
	inv := one.DivRound(b, o.precision+2*guardDigits)
	res, err := a.PowWithPrecision(inv, o.precision+guardDigits)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrOperandValue, err)
	}
	return trim(res.Round(o.precision)), nil
}

type modulus struct{}

func (modulus) Name() string { return "modulus" }

func (modulus) Validate(a, b decimal.Decimal) error {
	if b.IsZero() {
		return fmt.Errorf("%w: cannot compute modulus with a zero divisor", ErrDivisionByZero)
	}
	return nil
}

func (o modulus) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := o.Validate(a, b); err != nil {
		return decimal.Decimal{}, err
	}
	return a.Mod(b), nil
}

type integerDivision struct{}

func (integerDivision) Name() string { return "integer-division" }

func (integerDivision) Validate(a, b decimal.Decimal) error {
	if !a.IsInteger() || !b.IsInteger() {
		return fmt.Errorf("%w: integer division requires integer operands", ErrOperandType)
	}
	if b.IsZero() {
		return fmt.Errorf("%w: cannot perform integer division by zero", ErrDivisionByZero)
	}
	return nil
}

// Execute returns floor(a/b), so -7 divided by 2 is -4.
func (o integerDivision) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := o.Validate(a, b); err != nil {
		return decimal.Decimal{}, err
	}
	q, r := a.QuoRem(b, 0)
	if !r.IsZero() && r.Sign() != b.Sign() {
		q = q.Sub(one)
	}
	return q, nil
}

type percent struct {
	precision int32
}

func (percent) Name() string { return "percent" }

func (percent) Validate(a, b decimal.Decimal) error {
	if b.IsZero() {
		return fmt.Errorf("%w: cannot calculate percentage with a base of zero", ErrDivisionByZero)
	}
	return nil
}

func (o percent) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := o.Validate(a, b); err != nil {
		return decimal.Decimal{}, err
	}
	return trim(a.Mul(hundred).DivRound(b, o.precision)), nil
}

type absoluteDifference struct{}

func (absoluteDifference) Name() string                        { return "absolute-difference" }
func (absoluteDifference) Validate(a, b decimal.Decimal) error { return nil }
func (o absoluteDifference) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := o.Validate(a, b); err != nil {
		return decimal.Decimal{}, err
	}
	return a.Sub(b).Abs(), nil
}

// trim drops superfluous trailing zeros left behind by fixed-precision
// rounding.
func trim(d decimal.Decimal) decimal.Decimal {
	if d.Exponent() >= 0 {
		return d
	}
	s := d.String()
	if !strings.Contains(s, ".") {
		return d
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	t, err := decimal.NewFromString(s)
	if err != nil {
		return d
	}
	return t
}
