// Package validator converts raw operand input into exact decimals.
package validator

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Mask13/IS601-Midterm/internal/config"
)

// ValidationError reports a malformed or out-of-range operand. It is surfaced
// to callers unchanged, never wrapped into an operation failure.
type ValidationError struct {
	Value string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validate parses value into an exact decimal and enforces the configured
// magnitude bound. Strings are trimmed of surrounding whitespace; native
// numeric types and decimals pass through conversion. The returned decimal is
// normalized: no superfluous trailing zeros.
func Validate(value any, cfg *config.Config) (decimal.Decimal, error) {
	var (
		d   decimal.Decimal
		err error
	)

	switch v := value.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.Decimal{}, &ValidationError{Value: v, Msg: fmt.Sprintf("invalid number format: %q", v)}
		}
		d, err = decimal.NewFromString(s)
		if err != nil {
			return decimal.Decimal{}, &ValidationError{Value: v, Msg: fmt.Sprintf("invalid number format: %q", s)}
		}
	case decimal.Decimal:
		d = v
	case int:
		d = decimal.NewFromInt(int64(v))
	case int32:
		d = decimal.NewFromInt32(v)
	case int64:
		d = decimal.NewFromInt(v)
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return decimal.Decimal{}, &ValidationError{
				Value: fmt.Sprint(v),
				Msg:   fmt.Sprintf("invalid number format: %v", v),
			}
		}
		d = decimal.NewFromFloat32(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Decimal{}, &ValidationError{
				Value: fmt.Sprint(v),
				Msg:   fmt.Sprintf("invalid number format: %v", v),
			}
		}
		d = decimal.NewFromFloat(v)
	default:
		return decimal.Decimal{}, &ValidationError{
			Value: fmt.Sprint(value),
			Msg:   fmt.Sprintf("invalid number format: %v", value),
		}
	}

	if d.Abs().GreaterThan(cfg.MaxInputValue) {
		return decimal.Decimal{}, &ValidationError{
			Value: fmt.Sprint(value),
			Msg:   fmt.Sprintf("value exceeds maximum allowed: %s", cfg.MaxInputValue),
		}
	}

	return Normalize(d), nil
}

// Normalize strips superfluous trailing zeros from the fractional part, so
// "7.50" and "7.5" validate to the same representation.
func Normalize(d decimal.Decimal) decimal.Decimal {
	if d.Exponent() >= 0 {
		return d
	}
	s := d.String()
	if !strings.Contains(s, ".") {
		return d
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	n, err := decimal.NewFromString(s)
	if err != nil {
		return d
	}
	return n
}
