// Package operations defines the closed set of arithmetic strategies the
// calculator dispatches, plus the name→strategy registry built at startup.
package operations

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Sentinel failure kinds for strategy preconditions. Strategies wrap these
// with operation-specific messages; callers match with errors.Is.
var (
	// ErrUnknownOperation is returned by Registry.Get for unrecognized names.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrDivisionByZero marks a zero divisor or zero percent base.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrOperandType marks an operand of the wrong shape, such as a
	// fractional operand given to integer division.
	ErrOperandType = errors.New("invalid operand type")
	// ErrOperandValue marks an operand outside the operation's domain, such
	// as a negative exponent or a non-positive root degree.
	ErrOperandValue = errors.New("invalid operand value")
)

// Operation is a named, self-validating arithmetic strategy over two exact
// decimal operands. Execute runs Validate first; a validation failure is
// returned, never panicked.
type Operation interface {
	Name() string
	Validate(a, b decimal.Decimal) error
	Execute(a, b decimal.Decimal) (decimal.Decimal, error)
}

// Registry resolves textual operation names to strategy instances.
type Registry struct {
	ops map[string]Operation
}

// NewRegistry builds the full strategy catalog. Operations whose results can
// be inexact (division, root, percent, fractional powers) round to precision
// fractional digits.
func NewRegistry(precision int32) *Registry {
	ops := []Operation{
		addition{},
		subtraction{},
		multiplication{},
		division{precision: precision},
		power{precision: precision},
		root{precision: precision},
		modulus{},
		integerDivision{},
		percent{precision: precision},
		absoluteDifference{},
	}

	r := &Registry{ops: make(map[string]Operation, len(ops))}
	for _, op := range ops {
		r.ops[op.Name()] = op
	}
	return r
}

// Get resolves name to a strategy. Unrecognized names fail with
// ErrUnknownOperation.
func (r *Registry) Get(name string) (Operation, error) {
	op, ok := r.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	return op, nil
}

// Names lists all recognized operation names in sorted order, for help and
// discovery.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
