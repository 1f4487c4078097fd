// Package calculation defines the immutable unit of calculator history.
package calculation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Column order of a serialized record row. The history store owns the file
// mechanics; this schema is part of the record's contract.
var Columns = []string{"operation", "operands", "result", "timestamp"}

// Record is one performed calculation. It is a value type: copies never alias
// mutable state, which keeps undo/redo snapshots independent of live history.
type Record struct {
	Operation string
	A         decimal.Decimal
	B         decimal.Decimal
	Result    decimal.Decimal
	Timestamp time.Time
}

// New builds a Record stamped with the current time.
func New(operation string, a, b, result decimal.Decimal) Record {
	return Record{
		Operation: operation,
		A:         a,
		B:         b,
		Result:    result,
		Timestamp: time.Now(),
	}
}

// Operands returns the operand mapping under its fixed keys.
func (r Record) Operands() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{"a": r.A, "b": r.B}
}

// Equal reports whether two records describe the same calculation. Decimal
// comparison is by value and timestamps by instant, so a record equals its
// serialized round-trip.
func (r Record) Equal(other Record) bool {
	return r.Operation == other.Operation &&
		r.A.Equal(other.A) &&
		r.B.Equal(other.B) &&
		r.Result.Equal(other.Result) &&
		r.Timestamp.Equal(other.Timestamp)
}

// String renders the record for history listings.
func (r Record) String() string {
	return fmt.Sprintf("%s(%s, %s) = %s", r.Operation, r.A, r.B, r.Result)
}

// ToRow serializes the record into the tabular schema: decimals as exact
// plain text, operands as a key→decimal-string JSON object, timestamp as
// ISO-8601.
func (r Record) ToRow() []string {
	operands, _ := json.Marshal(map[string]string{
		"a": r.A.String(),
		"b": r.B.String(),
	})
	return []string{
		r.Operation,
		string(operands),
		r.Result.String(),
		r.Timestamp.Format(time.RFC3339Nano),
	}
}

// FromRow reconstructs a record from its serialized row. Any malformed field
// fails the whole row; the store skips such rows individually.
func FromRow(row []string) (Record, error) {
	if len(row) != len(Columns) {
		return Record{}, fmt.Errorf("row has %d fields, want %d", len(row), len(Columns))
	}

	var operands map[string]string
	if err := json.Unmarshal([]byte(row[1]), &operands); err != nil {
		return Record{}, fmt.Errorf("parse operands %q: %w", row[1], err)
	}

	a, err := parseOperand(operands, "a")
	if err != nil {
		return Record{}, err
	}
	b, err := parseOperand(operands, "b")
	if err != nil {
		return Record{}, err
	}

	result, err := decimal.NewFromString(row[2])
	if err != nil {
		return Record{}, fmt.Errorf("parse result %q: %w", row[2], err)
	}

	ts, err := time.Parse(time.RFC3339Nano, row[3])
	if err != nil {
		return Record{}, fmt.Errorf("parse timestamp %q: %w", row[3], err)
	}

	return Record{
		Operation: row[0],
		A:         a,
		B:         b,
		Result:    result,
		Timestamp: ts,
	}, nil
}

func parseOperand(operands map[string]string, key string) (decimal.Decimal, error) {
	raw, ok := operands[key]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("operand %q missing", key)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse operand %q=%q: %w", key, raw, err)
	}
	return d, nil
}
