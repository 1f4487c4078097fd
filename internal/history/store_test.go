package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mask13/IS601-Midterm/internal/calculation"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "history", "calculator_history.csv"), nil)
}

func rec(t *testing.T, op string, a, b, result string) calculation.Record {
	t.Helper()
	return calculation.Record{
		Operation: op,
		A:         decimal.RequireFromString(a),
		B:         decimal.RequireFromString(b),
		Result:    decimal.RequireFromString(result),
		Timestamp: time.Now(),
	}
}

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	s := newTestStore(t)

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d records", len(records))
	}
}

func TestAppendCreatesDirectoryAndPersists(t *testing.T) {
	s := newTestStore(t)

	if err := s.Append(rec(t, "add", "1", "2", "3"), 10); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if _, err := os.Stat(s.Path()); err != nil {
		t.Fatalf("expected backing file to exist: %v", err)
	}

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Operation != "add" || !records[0].Result.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("unexpected record %+v", records[0])
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	want := []calculation.Record{
		rec(t, "add", "1", "2", "3"),
		rec(t, "divide", "1", "3", "0.3333333333"),
		rec(t, "power", "2", "10", "1024"),
	}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("record %d mismatch: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSaveEmptyWritesValidEmptyStore(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save([]calculation.Record{rec(t, "add", "1", "1", "2")}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(nil); err != nil {
		t.Fatalf("Save(nil): %v", err)
	}

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d records", len(records))
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("reading backing file: %v", err)
	}
	if !strings.HasPrefix(string(data), strings.Join(calculation.Columns, ",")) {
		t.Fatalf("expected header row, got %q", string(data))
	}
}

func TestAppendTrimsToNewestEntries(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 5; i++ {
		r := rec(t, fmt.Sprintf("op%d", i), "1", "1", "2")
		if err := s.Append(r, 3); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records after trim, got %d", len(records))
	}
	for i, wantOp := range []string{"op2", "op3", "op4"} {
		if records[i].Operation != wantOp {
			t.Fatalf("record %d operation = %q, want %q", i, records[i].Operation, wantOp)
		}
	}
}

func TestAppendUnboundedWhenMaxSizeZero(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 4; i++ {
		if err := s.Append(rec(t, "add", "1", "1", "2"), 0); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
}

func TestLoadSkipsMalformedRowsIndividually(t *testing.T) {
	s := newTestStore(t)

	good1 := rec(t, "add", "1", "2", "3")
	good2 := rec(t, "multiply", "2", "3", "6")
	if err := s.Save([]calculation.Record{good1, good2}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Inject corrupt rows between the valid ones.
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("reading backing file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	corrupted := []string{
		lines[0],
		lines[1],
		`add,"{'a': Decimal('2'), 'b': Decimal('3')}",5,2026-01-01T00:00:00Z`,
		`divide,"{""a"":""1"",""b"":""0""}",not-a-number,2026-01-01T00:00:00Z`,
		lines[2],
	}
	if err := os.WriteFile(s.Path(), []byte(strings.Join(corrupted, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("writing corrupted file: %v", err)
	}

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 valid records, got %d", len(records))
	}
	if records[0].Operation != "add" || records[1].Operation != "multiply" {
		t.Fatalf("unexpected surviving records: %q, %q", records[0].Operation, records[1].Operation)
	}
}

func TestSaveOverwritesPreviousContents(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save([]calculation.Record{rec(t, "add", "1", "1", "2"), rec(t, "add", "2", "2", "4")}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save([]calculation.Record{rec(t, "subtract", "5", "3", "2")}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 1 || records[0].Operation != "subtract" {
		t.Fatalf("expected single subtract record, got %+v", records)
	}
}

func TestTrim(t *testing.T) {
	records := []calculation.Record{
		rec(t, "op0", "0", "0", "0"),
		rec(t, "op1", "1", "1", "2"),
		rec(t, "op2", "2", "2", "4"),
	}

	t.Run("above bound", func(t *testing.T) {
		got := Trim(records, 2)
		if len(got) != 2 || got[0].Operation != "op1" || got[1].Operation != "op2" {
			t.Fatalf("Trim kept wrong records: %+v", got)
		}
	})

	t.Run("below bound", func(t *testing.T) {
		if got := Trim(records, 5); len(got) != 3 {
			t.Fatalf("expected untouched slice, got %d records", len(got))
		}
	})

	t.Run("unbounded", func(t *testing.T) {
		if got := Trim(records, 0); len(got) != 3 {
			t.Fatalf("expected untouched slice, got %d records", len(got))
		}
	})
}
