// Package engine orchestrates validation, operation execution, history
// mutation, persistence, and undo/redo snapshot management.
//
// A Calculator is single-threaded by design: it owns its history and
// undo/redo stacks exclusively and never runs operations concurrently.
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Mask13/IS601-Midterm/internal/calculation"
	"github.com/Mask13/IS601-Midterm/internal/config"
	"github.com/Mask13/IS601-Midterm/internal/history"
	"github.com/Mask13/IS601-Midterm/internal/operations"
	"github.com/Mask13/IS601-Midterm/internal/validator"
)

// Observer receives each new record after a successful operation.
type Observer func(calculation.Record)

// Calculator is the engine behind the calculator's command surface.
type Calculator struct {
	cfg    *config.Config
	store  *history.Store
	logger *zap.Logger

	strategy  operations.Operation
	hist      []calculation.Record
	undoStack [][]calculation.Record
	redoStack [][]calculation.Record
	observers []Observer
}

// New builds a Calculator over a validated configuration. Persisted history
// is loaded into memory; a load failure at construction is downgraded to a
// warning and the engine starts with empty history.
func New(cfg *config.Config, store *history.Store, logger *zap.Logger) (*Calculator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Calculator{
		cfg:    cfg,
		store:  store,
		logger: logger,
	}

	recs, err := store.Load()
	if err != nil {
		logger.Warn("could not load existing history", zap.Error(err))
	} else {
		c.hist = history.Trim(recs, cfg.MaxHistorySize)
	}

	logger.Info("calculator initialized",
		zap.Int("history_size", len(c.hist)),
		zap.String("history_file", store.Path()),
	)
	return c, nil
}

// SetOperation selects the strategy used by subsequent PerformOperation
// calls.
func (c *Calculator) SetOperation(op operations.Operation) {
	c.strategy = op
	c.logger.Info("set operation", zap.String("operation", op.Name()))
}

// OnCalculation registers an observer notified after every successful
// operation. Observers run synchronously on the engine's caller.
func (c *Calculator) OnCalculation(fn Observer) {
	c.observers = append(c.observers, fn)
}

// PerformOperation validates both raw operands, executes the current
// strategy, records the calculation, and persists it best-effort.
//
// Validation failures propagate unchanged as *validator.ValidationError.
// Strategy failures are wrapped into *OperationError. A persistence failure
// is logged as a warning and swallowed: in-memory history stays
// authoritative and the result is still returned.
func (c *Calculator) PerformOperation(a, b any) (decimal.Decimal, error) {
	if c.strategy == nil {
		err := &OperationError{Msg: "no operation set"}
		c.logger.Error("operation failed", zap.Error(err))
		return decimal.Decimal{}, err
	}

	va, err := validator.Validate(a, c.cfg)
	if err != nil {
		c.logger.Error("validation error", zap.Error(err))
		return decimal.Decimal{}, err
	}
	vb, err := validator.Validate(b, c.cfg)
	if err != nil {
		c.logger.Error("validation error", zap.Error(err))
		return decimal.Decimal{}, err
	}

	result, err := c.strategy.Execute(va, vb)
	if err != nil {
		c.logger.Error("operation failed",
			zap.String("operation", c.strategy.Name()),
			zap.Error(err),
		)
		return decimal.Decimal{}, &OperationError{
			Msg:   fmt.Sprintf("operation failed: %s", err),
			Cause: err,
		}
	}

	rec := calculation.New(c.strategy.Name(), va, vb, result)

	c.pushUndoSnapshot()
	c.redoStack = nil
	c.hist = history.Trim(append(c.hist, rec), c.cfg.MaxHistorySize)

	if err := c.store.Append(rec, c.cfg.MaxHistorySize); err != nil {
		c.logger.Warn("failed to persist calculation to history", zap.Error(err))
	}

	c.logger.Info("operation completed",
		zap.String("operation", rec.Operation),
		zap.String("a", rec.A.String()),
		zap.String("b", rec.B.String()),
		zap.String("result", rec.Result.String()),
	)

	for _, fn := range c.observers {
		fn(rec)
	}

	return result, nil
}

// Undo restores the history preceding the last mutation. It reports whether
// an undo was performed; an empty undo stack is a no-op.
func (c *Calculator) Undo() bool {
	if len(c.undoStack) == 0 {
		return false
	}
	snap := c.undoStack[len(c.undoStack)-1]
	c.undoStack = c.undoStack[:len(c.undoStack)-1]
	c.redoStack = append(c.redoStack, snapshot(c.hist))
	c.hist = snap
	c.logger.Info("undo performed", zap.Int("history_size", len(c.hist)))
	return true
}

// Redo reverses the last Undo. It reports whether a redo was performed; an
// empty redo stack is a no-op.
func (c *Calculator) Redo() bool {
	if len(c.redoStack) == 0 {
		return false
	}
	snap := c.redoStack[len(c.redoStack)-1]
	c.redoStack = c.redoStack[:len(c.redoStack)-1]
	c.undoStack = append(c.undoStack, snapshot(c.hist))
	c.hist = snap
	c.logger.Info("redo performed", zap.Int("history_size", len(c.hist)))
	return true
}

// CanUndo reports whether Undo would do anything.
func (c *Calculator) CanUndo() bool { return len(c.undoStack) > 0 }

// CanRedo reports whether Redo would do anything.
func (c *Calculator) CanRedo() bool { return len(c.redoStack) > 0 }

// ClearHistory empties the in-memory history after snapshotting it for undo.
// When persist is given (or the configured default is true) the on-disk
// store is overwritten with the empty history; a persistence failure here is
// fatal to the call, unlike the best-effort append in PerformOperation.
func (c *Calculator) ClearHistory(persist ...bool) error {
	p := c.cfg.ClearPersistByDefault
	if len(persist) > 0 {
		p = persist[0]
	}

	c.pushUndoSnapshot()
	c.redoStack = nil
	c.hist = nil

	if p {
		if err := c.store.Save(nil); err != nil {
			c.logger.Error("failed to clear persisted history", zap.Error(err))
			return &OperationError{
				Msg:   fmt.Sprintf("failed to clear persisted history: %s", err),
				Cause: err,
			}
		}
	}

	c.logger.Info("history cleared", zap.Bool("persisted", p))
	return nil
}

// LoadHistory replaces the in-memory history with the on-disk store's
// contents, snapshotting the current history for undo. A read failure is
// fatal and leaves history unchanged.
func (c *Calculator) LoadHistory() error {
	recs, err := c.store.Load()
	if err != nil {
		c.logger.Error("failed to load history from disk", zap.Error(err))
		return &OperationError{
			Msg:   fmt.Sprintf("failed to load history from disk: %s", err),
			Cause: err,
		}
	}

	c.pushUndoSnapshot()
	c.redoStack = nil
	c.hist = history.Trim(recs, c.cfg.MaxHistorySize)

	c.logger.Info("history loaded", zap.Int("history_size", len(c.hist)))
	return nil
}

// SaveHistory writes the full in-memory history to the on-disk store, with
// no trimming. A write failure is fatal.
func (c *Calculator) SaveHistory() error {
	if err := c.store.Save(c.hist); err != nil {
		c.logger.Error("failed to save history to disk", zap.Error(err))
		return &OperationError{
			Msg:   fmt.Sprintf("failed to save history to disk: %s", err),
			Cause: err,
		}
	}
	c.logger.Info("history saved", zap.Int("history_size", len(c.hist)))
	return nil
}

// History returns a read-only snapshot of the current in-memory history.
func (c *Calculator) History() []calculation.Record {
	return snapshot(c.hist)
}

// pushUndoSnapshot saves the pre-mutation history onto the undo stack.
// Callers performing a fresh mutation must also clear the redo stack.
func (c *Calculator) pushUndoSnapshot() {
	c.undoStack = append(c.undoStack, snapshot(c.hist))
}

// snapshot copies the history so stack entries never alias the live slice.
// Records themselves are value types.
func snapshot(recs []calculation.Record) []calculation.Record {
	if len(recs) == 0 {
		return nil
	}
	out := make([]calculation.Record, len(recs))
	copy(out, recs)
	return out
}
