package engine

// OperationError reports a failed engine operation: no strategy set, a
// strategy precondition violation, or an I/O failure on a fatal persistence
// path. It always carries the underlying cause's message.
type OperationError struct {
	Msg   string
	Cause error
}

func (e *OperationError) Error() string {
	return e.Msg
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}
