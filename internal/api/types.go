package api

import (
	"encoding/json"
	"time"

	"github.com/Mask13/IS601-Midterm/internal/calculation"
)

// rawNumber accepts either a JSON string or a bare JSON number, preserving
// the exact textual form for decimal validation.
type rawNumber string

func (n *rawNumber) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = rawNumber(s)
		return nil
	}
	*n = rawNumber(b)
	return nil
}

// calcRequest is the JSON body for POST /calculator/{operation}. Operands
// are exact decimal text; quoted strings avoid float truncation in clients.
type calcRequest struct {
	A rawNumber `json:"a"`
	B rawNumber `json:"b"`
}

// calcResponse echoes the validated operands and the exact decimal result.
type calcResponse struct {
	Operation string `json:"operation"`
	A         string `json:"a"`
	B         string `json:"b"`
	Result    string `json:"result"`
}

// recordPayload is the wire form of one history record.
type recordPayload struct {
	Operation string            `json:"operation"`
	Operands  map[string]string `json:"operands"`
	Result    string            `json:"result"`
	Timestamp string            `json:"timestamp"`
}

func newRecordPayload(rec calculation.Record) recordPayload {
	return recordPayload{
		Operation: rec.Operation,
		Operands: map[string]string{
			"a": rec.A.String(),
			"b": rec.B.String(),
		},
		Result:    rec.Result.String(),
		Timestamp: rec.Timestamp.Format(time.RFC3339Nano),
	}
}

// historyResponse is the JSON response for GET /calculator/history.
type historyResponse struct {
	History []recordPayload `json:"history"`
}

// stackResponse reports whether an undo or redo was performed.
type stackResponse struct {
	Performed bool `json:"performed"`
}

// operationsResponse lists the recognized operation names.
type operationsResponse struct {
	Operations []string `json:"operations"`
}
