package mocks

import (
	"sync"
)

// ReportedError is one call recorded by RecordingReporter.
type ReportedError struct {
	Op      string
	Err     error
	KeyVals []any
}

// RecordingReporter is an out.ErrorReporter that keeps every report in memory.
type RecordingReporter struct {
	mu      sync.Mutex
	reports []ReportedError
}

func (r *RecordingReporter) Report(op string, err error, keyvals ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, ReportedError{Op: op, Err: err, KeyVals: keyvals})
}

// Reports returns a copy of the recorded reports.
func (r *RecordingReporter) Reports() []ReportedError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ReportedError(nil), r.reports...)
}
