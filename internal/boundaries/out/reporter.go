package out

// ErrorReporter receives failures the core handles without surfacing them as
// operation errors: failed lookups, unsupported source kinds.
type ErrorReporter interface {
	// Report records err for the operation op with optional key/value context.
	Report(op string, err error, keyvals ...any)
}
