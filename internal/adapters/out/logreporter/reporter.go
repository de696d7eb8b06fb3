// Package logreporter reports core failures through the structured logger.
package logreporter

import (
	"errors"

	"github.com/charmbracelet/log"

	"github.com/logilab/onyxia-composer/internal/domain"
	"github.com/logilab/onyxia-composer/pkg/logger"
)

// Reporter implements out.ErrorReporter on top of charmbracelet/log.
type Reporter struct {
	log *log.Logger
}

// New returns a reporter writing to l, or to the shared logger when l is nil.
func New(l *log.Logger) *Reporter {
	if l == nil {
		l = logger.GetLogger().Logger
	}
	return &Reporter{log: l.WithPrefix("composer")}
}

// Report logs err at warn level. Network failures are expected while the user
// types and are logged at debug level instead.
func (r *Reporter) Report(op string, err error, keyvals ...any) {
	fields := append([]any{"op", op, "error", err}, keyvals...)

	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		r.log.Debug("registry unreachable", fields...)
		return
	}
	r.log.Warn("operation failed", fields...)
}
