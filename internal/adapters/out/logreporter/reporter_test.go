package logreporter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"github.com/logilab/onyxia-composer/internal/domain"
)

func newBufferedReporter(level log.Level) (*Reporter, *bytes.Buffer) {
	var buf bytes.Buffer
	l := log.NewWithOptions(&buf, log.Options{Level: level})
	return New(l), &buf
}

func TestReporter_ReportWarnsWithFields(t *testing.T) {
	r, buf := newBufferedReporter(log.InfoLevel)

	r.Report("check_name", &domain.ResponseError{Endpoint: "checkSrvName", Status: 500}, "name", "myapp")

	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "op=check_name")
	assert.Contains(t, out, "name=myapp")
	assert.Contains(t, out, "composer")
}

func TestReporter_NetworkErrorsLoggedAtDebug(t *testing.T) {
	r, buf := newBufferedReporter(log.InfoLevel)
	r.Report("check_name", &domain.NetworkError{Endpoint: "checkSrvName", Err: errors.New("refused")})
	assert.Empty(t, buf.String())

	r, buf = newBufferedReporter(log.DebugLevel)
	r.Report("check_name", &domain.NetworkError{Endpoint: "checkSrvName", Err: errors.New("refused")})
	assert.Contains(t, buf.String(), "registry unreachable")
}
