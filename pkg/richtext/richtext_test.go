package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text", input: "Service myapp is created", want: "Service myapp is created"},
		{name: "script removed", input: `created<script>alert(1)</script>`, want: "created"},
		{name: "safe markup kept", input: "<b>created</b>", want: "<b>created</b>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestSanitize_DropsEventHandlers(t *testing.T) {
	out := Sanitize(`<a href="https://x" onclick="evil()">x</a>`)
	assert.NotContains(t, out, "onclick")
	assert.Contains(t, out, `href="https://x"`)
}

func TestSanitizeStrict(t *testing.T) {
	out, err := SanitizeStrict("<em>ok</em>")
	require.NoError(t, err)
	assert.Equal(t, "<em>ok</em>", out)

	out, err = SanitizeStrict(`<img src=x onerror="evil()">`)
	assert.Error(t, err)
	assert.NotContains(t, out, "onerror")
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no markup", input: "  created  ", want: "created"},
		{name: "line breaks", input: "Service created<br>build pending", want: "Service created\nbuild pending"},
		{name: "paragraphs", input: "<p>one</p><p>two</p>", want: "one\ntwo"},
		{name: "link target", input: `see <a href="https://logs">logs</a>`, want: "see logs (https://logs)"},
		{name: "script dropped", input: "ok<script>alert(1)</script>", want: "ok"},
		{name: "entities", input: "a &amp; b", want: "a & b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.input))
		})
	}
}
