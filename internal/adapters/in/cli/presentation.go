package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/logilab/onyxia-composer/internal/adapters/in/cli/ui/styles"
	"github.com/logilab/onyxia-composer/internal/domain"
	"github.com/logilab/onyxia-composer/pkg/richtext"
)

// Output formats accepted by -o.
const (
	outputTable = "table"
	outputText  = "text"
	outputYAML  = "yaml"
	outputJSON  = "json"
)

var cliWriteLine = func(w io.Writer, msg string) error {
	_, err := fmt.Fprintln(w, msg)
	return err
}

func cliRenderTitle(msg string) string {
	return styles.Theme.Title.Render(msg)
}

func cliRenderMuted(msg string) string {
	return styles.Theme.Muted.Render(msg)
}

func cliRenderMeta(label, value string) string {
	return styles.Theme.Bold.Render(label) + " " + styles.Theme.Muted.Render(value)
}

// cliRenderStatus renders a registry message as terminal text. Warnings from
// the name check keep their warning style.
func cliRenderStatus(status domain.StatusMessage, failed bool) string {
	text := richtext.PlainText(status.Text)
	switch {
	case failed:
		return styles.RenderError(text)
	case strings.HasPrefix(text, "WARNING"):
		return styles.RenderWarning(text)
	default:
		return styles.RenderSuccess(text)
	}
}

// writeStructured writes v as YAML or JSON.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func checkOutputFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
