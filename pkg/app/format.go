package app

import (
	"fmt"
	"io"

	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"

	"github.com/davesave/davesave/pkg/rawjson"
)

// OutputFormat controls how JSON values are printed.
type OutputFormat string

const (
	// OutputFormatRaw prints the bytes exactly as stored.
	OutputFormatRaw OutputFormat = "raw"
	// OutputFormatPretty indents without reordering anything.
	OutputFormatPretty OutputFormat = "pretty"
	// OutputFormatColor is a display-only view: keys are sorted and
	// colored, numbers keep their digits.
	OutputFormatColor OutputFormat = "color"
)

func (e *OutputFormat) String() string {
	return string(*e)
}

func (e *OutputFormat) Set(v string) error {
	switch v {
	case "raw", "pretty", "color":
		*e = OutputFormat(v)
		return nil
	default:
		return fmt.Errorf("must be one of: raw, pretty, color")
	}
}

func (e *OutputFormat) Type() string {
	return "OutputFormat"
}

// CompleteOutputFormat provides shell completion for --output.
func CompleteOutputFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"raw", "pretty", "color"}, cobra.ShellCompDirectiveNoFileComp
}

// Render writes raw in format f followed by a newline.
func (a *App) Render(raw []byte, f OutputFormat) error {
	var (
		w   io.Writer = a.OutWriter
		out []byte
	)
	switch f {
	case OutputFormatPretty:
		out = []byte(rawjson.FormatIndent(string(raw), a.IndentUnit()))
	case OutputFormatColor:
		formatted, err := a.newFormatter().Format(raw)
		if err != nil {
			return fmt.Errorf("format value: %w", err)
		}
		out = formatted
		w = a.ColorableOut
	default:
		out = raw
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func (a *App) newFormatter() *prettyjson.Formatter {
	f := prettyjson.NewFormatter()
	f.DisabledColor = !a.ColorEnabled()
	if n := a.Indent(); n > 0 {
		f.Indent = n
	}
	return f
}
