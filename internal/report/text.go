package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/cybertec-postgresql/sqlpreparse/internal/workload"
)

// TextReporter formats workload summaries for a terminal
type TextReporter struct {
	// MaxShapes limits the listed shapes; 0 lists all of them
	MaxShapes int
}

// NewTextReporter creates a new text reporter
func NewTextReporter() *TextReporter {
	return &TextReporter{MaxShapes: 20}
}

// Format writes the text report to the writer
func (r *TextReporter) Format(summary *workload.Summary, writer io.Writer) error {
	s, err := r.FormatString(summary)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(writer, s); err != nil {
		return fmt.Errorf("failed to write text output: %w", err)
	}
	return nil
}

// FormatString returns the text report
func (r *TextReporter) FormatString(summary *workload.Summary) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Statements: %d\n", summary.Statements)
	fmt.Fprintf(&b, "Rewritten:  %d (%.1f%%)\n", summary.Rewritten, summary.RewritePercent())
	fmt.Fprintf(&b, "Failed:     %d\n", summary.Failed)
	if summary.Cancelled > 0 {
		fmt.Fprintf(&b, "Cancelled:  %d\n", summary.Cancelled)
	}
	if summary.Cached > 0 {
		fmt.Fprintf(&b, "Cached:     %d\n", summary.Cached)
	}
	fmt.Fprintf(&b, "Parameters: %d literal, %d user, %d default\n",
		summary.Literals, summary.UserParams, summary.Defaults)

	if names := summary.TypeNames(); len(names) > 0 {
		b.WriteString("\nStatement types:\n")
		for _, name := range names {
			fmt.Fprintf(&b, "  %-20s %d\n", name, summary.Types[name])
		}
	}

	shapes := summary.SortedShapes()
	if len(shapes) > 0 {
		fmt.Fprintf(&b, "\nShapes (%d distinct):\n", len(shapes))
		limit := len(shapes)
		if r.MaxShapes > 0 && r.MaxShapes < limit {
			limit = r.MaxShapes
		}
		for _, sh := range shapes[:limit] {
			fmt.Fprintf(&b, "  %6d  %-8s %s\n", sh.Count, sh.ParamInfo, oneLine(sh.Text))
		}
		if limit < len(shapes) {
			fmt.Fprintf(&b, "  ... %d more\n", len(shapes)-limit)
		}
	}

	if len(summary.Failures) > 0 {
		b.WriteString("\nFailures:\n")
		for _, f := range summary.Failures {
			fmt.Fprintf(&b, "  %s:%d:%d: %s\n", f.File, f.Line, f.Column, f.Message)
		}
	}

	return b.String(), nil
}

// Name returns the name of this reporter
func (r *TextReporter) Name() string {
	return "text"
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
