package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cybertec-postgresql/sqlpreparse/internal/workload"
)

// JSONReporter formats workload summaries as JSON
type JSONReporter struct{}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{}
}

// Format formats the summary as JSON and writes to the writer
func (r *JSONReporter) Format(summary *workload.Summary, writer io.Writer) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workload summary to JSON: %w", err)
	}

	if _, err = writer.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}

	_, err = writer.Write([]byte("\n"))
	return err
}

// FormatString returns the summary as a JSON string
func (r *JSONReporter) FormatString(summary *workload.Summary) (string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal workload summary to JSON: %w", err)
	}
	return string(data), nil
}

// FormatSummary formats the headline numbers of a workload as JSON
func (r *JSONReporter) FormatSummary(summary *workload.Summary) (string, error) {
	out := map[string]interface{}{
		"version":         summary.Version,
		"timestamp":       summary.Timestamp,
		"statements":      summary.Statements,
		"rewritten":       summary.Rewritten,
		"failed":          summary.Failed,
		"rewrite_percent": summary.RewritePercent(),
		"shapes":          len(summary.Shapes),
		"types":           summary.Types,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary to JSON: %w", err)
	}
	return string(data), nil
}

// Name returns the name of this reporter
func (r *JSONReporter) Name() string {
	return "json"
}
