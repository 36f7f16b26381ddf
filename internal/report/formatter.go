package report

import (
	"fmt"
	"io"

	"github.com/cybertec-postgresql/sqlpreparse/internal/workload"
)

// Formatter is an interface for workload report formatters
type Formatter interface {
	// Format formats a workload summary and writes to the writer
	Format(summary *workload.Summary, writer io.Writer) error

	// FormatString returns the workload summary as a string
	FormatString(summary *workload.Summary) (string, error)

	// Name returns the name of this formatter
	Name() string
}

// FormatType represents supported report formats
type FormatType string

const (
	FormatJSON FormatType = "json"
	FormatText FormatType = "text"
)

// GetFormatter returns a formatter for the specified format type
func GetFormatter(format FormatType) (Formatter, error) {
	switch format {
	case FormatJSON:
		return NewJSONReporter(), nil
	case FormatText:
		return NewTextReporter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, text)", format)
	}
}

// FormatToWriter formats a summary to a writer using the specified format
func FormatToWriter(summary *workload.Summary, format FormatType, writer io.Writer) error {
	formatter, err := GetFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(summary, writer)
}

// FormatToString formats a summary to a string using the specified format
func FormatToString(summary *workload.Summary, format FormatType) (string, error) {
	formatter, err := GetFormatter(format)
	if err != nil {
		return "", err
	}
	return formatter.FormatString(summary)
}

// ValidFormat checks if a format string is valid
func ValidFormat(format string) bool {
	switch FormatType(format) {
	case FormatJSON, FormatText:
		return true
	default:
		return false
	}
}

// SupportedFormats returns a list of supported format names
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatText)}
}
