package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/cybertec-postgresql/sqlpreparse/internal/report"
	"github.com/cybertec-postgresql/sqlpreparse/internal/workload"
)

// Report generates a report from a saved workload summary
func Report(stdout io.Writer, workloadFile string, format string, outputPath string) error {
	// Step 1: Load workload summary
	store := workload.NewStore(workloadFile)
	if !store.Exists() {
		return fmt.Errorf("workload file not found: %s (run 'preparse check' first)", workloadFile)
	}

	summary, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to load workload summary: %w", err)
	}

	// Step 2: Validate format
	if !report.ValidFormat(format) {
		return fmt.Errorf("unsupported format: %s (supported: %v)", format, report.SupportedFormats())
	}

	formatter, err := report.GetFormatter(report.FormatType(format))
	if err != nil {
		return err
	}

	// Step 3: Format and output
	writer := stdout
	if outputPath != "-" && outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		writer = f
	}

	if err := formatter.Format(summary, writer); err != nil {
		return fmt.Errorf("failed to format workload summary: %w", err)
	}

	// Print success message to stderr (so it doesn't interfere with stdout output)
	if outputPath != "-" && outputPath != "" {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", outputPath)
	}

	return nil
}
