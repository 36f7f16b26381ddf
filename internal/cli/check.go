package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cybertec-postgresql/sqlpreparse/internal/discovery"
	"github.com/cybertec-postgresql/sqlpreparse/internal/logger"
	"github.com/cybertec-postgresql/sqlpreparse/internal/runner"
	"github.com/cybertec-postgresql/sqlpreparse/internal/workload"
)

// Check pre-parses every statement of the workload under searchPath, saves
// the workload summary and returns the exit code.
func Check(ctx context.Context, w io.Writer, config *Config, searchPath string) (int, error) {
	startTime := time.Now()
	log := logger.Default()

	log.Debug("discovering workload files in %s", searchPath)

	// Step 1: Discover and split workload files
	files, err := discovery.Discover(searchPath)
	if err != nil {
		return 1, fmt.Errorf("failed to discover workload: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintln(w, "No workload files found (*.sql)")
		return 0, nil
	}
	log.Debug("Found %d workload file(s)", len(files))

	var statements []discovery.Statement
	for i := range files {
		stmts, err := discovery.LoadStatements(&files[i])
		if err != nil {
			return 1, fmt.Errorf("failed to load %s: %w", files[i].RelativePath, err)
		}
		statements = append(statements, stmts...)
	}
	log.Debug("Found %d statement(s)", len(statements))

	// Step 2: Pre-parse (parallel or sequential based on config)
	executor, err := runner.NewExecutor(config.Options, config.CacheSize, log)
	if err != nil {
		return 1, fmt.Errorf("invalid pre-parser options: %w", err)
	}
	if config.Parallelism > 1 {
		log.Debug("Pre-parsing in parallel (workers: %d)", config.Parallelism)
	}
	collector, outcomes := workload.Check(ctx, runner.NewWorkerPool(executor, config.Parallelism), statements)

	for _, o := range outcomes {
		if o.Status == runner.OutcomeFailed {
			log.Warn("%v", o.Error)
		}
	}

	// Step 3: Save the workload summary
	store := workload.NewStore(config.WorkloadFile)
	if err := store.Save(collector.Summary()); err != nil {
		return 1, fmt.Errorf("failed to save workload summary: %w", err)
	}

	// Step 4: Display summary
	summary := runner.SummarizeOutcomes(outcomes)

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Statements: %d rewritten, %d failed, %d total\n",
		summary.Rewritten, summary.Failed, summary.Total)
	fmt.Fprintf(w, "Shapes:     %d distinct\n", len(collector.Summary().Shapes))
	fmt.Fprintf(w, "Time:       %v\n", time.Since(startTime).Round(time.Millisecond))
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Workload summary written to %s\n", config.WorkloadFile)

	return summary.ExitCode(), nil
}
