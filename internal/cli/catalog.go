package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/cybertec-postgresql/sqlpreparse/internal/database"
	"github.com/cybertec-postgresql/sqlpreparse/internal/logger"
	"github.com/cybertec-postgresql/sqlpreparse/internal/workload"
)

// Catalog stores the shapes of the saved workload summary in PostgreSQL.
// With list set it prints the catalog instead.
func Catalog(ctx context.Context, w io.Writer, config *Config, list bool) error {
	pool, err := database.NewPool(ctx, config)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	catalog := database.NewCatalog(pool)
	if err := catalog.EnsureSchema(ctx); err != nil {
		return err
	}

	if list {
		entries, err := catalog.Shapes(ctx)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(w, "%8d  %-18s %-8s %s\n", e.Seen, e.Type, e.ParamInfo, e.Shape)
		}
		return nil
	}

	store := workload.NewStore(config.WorkloadFile)
	if !store.Exists() {
		return fmt.Errorf("workload file not found: %s (run 'preparse check' first)", config.WorkloadFile)
	}
	summary, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to load workload summary: %w", err)
	}

	n, err := catalog.SaveShapes(ctx, summary.SortedShapes())
	if err != nil {
		return err
	}
	logger.Debug("stored %d shape(s) from %s", n, store.Path())
	fmt.Fprintf(w, "Stored %d shape(s) in the statement catalog\n", n)
	return nil
}
