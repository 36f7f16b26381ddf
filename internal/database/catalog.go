package database

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/cybertec-postgresql/sqlpreparse/internal/errors"
	"github.com/cybertec-postgresql/sqlpreparse/internal/workload"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const catalogDDL = `CREATE TABLE IF NOT EXISTS preparse_catalog (
	shape           text PRIMARY KEY,
	statement_type  text NOT NULL,
	param_info      text NOT NULL,
	cache_on_server boolean NOT NULL,
	seen            bigint NOT NULL DEFAULT 0,
	files           text[] NOT NULL DEFAULT '{}',
	first_seen      timestamptz NOT NULL DEFAULT now(),
	last_seen       timestamptz NOT NULL DEFAULT now()
)`

const upsertShape = `INSERT INTO preparse_catalog (shape, statement_type, param_info, cache_on_server, seen, files)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (shape) DO UPDATE SET
	seen = preparse_catalog.seen + EXCLUDED.seen,
	files = ARRAY(SELECT DISTINCT f FROM unnest(preparse_catalog.files || EXCLUDED.files) f ORDER BY f),
	last_seen = now()`

const selectShapes = `SELECT shape, statement_type, param_info, cache_on_server, seen, files, first_seen, last_seen
FROM preparse_catalog
ORDER BY seen DESC, shape`

// CatalogEntry is a row of the statement catalog
type CatalogEntry struct {
	Shape         string    `db:"shape"`
	Type          string    `db:"statement_type"`
	ParamInfo     string    `db:"param_info"`
	CacheOnServer bool      `db:"cache_on_server"`
	Seen          int64     `db:"seen"`
	Files         []string  `db:"files"`
	FirstSeen     time.Time `db:"first_seen"`
	LastSeen      time.Time `db:"last_seen"`
}

// Catalog persists distinct rewritten statements in PostgreSQL
type Catalog struct {
	pool *Pool
}

// NewCatalog creates a catalog on top of pool
func NewCatalog(pool *Pool) *Catalog {
	return &Catalog{pool: pool}
}

// EnsureSchema creates the catalog table if it is missing
func (c *Catalog) EnsureSchema(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, catalogDDL); err != nil {
		return fmt.Errorf("failed to create catalog table: %w", err)
	}
	return nil
}

// SaveShapes upserts the shapes of a workload summary in one batch and
// returns the number of rows written. Counts of known shapes accumulate.
func (c *Catalog) SaveShapes(ctx context.Context, shapes []*workload.Shape) (int, error) {
	if len(shapes) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, sh := range shapes {
		files := sh.Files
		if files == nil {
			files = []string{}
		}
		batch.Queue(upsertShape, sh.Text, sh.Type.String(), sh.ParamInfo, sh.CacheOnServer, sh.Count, files)
	}

	br := c.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i, sh := range shapes {
		if _, err := br.Exec(); err != nil {
			var pgErr *pgconn.PgError
			if stderrors.As(err, &pgErr) {
				return i, errors.NewCatalogError(sh.Text, pgErr)
			}
			return i, fmt.Errorf("failed to store shape %q: %w", sh.Text, err)
		}
	}
	return len(shapes), nil
}

// Shapes returns every catalog entry, most frequently seen first
func (c *Catalog) Shapes(ctx context.Context) ([]CatalogEntry, error) {
	rows, err := c.pool.Query(ctx, selectShapes)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[CatalogEntry])
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return entries, nil
}

// Truncate removes every catalog entry
func (c *Catalog) Truncate(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, "TRUNCATE preparse_catalog"); err != nil {
		return fmt.Errorf("failed to truncate catalog: %w", err)
	}
	return nil
}
