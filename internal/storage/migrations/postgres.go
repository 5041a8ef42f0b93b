package migrations

import (
	"context"
	"fmt"

	"osbp-detect/internal/storage/postgres"
)

// RunPostgresMigrations creates the detection_runs, events, and
// channel_results tables if they do not already exist.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	contents, names, err := sqlFiles(postgresFS, "postgres")
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := pool.Exec(ctx, contents[name]); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}
