package db

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"todo_store/internal/logger"
	"todo_store/internal/migrations"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the part of a pgx pool/conn/tx the migrator needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// MigrationNames lists the embedded migration files in apply order.
func MigrationNames() ([]string, error) {
	return migrationNames(migrations.FS)
}

func migrationNames(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Migrate applies every embedded migration. All statements are idempotent,
// so running it on each start is safe.
func Migrate(ctx context.Context, db Execer) error {
	return migrate(ctx, db, migrations.FS)
}

func migrate(ctx context.Context, db Execer, fsys fs.FS) error {
	names, err := migrationNames(fsys)
	if err != nil {
		return err
	}
	for _, name := range names {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		logger.Debug("applied migration", "name", name)
	}
	return nil
}
