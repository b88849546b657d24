package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"bizdesk/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const gooseDown = "-- +goose Down"

// Migrations lists the embedded migration files in apply order.
func Migrations() ([]string, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Migrate applies the Up section of every embedded migration in file order.
// Migrations are idempotent, and the files keep the goose layout so the goose
// CLI can run them as well.
func Migrate(ctx context.Context, pool *Pool) error {
	names, err := Migrations()
	if err != nil {
		return err
	}

	for _, name := range names {
		raw, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		up := UpSection(string(raw))
		if _, err := pool.Exec(ctx, up); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
		logger.Info(ctx, "migration applied", "file", name)
	}
	return nil
}

// UpSection returns the statements before the goose Down marker.
func UpSection(sql string) string {
	if i := strings.Index(sql, gooseDown); i >= 0 {
		return sql[:i]
	}
	return sql
}
