package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every embedded migration in file name order, then the key
// indexes of profile. The scripts are idempotent, so running them on every
// start is safe.
func Migrate(ctx context.Context, db DB, profile domain.ValidationProfile) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := db.Exec(ctx, string(script)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}

	if _, err := db.Exec(ctx, keyIndexSQL(profile)); err != nil {
		return fmt.Errorf("apply %s key indexes: %w", profile, err)
	}
	return nil
}

// keyIndexSQL makes the business key of profile unique and leaves the other
// key column with a plain index. A unique index left behind by the other
// profile is dropped. NULLs never collide, so an optional key stays optional.
func keyIndexSQL(profile domain.ValidationProfile) string {
	unique := keyColumns[profile.BusinessKey()]

	var b strings.Builder
	for _, key := range []domain.BusinessKey{domain.KeyCodigoCRM, domain.KeyEmail} {
		column := keyColumns[key]
		if column == unique {
			fmt.Fprintf(&b, "DROP INDEX IF EXISTS clientes_%s_idx;\n", column)
			fmt.Fprintf(&b, "CREATE UNIQUE INDEX IF NOT EXISTS clientes_%s_key ON clientes (%s);\n", column, column)
			continue
		}
		fmt.Fprintf(&b, "DROP INDEX IF EXISTS clientes_%s_key;\n", column)
		fmt.Fprintf(&b, "CREATE INDEX IF NOT EXISTS clientes_%s_idx ON clientes (%s);\n", column, column)
	}
	return b.String()
}
