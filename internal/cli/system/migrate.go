package system

import (
	"fmt"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/migration"
)

// schemaBackend is implemented by the SQL backends. Badger has no schema.
type schemaBackend interface {
	Migrate(logFn func(string)) (int, error)
	SchemaStatus() (migration.Status, error)
}

type MigrateCmd struct {
	Status bool `help:"Only report the schema version and pending migrations."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	backend, ok := ctx.KV.(schemaBackend)
	if !ok {
		fmt.Println("This storage backend has no schema. Nothing to migrate.")
		return nil
	}

	if c.Status {
		st, err := backend.SchemaStatus()
		if err != nil {
			return fmt.Errorf("failed to read schema status: %w", err)
		}
		fmt.Printf("Schema version: %d (latest %d)\n", st.Current, st.Latest)
		for _, m := range st.Pending {
			fmt.Printf("  pending %03d_%s\n", m.Version, m.Name)
		}
		return nil
	}

	count, err := backend.Migrate(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}

	return nil
}
