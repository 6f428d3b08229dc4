package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/planner/internal/backup"
	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/storage"
	"github.com/julianstephens/planner/internal/storage/badger"
	"github.com/julianstephens/planner/internal/storage/postgres"
	"github.com/julianstephens/planner/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Wipe existing data before initialization."`
	Source string `help:"Source database path or connection string to migrate data from."`
	NoSeed bool   `help:"Skip the starter goals and tasks."`
	Yes    bool   `short:"y" help:"Skip the confirmation prompt for --force."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force && c.Source != "" && samePath(c.Source, ctx.KV.GetConfigPath()) {
		return fmt.Errorf("cannot use --force when source and destination are the same: %s", c.Source)
	}

	if err := ctx.KV.Init(); err != nil {
		return err
	}

	if c.Force {
		ok, err := cli.Confirm("Wipe all data?", "Every goal, task, note and record in "+ctx.KV.GetConfigPath()+" is deleted.", c.Yes)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Init cancelled.")
			return nil
		}
		if err := ctx.Store.ClearAll(); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
		fmt.Printf("Cleared existing data at: %s\n", ctx.KV.GetConfigPath())
	}
	fmt.Printf("Initialized planner storage at: %s\n", ctx.KV.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
		// Migrated data counts as a finished first launch.
		return ctx.Store.SetFirstLaunchDone()
	}

	if c.NoSeed {
		return ctx.Store.SetFirstLaunchDone()
	}
	seeded, err := ctx.Store.SeedDefaults()
	if err != nil {
		return fmt.Errorf("failed to seed defaults: %w", err)
	}
	if seeded {
		fmt.Println("Added starter goals and tasks.")
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// openSource picks the backend from the shape of the location: a postgres
// URL or DSN, a directory holding a badger database, or a SQLite file.
func openSource(source string) (storage.KV, error) {
	if strings.HasPrefix(source, "postgres://") || strings.HasPrefix(source, "postgresql://") || strings.Contains(source, "host=") {
		if valid, err := postgres.ValidateConnString(source); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return nil, err
		}
		return postgres.New(source), nil
	}

	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("failed to access source database: %w", err)
	}
	if info.IsDir() {
		return badger.New(badger.DefaultConfig(source)), nil
	}
	return sqlite.New(source), nil
}

func (c *InitCmd) migrateData(ctx *cli.Context, source string) error {
	kv, err := openSource(source)
	if err != nil {
		return err
	}
	if err := kv.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer kv.Close()

	src := storage.New(kv, storage.Options{Location: ctx.Store.Location()})
	env, err := backup.Export(context.Background(), src)
	if err != nil {
		return fmt.Errorf("failed to read source data: %w", err)
	}

	res, err := backup.ImportEnvelope(ctx.Store, env)
	if err != nil {
		return err
	}
	for _, key := range res.Keys {
		fmt.Printf("  Migrated %s\n", key)
	}
	return nil
}

type ClearCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	ok, err := cli.Confirm("Delete all data?", "This cannot be undone. A backup is created first.", c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Clear cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup(context.Background())
	if err := ctx.Store.ClearAll(); err != nil {
		return err
	}
	fmt.Println("✓ All data cleared.")
	return nil
}
