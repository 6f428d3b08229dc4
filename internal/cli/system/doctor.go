package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/integrity"
	"github.com/julianstephens/planner/internal/storage/sqlite"
	"github.com/julianstephens/planner/internal/utils"
)

type DoctorCmd struct {
	Fix bool `help:"Repair integrity problems that can be fixed automatically."`
}

type check struct {
	name string
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
	warn    bool
	run     func(ctx *cli.Context) error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	checks := []check{
		{name: "Database file", needsDB: true, run: checkDatabaseFile},
		{name: "Schema version", needsDB: true, run: checkSchemaVersion},
		{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
		{name: "Backups present", warn: true, run: checkBackupsPresent},
		{name: "Data integrity", needsDB: true, run: cmd.checkIntegrity},
		{name: "Clock/timezone", run: checkClockTimezone},
	}

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.KV.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.KV.Keys(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

// checkDatabaseFile runs SQLite's quick_check. Other backends pass.
func checkDatabaseFile(ctx *cli.Context) error {
	store, ok := ctx.KV.(*sqlite.Store)
	if !ok {
		return nil
	}
	db := store.GetDB()
	if db == nil {
		return fmt.Errorf("database is not open")
	}
	var result string
	if err := db.QueryRow("PRAGMA quick_check").Scan(&result); err != nil {
		return fmt.Errorf("quick_check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("database file is damaged: %s", result)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	backend, ok := ctx.KV.(schemaBackend)
	if !ok {
		return nil
	}
	st, err := backend.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to get schema status: %w", err)
	}
	if st.Current > st.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", st.Current, st.Latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	backend, ok := ctx.KV.(schemaBackend)
	if !ok {
		return nil
	}
	st, err := backend.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to get schema status: %w", err)
	}
	if st.Current < st.Latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", st.Current, st.Latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	backups, err := ctx.Backups().ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'planner backup create'")
	}
	return nil
}

func (cmd *DoctorCmd) checkIntegrity(ctx *cli.Context) error {
	snap, err := integrity.LoadSnapshot(ctx.Store)
	if err != nil {
		return err
	}
	checker := integrity.New(ctx.Store.Location())
	result := checker.Check(snap)
	if !result.HasConflicts() {
		return nil
	}

	if !cmd.Fix {
		return fmt.Errorf("%s(run 'planner doctor --fix' to repair what can be repaired)", result.FormatReport())
	}

	for _, action := range integrity.AutoFix(ctx.Store, result.Conflicts) {
		fmt.Printf("   fixed: %s\n", action.Action)
	}

	// Whatever remains needs a manual look.
	snap, err = integrity.LoadSnapshot(ctx.Store)
	if err != nil {
		return err
	}
	remaining := checker.Check(snap)
	if remaining.HasConflicts() {
		return fmt.Errorf("%s", remaining.FormatReport())
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("configured timezone %q is not a valid IANA name", settings.Timezone)
	}
	return nil
}
