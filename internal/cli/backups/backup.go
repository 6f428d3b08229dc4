package backups

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/planner/internal/backup"
	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/constants"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a backup now."`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore from a backup file."`
	Export  ExportCmd        `cmd:"" help:"Write all data as a JSON export."`
	Import  ImportCmd        `cmd:"" help:"Replace data with a JSON export."`
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	backupPath, err := ctx.Backups().CreateBackup(context.Background())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr := ctx.Backups()
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		fmt.Printf("  %s  %s  (%.1f KB)\n", b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), sizeKB)
	}
	fmt.Printf("\nBackup directory: %s\n", mgr.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

// resolveBackupPath accepts an absolute path, a path relative to the working
// directory or a bare filename inside the backup directory.
func resolveBackupPath(mgr *backup.Manager, name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return "", fmt.Errorf("backup file not found: %s", name)
		}
		return name, nil
	}
	if _, err := os.Stat(name); err == nil {
		abs, err := filepath.Abs(name)
		if err != nil {
			return "", fmt.Errorf("failed to resolve backup path: %w", err)
		}
		return abs, nil
	}
	candidate := filepath.Join(mgr.GetBackupDir(), name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", mgr.GetBackupDir())
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr := ctx.Backups()
	backupPath, err := resolveBackupPath(mgr, c.BackupFile)
	if err != nil {
		return err
	}

	ok, err := cli.Confirm(
		"Restore from "+filepath.Base(backupPath)+"?",
		"This replaces your current data. A safety backup is created first.",
		c.Yes,
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Restore cancelled.")
		return nil
	}

	safety, err := mgr.RestoreBackup(context.Background(), backupPath)
	if err != nil {
		if safety != "" {
			fmt.Printf("Your previous data is saved in %s\n", filepath.Base(safety))
		}
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Println("✓ Data restored successfully!")
	fmt.Printf("  Safety backup: %s\n", filepath.Base(safety))
	return nil
}

type ExportCmd struct {
	Output string `short:"o" help:"File to write. Defaults to stdout."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	data, err := backup.ExportJSON(context.Background(), ctx.Store)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if c.Output == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(c.Output, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Printf("✓ Exported to %s\n", c.Output)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"Export file to import." type:"existingfile"`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}
	// Reject a bad payload before asking anything.
	env, err := backup.Decode(data)
	if err != nil {
		return err
	}

	ok, err := cli.Confirm(
		"Import "+filepath.Base(c.File)+"?",
		"Every collection in the file replaces what you have now.",
		c.Yes,
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Import cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup(context.Background())

	res, err := backup.ImportEnvelope(ctx.Store, env)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Imported export version %d (%d collections: %s)\n", res.Version, len(res.Keys), strings.Join(res.Keys, ", "))
	return nil
}
