package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func setupTestMigrations(t *testing.T, files map[string]string) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func setupSQLiteTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewRunnerRejectsUnknownDriver(t *testing.T) {
	if _, err := NewRunner(nil, fstest.MapFS{}, Driver("mysql")); err == nil {
		t.Error("NewRunner() expected error for unknown driver")
	}
}

func TestReadMigrationFiles(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		want    []int
		wantErr bool
	}{
		{
			name: "sorted by version",
			files: map[string]string{
				"002_second.sql": "SELECT 1;",
				"001_first.sql":  "SELECT 1;",
				"README.md":      "ignored",
			},
			want: []int{1, 2},
		},
		{
			name:    "missing name part",
			files:   map[string]string{"001.sql": "SELECT 1;"},
			wantErr: true,
		},
		{
			name:    "non-numeric version",
			files:   map[string]string{"abc_init.sql": "SELECT 1;"},
			wantErr: true,
		},
		{
			name:    "zero version",
			files:   map[string]string{"000_init.sql": "SELECT 1;"},
			wantErr: true,
		},
		{
			name: "duplicate version",
			files: map[string]string{
				"001_a.sql":  "SELECT 1;",
				"0001_b.sql": "SELECT 1;",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, err := NewRunner(nil, setupTestMigrations(t, tt.files), DriverSQLite)
			if err != nil {
				t.Fatalf("NewRunner() error = %v", err)
			}
			got, err := runner.ReadMigrationFiles()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadMigrationFiles() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ReadMigrationFiles() returned %d migrations, want %d", len(got), len(tt.want))
			}
			for i, v := range tt.want {
				if got[i].Version != v {
					t.Errorf("migration[%d].Version = %d, want %d", i, got[i].Version, v)
				}
			}
		})
	}
}

func TestSQLiteApplyMigrations(t *testing.T) {
	db := setupSQLiteTestDB(t)
	runner, err := NewRunner(db, setupTestMigrations(t, map[string]string{
		"001_documents.sql": "CREATE TABLE documents (key TEXT PRIMARY KEY, value BLOB NOT NULL);",
		"002_index.sql":     "CREATE INDEX idx_documents_key ON documents(key);",
	}), DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	var logged []string
	count, err := runner.ApplyMigrations(func(msg string) { logged = append(logged, msg) })
	if err != nil {
		t.Fatalf("ApplyMigrations() error = %v", err)
	}
	if count != 2 {
		t.Errorf("ApplyMigrations() = %d, want 2", count)
	}
	if len(logged) == 0 {
		t.Error("ApplyMigrations() did not report progress")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion() error = %v", err)
	}
	if version != 2 {
		t.Errorf("GetCurrentVersion() = %d, want 2", version)
	}

	count, err = runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations() second run error = %v", err)
	}
	if count != 0 {
		t.Errorf("ApplyMigrations() second run = %d, want 0", count)
	}

	if err := runner.ValidateVersion(); err != nil {
		t.Errorf("ValidateVersion() error = %v", err)
	}
}

func TestSQLiteMigrationRollbackOnError(t *testing.T) {
	db := setupSQLiteTestDB(t)
	runner, err := NewRunner(db, setupTestMigrations(t, map[string]string{
		"001_documents.sql": "CREATE TABLE documents (key TEXT PRIMARY KEY);",
		"002_broken.sql":    "CREATE TABLE documents (key TEXT PRIMARY KEY);",
	}), DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	count, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("ApplyMigrations() expected error for broken migration")
	}
	if count != 1 {
		t.Errorf("ApplyMigrations() applied %d, want 1 before failure", count)
	}

	version, _ := runner.GetCurrentVersion()
	if version != 1 {
		t.Errorf("GetCurrentVersion() = %d, want 1 after rollback", version)
	}
}

func TestValidateVersion(t *testing.T) {
	db := setupSQLiteTestDB(t)
	runner, err := NewRunner(db, setupTestMigrations(t, map[string]string{
		"001_documents.sql": "CREATE TABLE documents (key TEXT PRIMARY KEY);",
	}), DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	if err := runner.ValidateVersion(); err == nil || !strings.Contains(err.Error(), "behind") {
		t.Errorf("ValidateVersion() on fresh db error = %v, want behind", err)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion() error = %v", err)
	}
	if err := runner.ValidateVersion(); err == nil || !strings.Contains(err.Error(), "newer") {
		t.Errorf("ValidateVersion() error = %v, want newer-than-supported", err)
	}
}
