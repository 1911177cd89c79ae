package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTest(t *testing.T, path string) *DB {
	t.Helper()
	database, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close() }) //nolint:errcheck // test cleanup
	return database
}

func TestOpen(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "dir", FileName)
		openTest(t, dbPath)

		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("creates materials table", func(t *testing.T) {
		database := openTest(t, PathIn(t.TempDir()))

		var name string
		err := database.Conn().QueryRowContext(context.Background(),
			"SELECT name FROM sqlite_master WHERE type='table' AND name='materials'").Scan(&name)
		if err != nil {
			t.Fatalf("materials table not created: %v", err)
		}
		if database.Version() < 1 {
			t.Errorf("Version() = %d, want >= 1", database.Version())
		}
	})

	t.Run("enables WAL mode", func(t *testing.T) {
		database := openTest(t, PathIn(t.TempDir()))

		var mode string
		if err := database.Conn().QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&mode); err != nil {
			t.Fatalf("reading journal_mode: %v", err)
		}
		if mode != "wal" {
			t.Errorf("journal_mode = %q, want wal", mode)
		}
	})

	t.Run("reopen is idempotent", func(t *testing.T) {
		path := PathIn(t.TempDir())
		first, err := Open(context.Background(), path)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		version := first.Version()
		_ = first.Close() //nolint:errcheck // test

		second := openTest(t, path)
		if second.Version() != version {
			t.Errorf("Version() = %d after reopen, want %d", second.Version(), version)
		}
	})
}

func TestWithTx(t *testing.T) {
	database := openTest(t, PathIn(t.TempDir()))
	ctx := context.Background()

	insert := `INSERT INTO materials (id, kind, thread_id, payload, created_at, updated_at)
		VALUES (?, 'answer', 'th', '{}', 0, 0)`

	t.Run("commits on success", func(t *testing.T) {
		err := database.WithTx(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, insert, "commit")
			return err
		})
		if err != nil {
			t.Fatalf("WithTx() error = %v", err)
		}

		var id string
		if err := database.Conn().QueryRowContext(ctx, "SELECT id FROM materials WHERE id = 'commit'").Scan(&id); err != nil {
			t.Errorf("committed row not found: %v", err)
		}
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := database.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, insert, "rollback"); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("WithTx() error = %v, want boom", err)
		}

		var id string
		err = database.Conn().QueryRowContext(ctx, "SELECT id FROM materials WHERE id = 'rollback'").Scan(&id)
		if !errors.Is(err, sql.ErrNoRows) {
			t.Errorf("rolled back row lookup error = %v, want ErrNoRows", err)
		}
	})
}
