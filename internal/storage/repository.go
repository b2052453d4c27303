// Package storage is the SQLite key-value backend. Each persisted
// collection is one row of kv_store; a save rewrites all rows in a single
// transaction.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"tindahan/internal/persist"
)

type SQLiteRepository struct {
	db      *sql.DB
	version uint
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, version: version}, nil
}

// SchemaVersion is the migration version the database was opened at.
func (r *SQLiteRepository) SchemaVersion() uint {
	return r.version
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Get implements persist.KV
func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// SetAll implements persist.KV
func (r *SQLiteRepository) SetAll(ctx context.Context, values map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	size := 0
	for _, key := range sortedKeys(values) {
		if _, err := stmt.ExecContext(ctx, key, values[key]); err != nil {
			return fmt.Errorf("upsert %s: %w", key, err)
		}
		size += len(values[key])
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO save_log (keys, bytes) VALUES (?, ?)`, len(values), size)
	if err != nil {
		return fmt.Errorf("record save: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("record save: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM save_log WHERE id <= ?`, id-int64(saveLogKeep)); err != nil {
		return fmt.Errorf("prune save log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.DebugContext(ctx, "State saved to SQLite", "keys", len(values), "bytes", size)
	return nil
}

// saveLogKeep is how many save_log rows survive pruning.
var saveLogKeep = 100

// LastSave implements persist.SaveReporter. Saves counts every save since
// the database was created, pruned rows included.
func (r *SQLiteRepository) LastSave(ctx context.Context) (info persist.SaveInfo, ok bool, err error) {
	var savedAt string
	err = r.db.QueryRowContext(ctx, `
		SELECT id, bytes, saved_at
		FROM save_log ORDER BY id DESC LIMIT 1`).Scan(&info.Saves, &info.Bytes, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return persist.SaveInfo{}, false, nil
	}
	if err != nil {
		return persist.SaveInfo{}, false, fmt.Errorf("read save log: %w", err)
	}
	if t, perr := time.Parse(time.DateTime, savedAt); perr == nil {
		info.SavedAt = t
	} else if t, perr := time.Parse(time.RFC3339, savedAt); perr == nil {
		info.SavedAt = t
	}
	return info, true, nil
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
