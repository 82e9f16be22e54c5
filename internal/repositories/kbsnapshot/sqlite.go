package kbsnapshot

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/clock"
)

const snapshotSchema = `CREATE TABLE IF NOT EXISTS snapshots (
	key TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL DEFAULT 0
);`

// SQLiteConfig holds the configuration for the SQLite repository
type SQLiteConfig struct {
	// Path of the database file, created when missing
	Path  string
	Clock clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *SQLiteConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("path", c.Path, vb)
	if c.Clock == nil {
		vb.RequiredField("clock")
	}
	return vb.Build()
}

// SQLiteRepository keeps snapshots in a local SQLite file
type SQLiteRepository struct {
	db    *sql.DB
	clock clock.Clock
}

// NewSQLiteRepository opens (or creates) the snapshot database
func NewSQLiteRepository(cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to create snapshot dir")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to open snapshot db")
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(snapshotSchema); err != nil {
		_ = db.Close()
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to create snapshot schema")
	}

	return &SQLiteRepository{
		db:    db,
		clock: cfg.Clock,
	}, nil
}

// Ensure SQLiteRepository implements Repository
var _ Repository = (*SQLiteRepository)(nil)

// Close releases the database
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Get retrieves a snapshot, deleting it when it has expired
func (r *SQLiteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.Key == "" {
		return nil, errors.InvalidArgument(errKeyEmpty)
	}

	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE key = ?`, input.Key).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("snapshot %s not found", input.Key)
		}
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to get snapshot")
	}

	snap, err := Decode(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot %s", input.Key)
	}

	if snap.Expired(r.clock.Now()) {
		if _, err := r.Delete(ctx, DeleteInput{Key: input.Key}); err != nil {
			return nil, err
		}
		return nil, errors.NotFoundf("snapshot %s has expired", input.Key)
	}

	return &GetOutput{Snapshot: snap}, nil
}

// Put stores a snapshot, replacing the previous one for the key
func (r *SQLiteRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if err := validatePut(input); err != nil {
		return nil, err
	}

	snap := newSnapshot(input, r.clock.Now())
	payload, err := Encode(snap)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO snapshots (key, payload, created_at, expires_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
	payload = excluded.payload,
	created_at = excluded.created_at,
	expires_at = excluded.expires_at`,
		snap.Key, payload, snap.CreatedAt.Unix(), unixOrZero(snap.ExpiresAt))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to store snapshot")
	}

	return &PutOutput{Snapshot: snap, Bytes: len(payload)}, nil
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// Delete removes a snapshot
func (r *SQLiteRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.Key == "" {
		return nil, errors.InvalidArgument(errKeyEmpty)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, input.Key)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to delete snapshot")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to count deleted snapshots")
	}

	return &DeleteOutput{Deleted: n > 0}, nil
}

// Prune reads every row and deletes the stale ones
func (r *SQLiteRepository) Prune(ctx context.Context, _ PruneInput) (*PruneOutput, error) {
	now := r.clock.Now()

	rows, err := r.db.QueryContext(ctx, `SELECT key, payload FROM snapshots ORDER BY key`)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to list snapshots")
	}
	out := &PruneOutput{}
	for rows.Next() {
		var key string
		var payload []byte
		if err := rows.Scan(&key, &payload); err != nil {
			_ = rows.Close()
			return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to read snapshot row")
		}
		out.Checked++
		if stale(payload, now) {
			out.Removed = append(out.Removed, key)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to list snapshots")
	}
	// the single connection is held until rows are closed
	_ = rows.Close()

	for _, key := range out.Removed {
		if _, err := r.Delete(ctx, DeleteInput{Key: key}); err != nil {
			return nil, err
		}
	}
	return out, nil
}
