package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS profiles (
    username        TEXT PRIMARY KEY,
    age             INTEGER NOT NULL CHECK (age >= 1),
    pin_hash        TEXT NOT NULL DEFAULT '',
    face_hash       TEXT NOT NULL DEFAULT '',
    usage_counts    TEXT NOT NULL DEFAULT '{}',
    last_opened_app TEXT NOT NULL DEFAULT '',
    streak_app      TEXT NOT NULL DEFAULT '',
    streak_len      INTEGER NOT NULL DEFAULT 0,
    wallpaper       TEXT NOT NULL DEFAULT '',
    reminders       TEXT NOT NULL DEFAULT '[]',
    created_at      TEXT NOT NULL
)`

// SQLiteRepository keeps profiles in a single on-device SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
// Use ":memory:" for an ephemeral database.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Create inserts a new profile.
func (r *SQLiteRepository) Create(ctx context.Context, p UserProfile) error {
	if p.GuestMode {
		return ErrGuest
	}
	usage, reminders, err := encodeCollections(p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO profiles (username, age, pin_hash, face_hash, usage_counts,
        last_opened_app, streak_app, streak_len, wallpaper, reminders, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Username, p.Age, p.PINHash, p.FaceHash, usage, p.LastOpenedApp,
		p.Streak.App, p.Streak.Len, p.Wallpaper, reminders, p.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrExists
	}
	return err
}

// Get fetches a profile by username.
func (r *SQLiteRepository) Get(ctx context.Context, username string) (UserProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM profiles WHERE username = ?`, username)
	p, err := scanSQLiteProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return UserProfile{}, ErrNotFound
	}
	return p, err
}

// Put replaces the stored record for p.Username.
func (r *SQLiteRepository) Put(ctx context.Context, p UserProfile) error {
	if p.GuestMode {
		return ErrGuest
	}
	usage, reminders, err := encodeCollections(p)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET age = ?, pin_hash = ?, face_hash = ?,
        usage_counts = ?, last_opened_app = ?, streak_app = ?, streak_len = ?, wallpaper = ?,
        reminders = ? WHERE username = ?`,
		p.Age, p.PINHash, p.FaceHash, usage, p.LastOpenedApp, p.Streak.App, p.Streak.Len,
		p.Wallpaper, reminders, p.Username)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Exists reports whether username is registered.
func (r *SQLiteRepository) Exists(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM profiles WHERE username = ?`, username).Scan(&n)
	return n > 0, err
}

// List returns every stored profile ordered by username.
func (r *SQLiteRepository) List(ctx context.Context) ([]UserProfile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM profiles ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserProfile
	for rows.Next() {
		p, err := scanSQLiteProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanSQLiteProfile(row rowScanner) (UserProfile, error) {
	var (
		p         UserProfile
		usage     string
		reminders string
		createdAt string
	)
	if err := row.Scan(&p.Username, &p.Age, &p.PINHash, &p.FaceHash, &usage, &p.LastOpenedApp,
		&p.Streak.App, &p.Streak.Len, &p.Wallpaper, &reminders, &createdAt); err != nil {
		return UserProfile{}, err
	}
	if err := decodeCollections(&p, []byte(usage), []byte(reminders)); err != nil {
		return UserProfile{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return UserProfile{}, fmt.Errorf("decode created_at: %w", err)
	}
	p.CreatedAt = ts
	return withDefaults(p), nil
}
