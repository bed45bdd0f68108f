package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists user profiles keyed by username. Profiles are never
// deleted through it.
type Repository interface {
	Create(ctx context.Context, p UserProfile) error
	Get(ctx context.Context, username string) (UserProfile, error)
	Put(ctx context.Context, p UserProfile) error
	Exists(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]UserProfile, error)
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS profiles (
    username        TEXT PRIMARY KEY,
    age             INTEGER NOT NULL CHECK (age >= 1),
    pin_hash        TEXT NOT NULL DEFAULT '',
    face_hash       TEXT NOT NULL DEFAULT '',
    usage_counts    JSONB NOT NULL DEFAULT '{}'::jsonb,
    last_opened_app TEXT NOT NULL DEFAULT '',
    streak_app      TEXT NOT NULL DEFAULT '',
    streak_len      INTEGER NOT NULL DEFAULT 0,
    wallpaper       TEXT NOT NULL DEFAULT '',
    reminders       JSONB NOT NULL DEFAULT '[]'::jsonb,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const selectColumns = `username, age, pin_hash, face_hash, usage_counts, last_opened_app,
        streak_app, streak_len, wallpaper, reminders, created_at`

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed profile repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the profiles table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, postgresSchema)
	return err
}

// Create inserts a new profile.
func (r *PostgresRepository) Create(ctx context.Context, p UserProfile) error {
	if p.GuestMode {
		return ErrGuest
	}
	usage, reminders, err := encodeCollections(p)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO profiles (username, age, pin_hash, face_hash, usage_counts,
        last_opened_app, streak_app, streak_len, wallpaper, reminders, created_at)
        VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8, $9, $10::jsonb, $11)`,
		p.Username, p.Age, p.PINHash, p.FaceHash, usage, p.LastOpenedApp,
		p.Streak.App, p.Streak.Len, p.Wallpaper, reminders, p.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrExists
	}
	return err
}

// Get fetches a profile by username.
func (r *PostgresRepository) Get(ctx context.Context, username string) (UserProfile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM profiles WHERE username = $1`, username)
	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return UserProfile{}, ErrNotFound
	}
	return p, err
}

// Put replaces the stored record for p.Username.
func (r *PostgresRepository) Put(ctx context.Context, p UserProfile) error {
	if p.GuestMode {
		return ErrGuest
	}
	usage, reminders, err := encodeCollections(p)
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `UPDATE profiles SET age = $2, pin_hash = $3, face_hash = $4,
        usage_counts = $5::jsonb, last_opened_app = $6, streak_app = $7, streak_len = $8,
        wallpaper = $9, reminders = $10::jsonb WHERE username = $1`,
		p.Username, p.Age, p.PINHash, p.FaceHash, usage, p.LastOpenedApp,
		p.Streak.App, p.Streak.Len, p.Wallpaper, reminders)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Exists reports whether username is registered.
func (r *PostgresRepository) Exists(ctx context.Context, username string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE username = $1)`, username).Scan(&ok)
	return ok, err
}

// List returns every stored profile ordered by username.
func (r *PostgresRepository) List(ctx context.Context) ([]UserProfile, error) {
	rows, err := r.db.Query(ctx, `SELECT `+selectColumns+` FROM profiles ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (UserProfile, error) {
	var (
		p         UserProfile
		usage     []byte
		reminders []byte
		createdAt time.Time
	)
	if err := row.Scan(&p.Username, &p.Age, &p.PINHash, &p.FaceHash, &usage, &p.LastOpenedApp,
		&p.Streak.App, &p.Streak.Len, &p.Wallpaper, &reminders, &createdAt); err != nil {
		return UserProfile{}, err
	}
	if err := decodeCollections(&p, usage, reminders); err != nil {
		return UserProfile{}, err
	}
	p.CreatedAt = createdAt.UTC()
	return withDefaults(p), nil
}

func encodeCollections(p UserProfile) (string, string, error) {
	p = withDefaults(p)
	usage, err := json.Marshal(p.UsageCounts)
	if err != nil {
		return "", "", fmt.Errorf("encode usage counts: %w", err)
	}
	reminders, err := json.Marshal(p.Reminders)
	if err != nil {
		return "", "", fmt.Errorf("encode reminders: %w", err)
	}
	return string(usage), string(reminders), nil
}

func decodeCollections(p *UserProfile, usage, reminders []byte) error {
	if len(usage) > 0 {
		if err := json.Unmarshal(usage, &p.UsageCounts); err != nil {
			return fmt.Errorf("decode usage counts: %w", err)
		}
	}
	if len(reminders) > 0 {
		if err := json.Unmarshal(reminders, &p.Reminders); err != nil {
			return fmt.Errorf("decode reminders: %w", err)
		}
	}
	return nil
}
