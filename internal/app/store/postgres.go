package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/miscOS/telegram-garbage-bot/internal/app/user"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/errs"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/logx"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Postgres is the Postgres-backed user store, used when DATABASE_URL is configured.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres initializes a new PostgreSQL connection pool and executes database migrations.
func NewPostgres(dsn string) (*Postgres, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database DSN: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	if err := runMigrations(sqlDB); err != nil {
		pool.Close()
		return nil, err
	}

	return &Postgres{pool: pool}, nil
}

// runMigrations applies all pending migrations from the embedded file system.
func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logx.Info("Database migrations applied successfully.")
	return nil
}

// Close releases the connection pool.
func (s *Postgres) Close() {
	s.pool.Close()
}

const userColumns = "id, city, street, street_number, location_id, timezone, reminder_at"

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.City, &u.Street, &u.StreetNumber, &u.LocationID, &u.Timezone, &u.ReminderAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Get returns the user with the given chat id.
func (s *Postgres) Get(ctx context.Context, id int64) (*user.User, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NewError(errs.ErrUserDoesNotExist)
		}
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return u, nil
}

// List returns all registered users ordered by chat id.
func (s *Postgres) List(ctx context.Context) ([]*user.User, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var out []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return out, nil
}

// Create registers a new user.
func (s *Postgres) Create(ctx context.Context, u *user.User) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO users ("+userColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7)",
		u.ID, u.City, u.Street, u.StreetNumber, u.LocationID, u.Timezone, u.ReminderAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.NewError(errs.ErrUserAlreadyExists)
		}
		return fmt.Errorf("failed to create user %d: %w", u.ID, err)
	}
	return nil
}

// Delete removes the user with the given chat id.
func (s *Postgres) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NewError(errs.ErrUserDoesNotExist)
	}
	return nil
}

// Save persists the current state of an existing user.
func (s *Postgres) Save(ctx context.Context, u *user.User) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE users SET city = $2, street = $3, street_number = $4, location_id = $5, timezone = $6, reminder_at = $7 WHERE id = $1",
		u.ID, u.City, u.Street, u.StreetNumber, u.LocationID, u.Timezone, u.ReminderAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save user %d: %w", u.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NewError(errs.ErrUserDoesNotExist)
	}
	return nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
