package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/udisondev/seafall/internal/model"
)

// DB wraps a pgx connection pool for captain account operations.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a DB handle.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying pgx pool (repositories, goose migrations).
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// HashPassword hashes a password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a password against its bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GetCaptain retrieves a captain account by login.
// Returns nil, nil if the account does not exist.
func (d *DB) GetCaptain(ctx context.Context, login string) (*model.Captain, error) {
	login = strings.ToLower(login)
	var c model.Captain
	err := d.pool.QueryRow(ctx,
		`SELECT login, password, access_level, last_ip, last_active
		 FROM captains WHERE login = $1`, login,
	).Scan(&c.Login, &c.PasswordHash, &c.AccessLevel, &c.LastIP, &c.LastActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying captain %q: %w", login, err)
	}
	return &c, nil
}

// CreateCaptain inserts a new captain with the given password hash.
func (d *DB) CreateCaptain(ctx context.Context, login, passwordHash, ip string) error {
	login = strings.ToLower(login)
	_, err := d.pool.Exec(ctx,
		`INSERT INTO captains (login, password, last_active, access_level, last_ip)
		 VALUES ($1, $2, $3, 0, $4)`,
		login, passwordHash, time.Now(), ip,
	)
	if err != nil {
		return fmt.Errorf("creating captain %q: %w", login, err)
	}
	slog.Info("auto-created captain", "login", login)
	return nil
}

// UpdateLastLogin updates last_active and last_ip on successful login.
func (d *DB) UpdateLastLogin(ctx context.Context, login, ip string) error {
	_, err := d.pool.Exec(ctx,
		`UPDATE captains SET last_active = $1, last_ip = $2 WHERE login = $3`,
		time.Now(), ip, strings.ToLower(login),
	)
	if err != nil {
		return fmt.Errorf("updating last login for %q: %w", login, err)
	}
	return nil
}
