package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/UnknownOlympus/skypark/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Errors returned by every SpotRepository implementation.
var (
	ErrSpotNotFound = errors.New("parking spot not found")
	ErrSpotOccupied = errors.New("parking spot is already occupied")
)

// SpotRepository is the owned collection of parking spots.
// ConfirmReservation is the only mutation and flips a spot from free to occupied atomically.
type SpotRepository interface {
	ListSpots(ctx context.Context) ([]models.ParkingSpot, error)
	GetSpot(ctx context.Context, spotID string) (models.ParkingSpot, error)
	ConfirmReservation(ctx context.Context, spotID string) error
}

// Database is the subset of pgxpool.Pool used by the Postgres repository.
// pgxmock.PgxPoolIface satisfies it as well.
type Database interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Close()
}

// NewDatabase opens a pgx connection pool and verifies it with a ping.
func NewDatabase(ctx context.Context, host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := (&url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, port),
		Path:     name,
		RawQuery: "sslmode=disable",
	}).String()

	return NewDatabaseFromDSN(ctx, dsn)
}

// NewDatabaseFromDSN opens a pgx connection pool for a ready connection string.
func NewDatabaseFromDSN(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	const pingTimeout = 5 * time.Second
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
