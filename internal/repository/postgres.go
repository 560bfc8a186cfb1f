package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/skypark/internal/models"
	"github.com/jackc/pgx/v5"
)

// Postgres stores spots in the parking_spots table.
type Postgres struct {
	db  Database
	log *slog.Logger
}

// NewPostgres creates a new instance of Postgres with the provided Database.
func NewPostgres(db Database, log *slog.Logger) *Postgres {
	return &Postgres{db: db, log: log}
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() {
	p.db.Close()
	p.log.Debug("Database connection pool closed")
}

// Migrate creates the parking_spots table when it does not exist yet.
func (p *Postgres) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS parking_spots (
			spot_id     TEXT PRIMARY KEY,
			zone_id     TEXT NOT NULL,
			latitude    DOUBLE PRECISION NOT NULL,
			longitude   DOUBLE PRECISION NOT NULL,
			occupied    BOOLEAN NOT NULL DEFAULT false,
			reserved_at TIMESTAMPTZ,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`

	if _, err := p.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create parking_spots table: %w", err)
	}

	return nil
}

// Seed inserts spots that are not stored yet. Existing rows, and their occupancy, are left untouched.
func (p *Postgres) Seed(ctx context.Context, spots []models.ParkingSpot) error {
	query := `
		INSERT INTO parking_spots (spot_id, zone_id, latitude, longitude, occupied)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (spot_id) DO NOTHING;
	`

	for _, spot := range spots {
		_, err := p.db.Exec(ctx, query,
			spot.ID, spot.ZoneID, spot.Coordinates.Latitude, spot.Coordinates.Longitude, spot.Occupied)
		if err != nil {
			return fmt.Errorf("failed to seed spot %s: %w", spot.ID, err)
		}
	}

	p.log.DebugContext(ctx, "Parking spots seeded", "count", len(spots))

	return nil
}

// ListSpots returns every spot ordered by creation, so ties in matching resolve the same way each time.
func (p *Postgres) ListSpots(ctx context.Context) ([]models.ParkingSpot, error) {
	var spots []models.ParkingSpot
	query := `
		SELECT spot_id, zone_id, latitude, longitude, occupied
		FROM parking_spots
		ORDER BY created_at ASC, spot_id ASC;
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query parking spots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var spot models.ParkingSpot
		errScan := rows.Scan(
			&spot.ID, &spot.ZoneID, &spot.Coordinates.Latitude, &spot.Coordinates.Longitude, &spot.Occupied,
		)
		if errScan != nil {
			return nil, fmt.Errorf("failed to scan parking spot: %w", errScan)
		}
		spots = append(spots, spot)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return spots, nil
}

// GetSpot returns a single spot or ErrSpotNotFound.
func (p *Postgres) GetSpot(ctx context.Context, spotID string) (models.ParkingSpot, error) {
	query := `
		SELECT spot_id, zone_id, latitude, longitude, occupied
		FROM parking_spots
		WHERE spot_id = $1;
	`

	var spot models.ParkingSpot
	err := p.db.QueryRow(ctx, query, spotID).Scan(
		&spot.ID, &spot.ZoneID, &spot.Coordinates.Latitude, &spot.Coordinates.Longitude, &spot.Occupied,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ParkingSpot{}, fmt.Errorf("failed to get spot %s: %w", spotID, ErrSpotNotFound)
	}
	if err != nil {
		return models.ParkingSpot{}, fmt.Errorf("failed to get spot %s: %w", spotID, err)
	}

	return spot, nil
}

// ConfirmReservation flips the occupancy flag with a single conditional update.
// When no row changes, it tells an unknown spot apart from one that was already taken.
func (p *Postgres) ConfirmReservation(ctx context.Context, spotID string) error {
	query := `
		UPDATE parking_spots
		SET
			occupied = true,
			reserved_at = now()
		WHERE
			spot_id = $1 AND occupied = false;
	`

	tag, err := p.db.Exec(ctx, query, spotID)
	if err != nil {
		return fmt.Errorf("failed to update spot occupancy: %w", err)
	}
	if tag.RowsAffected() == 1 {
		p.log.DebugContext(ctx, "Parking spot marked as occupied", "spot", spotID)
		return nil
	}

	var exists bool
	existsQuery := `SELECT EXISTS (SELECT 1 FROM parking_spots WHERE spot_id = $1);`
	if err = p.db.QueryRow(ctx, existsQuery, spotID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check spot existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("failed to confirm spot %s: %w", spotID, ErrSpotNotFound)
	}

	return fmt.Errorf("failed to confirm spot %s: %w", spotID, ErrSpotOccupied)
}
