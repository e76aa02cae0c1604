// Package postgres persists normalized reports in PostgreSQL.
package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/hazard-normalizer/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a report ID does not exist.
var ErrNotFound = errors.New("report not found")

// Store is a report repository backed by a pgx connection pool.
// It implements pipeline.BatchLoader.
type Store struct {
	pool *pgxpool.Pool
}

// Open migrates the schema and connects a pool to databaseURL.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	if err := Migrate(databaseURL); err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases all pooled connections.
func (s *Store) Close() {
	s.pool.Close()
}

// CheckReadiness pings the database.
func (s *Store) CheckReadiness(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}

const upsertReport = `
INSERT INTO reports (
    id, hazard_type, description, status, reported_by, reported_at,
    address, latitude, longitude, city, state, zip_code, raw_payload
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (id) DO UPDATE SET
    hazard_type = EXCLUDED.hazard_type,
    description = EXCLUDED.description,
    status      = EXCLUDED.status,
    reported_by = EXCLUDED.reported_by,
    reported_at = EXCLUDED.reported_at,
    address     = EXCLUDED.address,
    latitude    = EXCLUDED.latitude,
    longitude   = EXCLUDED.longitude,
    city        = EXCLUDED.city,
    state       = EXCLUDED.state,
    zip_code    = EXCLUDED.zip_code,
    raw_payload = EXCLUDED.raw_payload,
    updated_at  = now()`

// LoadBatch upserts reports in a single round trip. Replaying a batch is safe.
func (s *Store) LoadBatch(ctx context.Context, reports []domain.Report) error {
	if len(reports) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range reports {
		r := &reports[i]
		batch.Queue(upsertReport,
			r.ID, r.HazardType, r.Description, r.Status, r.ReportedBy, reportedAt(r.ReportedAt),
			r.Location.Address, r.Location.Coordinates.Latitude, r.Location.Coordinates.Longitude,
			r.Location.City, r.Location.State, r.Location.ZipCode, rawPayload(r.RawPayload),
		)
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert reports: %w", err)
	}
	return nil
}

const selectReports = `
SELECT id, hazard_type, description, status, reported_by, reported_at,
       address, latitude, longitude, city, state, zip_code
FROM reports`

// ListReports returns up to limit reports, newest first.
func (s *Store) ListReports(ctx context.Context, limit int) ([]domain.Report, error) {
	rows, err := s.pool.Query(ctx, selectReports+` ORDER BY reported_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return collectReports(rows)
}

// ListReportsAfter returns up to limit reports with IDs greater than afterID,
// ordered by ID. Pass "" to start from the beginning.
func (s *Store) ListReportsAfter(ctx context.Context, afterID string, limit int) ([]domain.Report, error) {
	rows, err := s.pool.Query(ctx, selectReports+` WHERE id > $1 ORDER BY id LIMIT $2`, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports after %q: %w", afterID, err)
	}
	return collectReports(rows)
}

// UpdateLocation overwrites a report's location.
func (s *Store) UpdateLocation(ctx context.Context, id string, loc domain.Location) error {
	tag, err := s.pool.Exec(ctx, `
UPDATE reports SET
    address = $2, latitude = $3, longitude = $4,
    city = $5, state = $6, zip_code = $7, updated_at = now()
WHERE id = $1`,
		id, loc.Address, loc.Coordinates.Latitude, loc.Coordinates.Longitude,
		loc.City, loc.State, loc.ZipCode,
	)
	if err != nil {
		return fmt.Errorf("update location for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update location for %s: %w", id, ErrNotFound)
	}
	return nil
}

func collectReports(rows pgx.Rows) ([]domain.Report, error) {
	reports, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Report, error) {
		var r domain.Report
		err := row.Scan(
			&r.ID, &r.HazardType, &r.Description, &r.Status, &r.ReportedBy, &r.ReportedAt,
			&r.Location.Address, &r.Location.Coordinates.Latitude, &r.Location.Coordinates.Longitude,
			&r.Location.City, &r.Location.State, &r.Location.ZipCode,
		)
		r.ReportedAt = r.ReportedAt.UTC()
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan reports: %w", err)
	}
	return reports, nil
}

func reportedAt(t time.Time) time.Time {
	if t.IsZero() {
		return domain.Now()
	}
	return t
}

// rawPayload returns nil for payloads that are not JSON objects so the JSONB
// column stays NULL instead of rejecting the row.
func rawPayload(b []byte) any {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	return string(b)
}
