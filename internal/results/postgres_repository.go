package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// EnsureSchema creates the backing table; the binaries call it on
// startup so a fresh database works without manual migration.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL results repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the extraction_results table and its gauge lookup
// index if they do not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS extraction_results (
			id         UUID PRIMARY KEY,
			run_id     UUID NOT NULL,
			gauge_id   TEXT NOT NULL,
			gauge_name TEXT NOT NULL,
			gauge_lat  DOUBLE PRECISION NOT NULL,
			gauge_lon  DOUBLE PRECISION NOT NULL,
			huc_02     TEXT NOT NULL,
			status     TEXT NOT NULL,
			attributes JSONB NOT NULL,
			statuses   JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_extraction_results_gauge
			ON extraction_results (gauge_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure results schema: %w", err)
		}
	}
	return nil
}

// Save persists a completed extraction run.
func (r *PostgresRepository) Save(ctx context.Context, result *StoredResult) error {
	attrsJSON, err := json.Marshal(result.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}
	statusesJSON, err := json.Marshal(result.Statuses)
	if err != nil {
		return fmt.Errorf("marshal statuses: %w", err)
	}

	query := `
		INSERT INTO extraction_results (
			id, run_id, gauge_id, gauge_name, gauge_lat, gauge_lon,
			huc_02, status, attributes, statuses, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.pool.Exec(ctx, query,
		result.ID,
		result.RunID,
		result.GaugeID,
		result.GaugeName,
		result.Lat,
		result.Lon,
		result.HUC02,
		result.Status,
		attrsJSON,
		statusesJSON,
		result.CreatedAt,
	)
	return err
}

// LatestByGauge retrieves the most recent result for a gauge.
func (r *PostgresRepository) LatestByGauge(ctx context.Context, gaugeID string) (*StoredResult, error) {
	query := `
		SELECT
			id, run_id, gauge_id, gauge_name, gauge_lat, gauge_lon,
			huc_02, status, attributes, statuses, created_at
		FROM extraction_results
		WHERE gauge_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	result, err := scanResult(r.pool.QueryRow(ctx, query, gaugeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return result, nil
}

// ListByGauge retrieves a gauge's extraction history, newest first.
func (r *PostgresRepository) ListByGauge(ctx context.Context, gaugeID string, opts ListOptions) ([]*StoredResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT
			id, run_id, gauge_id, gauge_name, gauge_lat, gauge_lon,
			huc_02, status, attributes, statuses, created_at
		FROM extraction_results
		WHERE gauge_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, gaugeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*StoredResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*StoredResult, error) {
	var (
		result       StoredResult
		attrsJSON    []byte
		statusesJSON []byte
	)

	err := row.Scan(
		&result.ID,
		&result.RunID,
		&result.GaugeID,
		&result.GaugeName,
		&result.Lat,
		&result.Lon,
		&result.HUC02,
		&result.Status,
		&attrsJSON,
		&statusesJSON,
		&result.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(attrsJSON, &result.Attributes); err != nil {
		return nil, fmt.Errorf("unmarshal attributes: %w", err)
	}
	if err := json.Unmarshal(statusesJSON, &result.Statuses); err != nil {
		return nil, fmt.Errorf("unmarshal statuses: %w", err)
	}
	return &result, nil
}
