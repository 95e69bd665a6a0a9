package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// DriverName maps a Driver to its database/sql registration name.
func DriverName(driver Driver) (string, error) {
	switch driver {
	case DriverSQLite:
		return "sqlite", nil // modernc driver
	case DriverPostgres:
		return "pgx", nil // pgx stdlib driver
	default:
		return "", fmt.Errorf("unsupported driver: %s", driver)
	}
}

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	drvName, err := DriverName(driver)
	if err != nil {
		return nil, err
	}
	if dsn == "" {
		switch driver {
		case DriverSQLite:
			dsn = "file:greenscore.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		case DriverPostgres:
			dsn = "postgres://localhost:5432/greenscore?sslmode=disable"
		}
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS region_scores (
  id TEXT PRIMARY KEY,
  run_id TEXT NOT NULL,
  region TEXT NOT NULL,
  period TEXT NOT NULL,
  risk_level TEXT NOT NULL,
  environmental_score REAL NOT NULL,
  poverty_score REAL NOT NULL,
  cost_benefit_score REAL NOT NULL,
  composite_score REAL NOT NULL,
  rating TEXT NOT NULL,
  infrastructure TEXT NOT NULL,
  completeness REAL NOT NULL DEFAULT 1,
  breakdown_json TEXT NOT NULL,
  projection_json TEXT NOT NULL DEFAULT '',
  parameters_json TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_region_scores_region ON region_scores(region, created_at);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS region_scores (
  id TEXT PRIMARY KEY,
  run_id TEXT NOT NULL,
  region TEXT NOT NULL,
  period TEXT NOT NULL,
  risk_level TEXT NOT NULL,
  environmental_score DOUBLE PRECISION NOT NULL,
  poverty_score DOUBLE PRECISION NOT NULL,
  cost_benefit_score DOUBLE PRECISION NOT NULL,
  composite_score DOUBLE PRECISION NOT NULL,
  rating TEXT NOT NULL,
  infrastructure TEXT NOT NULL,
  completeness DOUBLE PRECISION NOT NULL DEFAULT 1,
  breakdown_json TEXT NOT NULL,
  projection_json TEXT NOT NULL DEFAULT '',
  parameters_json TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_region_scores_region ON region_scores(region, created_at);

CREATE OR REPLACE PROCEDURE record_region_score(
  p_id TEXT, p_run_id TEXT, p_region TEXT, p_period TEXT, p_risk_level TEXT,
  p_environmental DOUBLE PRECISION, p_poverty DOUBLE PRECISION,
  p_cost_benefit DOUBLE PRECISION, p_composite DOUBLE PRECISION,
  p_rating TEXT, p_infrastructure TEXT, p_completeness DOUBLE PRECISION,
  p_breakdown TEXT, p_projection TEXT, p_parameters TEXT, p_created_at BIGINT)
LANGUAGE plpgsql AS $$
BEGIN
  INSERT INTO region_scores (id, run_id, region, period, risk_level,
    environmental_score, poverty_score, cost_benefit_score, composite_score,
    rating, infrastructure, completeness, breakdown_json, projection_json,
    parameters_json, created_at)
  VALUES (p_id, p_run_id, p_region, p_period, p_risk_level,
    p_environmental, p_poverty, p_cost_benefit, p_composite,
    p_rating, p_infrastructure, p_completeness, p_breakdown, p_projection,
    p_parameters, p_created_at)
  ON CONFLICT (id) DO NOTHING;
END;
$$;
`
