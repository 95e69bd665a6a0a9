package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mind-engage/greenscore/internal/db"
)

type SQLStore struct {
	db     *sqlx.DB
	driver db.Driver
}

func NewSQLStore(conn *sql.DB, driver db.Driver) (*SQLStore, error) {
	name, err := db.DriverName(driver)
	if err != nil {
		return nil, err
	}
	return &SQLStore{db: sqlx.NewDb(conn, name), driver: driver}, nil
}

const insertScore = `INSERT INTO region_scores (id, run_id, region, period, risk_level,
	environmental_score, poverty_score, cost_benefit_score, composite_score,
	rating, infrastructure, completeness, breakdown_json, projection_json,
	parameters_json, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	ON CONFLICT (id) DO NOTHING`

const callRecord = `CALL record_region_score($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`

// Persist writes r. Postgres goes through the record_region_score procedure.
func (s *SQLStore) Persist(ctx context.Context, r Record) error {
	bj, err := json.Marshal(r.Breakdown)
	if err != nil {
		return fmt.Errorf("store: marshal breakdown: %w", err)
	}
	pj, err := marshalOptional(r.Projection)
	if err != nil {
		return fmt.Errorf("store: marshal projection: %w", err)
	}
	qj, err := marshalOptional(r.Parameters)
	if err != nil {
		return fmt.Errorf("store: marshal parameters: %w", err)
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	q := insertScore
	if s.driver == db.DriverPostgres {
		q = callRecord
	}
	b := r.Breakdown
	_, err = s.db.ExecContext(ctx, q,
		r.ID, r.RunID, r.Region, r.Period, string(b.RiskLevel),
		b.EnvironmentalScore, b.PovertyScore, b.CostBenefitScore, b.CompositeScore,
		string(b.Rating), b.Infrastructure, b.Completeness,
		string(bj), pj, qj, created.Unix())
	if err != nil {
		return fmt.Errorf("store: persist %s: %w", r.Region, err)
	}
	return nil
}

// marshalOptional encodes v, storing nil pointers as the empty string.
func marshalOptional(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return "", nil
	}
	return string(b), nil
}

// HistoryRow is a stored score summary.
type HistoryRow struct {
	ID                 string  `db:"id" json:"id"`
	RunID              string  `db:"run_id" json:"run_id"`
	Region             string  `db:"region" json:"region"`
	Period             string  `db:"period" json:"period"`
	RiskLevel          string  `db:"risk_level" json:"risk_level"`
	EnvironmentalScore float64 `db:"environmental_score" json:"environmental_score"`
	PovertyScore       float64 `db:"poverty_score" json:"poverty_score"`
	CostBenefitScore   float64 `db:"cost_benefit_score" json:"cost_benefit_score"`
	CompositeScore     float64 `db:"composite_score" json:"composite_score"`
	Rating             string  `db:"rating" json:"rating"`
	Infrastructure     string  `db:"infrastructure" json:"infrastructure"`
	Completeness       float64 `db:"completeness" json:"completeness"`
	CreatedAt          int64   `db:"created_at" json:"created_at"`
}

const DefaultHistoryLimit = 20

// History returns the latest records for region, newest first.
func (s *SQLStore) History(ctx context.Context, region string, limit int) ([]HistoryRow, error) {
	if limit <= 0 || limit > 500 {
		limit = DefaultHistoryLimit
	}
	q := s.db.Rebind(`SELECT id, run_id, region, period, risk_level,
		environmental_score, poverty_score, cost_benefit_score, composite_score,
		rating, infrastructure, completeness, created_at
		FROM region_scores WHERE region = ? ORDER BY created_at DESC, id DESC LIMIT ?`)
	rows := []HistoryRow{}
	if err := s.db.SelectContext(ctx, &rows, q, region, limit); err != nil {
		return nil, fmt.Errorf("store: history %s: %w", region, err)
	}
	return rows, nil
}
