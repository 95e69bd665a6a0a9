// Package store persists scored assessments: a relational table of record,
// an optional event stream, and a background recorder that keeps
// persistence off the request path.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/mind-engage/greenscore/internal/scoring"
)

// Record is one persisted assessment.
type Record struct {
	ID         string                        `json:"id"`
	RunID      string                        `json:"run_id"`
	Region     string                        `json:"region"`
	Period     string                        `json:"period"`
	Breakdown  scoring.ScoreBreakdown        `json:"breakdown"`
	Projection *scoring.ROIProjection        `json:"projection,omitempty"`
	Parameters *scoring.InvestmentParameters `json:"parameters,omitempty"`
	CreatedAt  time.Time                     `json:"created_at"`
}

// Store persists records.
type Store interface {
	Persist(ctx context.Context, r Record) error
}

// Fanout persists to every store and joins the errors.
type Fanout []Store

func (f Fanout) Persist(ctx context.Context, r Record) error {
	var errs []error
	for _, s := range f {
		if err := s.Persist(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every record.
type Discard struct{}

func (Discard) Persist(context.Context, Record) error { return nil }
