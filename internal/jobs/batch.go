// Package jobs runs scheduled batch scoring of every known region.
package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"

	"github.com/mind-engage/greenscore/internal/assess"
	"github.com/mind-engage/greenscore/internal/region"
	"github.com/mind-engage/greenscore/internal/scoring"
)

var ErrRunning = errors.New("batch run already in progress")

// Scorer is the slice of assess.Service a batch run needs.
type Scorer interface {
	Regions() *region.Registry
	AssessRegion(ctx context.Context, key string, r region.Region, params scoring.InvestmentParameters, runID string) assess.Assessment
}

// Archiver receives every assessment of a run, e.g. for report rendering.
type Archiver interface {
	Archive(a assess.Assessment) (string, error)
}

// Summary describes one finished run.
type Summary struct {
	RunID    string
	Scored   int
	Started  time.Time
	Duration time.Duration
}

type Batch struct {
	svc     Scorer
	archive Archiver
	params  scoring.InvestmentParameters
	running atomic.Bool
	cron    *cron.Cron
	last    atomic.Pointer[Summary]
}

type Option func(*Batch)

// WithArchiver renders and stores a report for each assessment.
func WithArchiver(a Archiver) Option { return func(b *Batch) { b.archive = a } }

// WithParameters sets the investment parameters used for every region.
func WithParameters(p scoring.InvestmentParameters) Option {
	return func(b *Batch) { b.params = p }
}

func NewBatch(svc Scorer, opts ...Option) *Batch {
	b := &Batch{
		svc:    svc,
		params: scoring.InvestmentParameters{RiskLevel: scoring.Moderate},
	}
	for _, o := range opts {
		o(b)
	}
	b.params = b.params.Normalize()
	return b
}

// RunOnce scores every province and every district subdistrict under one run
// id. Subdistricts are keyed "district/subdistrict".
func (b *Batch) RunOnce(ctx context.Context) (Summary, error) {
	if !b.running.CompareAndSwap(false, true) {
		return Summary{}, ErrRunning
	}
	defer b.running.Store(false)

	sum := Summary{RunID: uuid.NewString(), Started: time.Now()}
	reg := b.svc.Regions()

	score := func(key string, r region.Region) bool {
		if ctx.Err() != nil {
			return false
		}
		a := b.svc.AssessRegion(ctx, key, r, b.params, sum.RunID)
		sum.Scored++
		if b.archive != nil {
			if _, err := b.archive.Archive(a); err != nil {
				log.Warn().Err(err).Str("region", key).Msg("archive report")
			}
		}
		return true
	}

	for _, name := range reg.Provinces.Names() {
		r, _ := reg.Provinces.Lookup(name)
		if !score(name, r) {
			break
		}
	}
	for _, dn := range reg.Districts() {
		d, _ := reg.District(dn)
		for _, name := range d.Names() {
			r, _ := d.Lookup(name)
			if !score(d.Name+"/"+name, r) {
				break
			}
		}
	}

	sum.Duration = time.Since(sum.Started)
	b.last.Store(&sum)
	log.Info().Str("run_id", sum.RunID).Int("scored", sum.Scored).Dur("took", sum.Duration).Msg("batch run finished")
	return sum, ctx.Err()
}

// Running reports whether a run is in progress.
func (b *Batch) Running() bool { return b.running.Load() }

// Last returns the most recent finished run, if any.
func (b *Batch) Last() (Summary, bool) {
	if s := b.last.Load(); s != nil {
		return *s, true
	}
	return Summary{}, false
}

// Start schedules RunOnce on spec (standard five-field cron or a descriptor
// such as "@daily").
func (b *Batch) Start(ctx context.Context, spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := b.RunOnce(ctx); err != nil {
			log.Warn().Err(err).Msg("scheduled batch run")
		}
	})
	if err != nil {
		return err
	}
	b.cron = c
	c.Start()
	log.Info().Str("schedule", spec).Msg("batch scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (b *Batch) Stop() {
	if b.cron == nil {
		return
	}
	<-b.cron.Stop().Done()
}
