// Package app assembles the shared runtime graph used by both binaries.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/phuslu/log"

	"github.com/mind-engage/greenscore/internal/assess"
	"github.com/mind-engage/greenscore/internal/config"
	"github.com/mind-engage/greenscore/internal/db"
	"github.com/mind-engage/greenscore/internal/geodata"
	"github.com/mind-engage/greenscore/internal/jobs"
	"github.com/mind-engage/greenscore/internal/news"
	"github.com/mind-engage/greenscore/internal/poverty"
	"github.com/mind-engage/greenscore/internal/region"
	"github.com/mind-engage/greenscore/internal/report"
	"github.com/mind-engage/greenscore/internal/scoring"
	"github.com/mind-engage/greenscore/internal/storage"
	"github.com/mind-engage/greenscore/internal/store"
	"github.com/mind-engage/greenscore/internal/tracing"
)

const persistTimeout = 10 * time.Second

// App holds the components built from a Config.
type App struct {
	Config   config.Config
	DB       *sql.DB
	Scores   *store.SQLStore
	Recorder *store.Recorder
	Service  *assess.Service
	Archiver *report.Archiver
	Batch    *jobs.Batch

	closers []func(context.Context) error
}

// New opens the database, wires the collaborators and, in online mode,
// builds the first news classification table.
func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	a := &App{Config: cfg}

	shutdown, err := tracing.Setup(ctx, service, cfg.OTLPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}
	a.closers = append(a.closers, shutdown)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	conn, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	a.DB = conn
	a.closers = append(a.closers, func(context.Context) error { return conn.Close() })

	a.Scores, err = store.NewSQLStore(conn, db.Driver(cfg.DBDriver))
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	sinks := store.Fanout{a.Scores}
	if len(cfg.KafkaBrokers) > 0 {
		kp := store.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		sinks = append(sinks, kp)
		a.closers = append(a.closers, func(context.Context) error { return kp.Close() })
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing scores to kafka")
	}
	a.Recorder = store.NewRecorder(sinks, persistTimeout)

	blobs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("blob store: %w", err)
	}
	a.Archiver = report.NewArchiver(blobs)

	regions := region.Default()
	scraper := news.NewScraper()
	build := func(ctx context.Context) *news.Table {
		return news.BuildTable(ctx, scraper, news.Sources{
			NewsSites:   cfg.NewsSites,
			EnergySites: cfg.EnergySites,
		}, regions.Provinces.Names())
	}
	holder := news.NewHolder(nil)
	if cfg.Online() {
		holder.Store(build(ctx))
	}

	engine := scoring.MustEngine(scoring.InvestmentConfig())
	if cfg.ScoringVariant == config.VariantFixed {
		engine = scoring.MustEngine(scoring.FixedWeightConfig())
	}

	a.Service = assess.NewService(assess.Deps{
		Regions:   regions,
		Collector: geodata.NewCollector(provider(cfg)),
		Poverty:   poverty.Load(cfg.PovertyModelPath),
		News:      holder,
		Build:     build,
		Engine:    engine,
		Recorder:  a.Recorder,
	})
	a.Batch = jobs.NewBatch(a.Service, jobs.WithArchiver(a.Archiver))
	return a, nil
}

func provider(cfg config.Config) geodata.Provider {
	if !cfg.Online() || cfg.GeoBaseURL == "" {
		log.Warn().Str("mode", string(cfg.Mode)).Msg("remote sensing disabled; indicators will be substituted")
		return geodata.Unavailable{}
	}
	return geodata.NewHTTPProvider(cfg.GeoBaseURL, cfg.GeoAPIKey,
		geodata.WithRateLimit(cfg.GeoRPS), geodata.WithTimeout(cfg.GeoTimeout))
}

// Close drains pending score writes, then releases resources in reverse
// order of acquisition.
func (a *App) Close(ctx context.Context) error {
	if a.Recorder != nil {
		a.Recorder.Close()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
