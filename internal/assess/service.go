// Package assess wires the collaborators (remote sensing, poverty model,
// news classification, persistence) around the scoring engine and exposes
// the region-level operations the HTTP API and batch jobs call.
package assess

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mind-engage/greenscore/internal/geodata"
	"github.com/mind-engage/greenscore/internal/news"
	"github.com/mind-engage/greenscore/internal/poverty"
	"github.com/mind-engage/greenscore/internal/region"
	"github.com/mind-engage/greenscore/internal/scoring"
	"github.com/mind-engage/greenscore/internal/store"
)

var ErrInvalidRegion = errors.New("invalid region")

// Recorder accepts records for background persistence.
type Recorder interface {
	Record(r store.Record)
}

// TableBuilder produces a fresh news classification table.
type TableBuilder func(ctx context.Context) *news.Table

type Deps struct {
	Regions   *region.Registry
	Collector *geodata.Collector
	Poverty   poverty.Model
	News      *news.Holder
	Build     TableBuilder
	Engine    *scoring.Engine
	Recorder  Recorder
	Now       func() time.Time
}

type Service struct {
	regions   *region.Registry
	collector *geodata.Collector
	poverty   poverty.Model
	news      *news.Holder
	build     TableBuilder
	engine    *scoring.Engine
	env       map[region.Model]*scoring.Engine
	recorder  Recorder
	now       func() time.Time
	tracer    trace.Tracer
}

func NewService(d Deps) *Service {
	s := &Service{
		regions:   d.Regions,
		collector: d.Collector,
		poverty:   d.Poverty,
		news:      d.News,
		build:     d.Build,
		engine:    d.Engine,
		recorder:  d.Recorder,
		now:       d.Now,
		tracer:    otel.Tracer("github.com/mind-engage/greenscore/internal/assess"),
		env: map[region.Model]*scoring.Engine{
			region.ModelLand:       scoring.MustEngine(scoring.EnvironmentalConfig(scoring.LandEqual())),
			region.ModelAirQuality: scoring.MustEngine(scoring.EnvironmentalConfig(scoring.AirQuality())),
			region.ModelSolarSite:  scoring.MustEngine(scoring.EnvironmentalConfig(scoring.SolarSite())),
		},
	}
	if s.regions == nil {
		s.regions = region.Default()
	}
	if s.collector == nil {
		s.collector = geodata.NewCollector(geodata.Unavailable{})
	}
	if s.news == nil {
		s.news = news.NewHolder(nil)
	}
	if s.engine == nil {
		s.engine = scoring.MustEngine(scoring.InvestmentConfig())
	}
	if s.recorder == nil {
		s.recorder = store.NewRecorder(store.Discard{}, 0)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) Regions() *region.Registry { return s.regions }

// indicators gathers everything the aggregator needs for one location.
// Collaborator failures become zeros, markers and Missing entries.
func (s *Service) indicators(ctx context.Context, name string, r region.Region) scoring.RegionIndicators {
	ind := s.collector.Collect(ctx, r.Lat, r.Lon)
	cov := s.collector.Covariates(ctx, r.Lat, r.Lon)
	ind.NightLightRadiance = cov.NightLight
	ind.SolarRadiationSum = cov.SolarRadiation
	ind.Missing = append(ind.Missing, cov.Missing...)
	ind.PovertyIndex = s.povertyIndex(cov)
	ind.InfrastructureLabel = s.news.Load().Lookup(name).Infrastructure
	return ind
}

// povertyIndex runs the model on the covariates. Unobserved covariates are
// already 0 and still go through the model.
func (s *Service) povertyIndex(cov geodata.Covariates) scoring.PovertyIndex {
	if s.poverty == nil {
		return scoring.PovertyUnavailable(poverty.ReasonNoModel)
	}
	return poverty.Estimate(s.poverty, cov.NightLight, cov.SolarRadiation)
}

func (s *Service) period() string {
	w := geodata.TrailingYear(s.now())
	return w.Start.Format(time.DateOnly) + "/" + w.End.Format(time.DateOnly)
}

// Infrastructure is the province overview: classification, poverty index and
// the raw land and air-quality readings.
func (s *Service) Infrastructure(ctx context.Context, province string) (InfrastructureReport, error) {
	ctx, span := s.tracer.Start(ctx, "assess.Infrastructure", trace.WithAttributes(attribute.String("region", province)))
	defer span.End()

	r, ok := s.regions.Provinces.Lookup(province)
	if !ok {
		return InfrastructureReport{}, fmt.Errorf("%w: %q", ErrInvalidRegion, province)
	}
	ind := s.indicators(ctx, r.Name, r)
	entry := s.news.Load().Lookup(r.Name)
	return InfrastructureReport{
		Province:        r.Title(),
		Infrastructure:  entry.Infrastructure,
		RenewableEnergy: entry.RenewableEnergy,
		PovertyIndex:    ind.PovertyIndex,
		NDVI:            ind.VegetationIndex,
		Precipitation:   ind.PrecipitationMm,
		Sentinel:        ind.SoilMoistureDb,
		NO2:             ind.Pollutants.NO2,
		CO:              ind.Pollutants.CO,
		SO2:             ind.Pollutants.SO2,
		O3:              ind.Pollutants.O3,
		PM25:            ind.Pollutants.PM25,
		Missing:         ind.Missing,
	}, nil
}

// EnvironmentalScore scores one subdistrict with its district's model.
func (s *Service) EnvironmentalScore(ctx context.Context, district, subdistrict string) (EnvironmentalReport, error) {
	ctx, span := s.tracer.Start(ctx, "assess.EnvironmentalScore", trace.WithAttributes(
		attribute.String("district", district), attribute.String("subdistrict", subdistrict)))
	defer span.End()

	d, ok := s.regions.District(district)
	if !ok {
		return EnvironmentalReport{}, fmt.Errorf("%w: district %q", ErrInvalidRegion, district)
	}
	r, ok := d.Lookup(subdistrict)
	if !ok {
		return EnvironmentalReport{}, fmt.Errorf("%w: subdistrict %q", ErrInvalidRegion, subdistrict)
	}
	return s.environmental(ctx, d, r), nil
}

// AllEnvironmentalScores scores every subdistrict of district.
func (s *Service) AllEnvironmentalScores(ctx context.Context, district string) (map[string]EnvironmentalReport, error) {
	ctx, span := s.tracer.Start(ctx, "assess.AllEnvironmentalScores", trace.WithAttributes(attribute.String("district", district)))
	defer span.End()

	d, ok := s.regions.District(district)
	if !ok {
		return nil, fmt.Errorf("%w: district %q", ErrInvalidRegion, district)
	}
	out := make(map[string]EnvironmentalReport, d.Len())
	for _, name := range d.Names() {
		r, _ := d.Lookup(name)
		out[name] = s.environmental(ctx, d, r)
	}
	return out, nil
}

func (s *Service) environmental(ctx context.Context, d region.District, r region.Region) EnvironmentalReport {
	eng := s.env[d.Model]
	if eng == nil {
		eng = s.env[region.ModelLand]
	}
	kinds := eng.Config().Environment.Kinds()
	ind := s.collector.Collect(ctx, r.Lat, r.Lon, kinds...)
	b := eng.Environmental(ind)

	rep := EnvironmentalReport{
		District:     d.Name,
		Subdistrict:  r.Title(),
		Score:        b.Score,
		Rating:       b.Rating,
		Completeness: b.Completeness,
		Data:         make(map[string]Reading, len(kinds)),
	}
	for _, k := range kinds {
		rep.Data[readingKey(k)] = Reading{
			Value:  ind.Value(k),
			Unit:   units[k],
			Score:  b.Components[k],
			Impact: solarImpact(d.Model, k),
		}
	}
	if d.Model == region.ModelSolarSite {
		rep.SolarPanelEfficiency = SolarInsight(ind.LandSurfaceTempC, ind.Pollutants.NO2)
	}
	return rep
}

// InvestmentScore collects indicators for a province-level region, scores it,
// projects ROI and records the result in the background.
func (s *Service) InvestmentScore(ctx context.Context, name string, params scoring.InvestmentParameters) (Assessment, error) {
	r, ok := s.regions.Provinces.Lookup(name)
	if !ok {
		return Assessment{}, fmt.Errorf("%w: %q", ErrInvalidRegion, name)
	}
	return s.AssessRegion(ctx, r.Name, r, params, uuid.NewString()), nil
}

// AssessRegion scores the location r under key and records it with runID.
func (s *Service) AssessRegion(ctx context.Context, key string, r region.Region, params scoring.InvestmentParameters, runID string) Assessment {
	ctx, span := s.tracer.Start(ctx, "assess.AssessRegion", trace.WithAttributes(
		attribute.String("region", key), attribute.String("run_id", runID)))
	defer span.End()

	a := s.Score(s.indicators(ctx, key, r), params)
	a.Region = key
	a.Title = region.Title(key)
	a.RunID = runID
	a.Period = s.period()

	span.SetAttributes(attribute.Float64("composite", a.Breakdown.CompositeScore))
	if len(a.Breakdown.Substitutions) > 0 {
		log.Info().Str("region", key).Strs("substitutions", a.Breakdown.Substitutions).Msg("scored with substitutions")
	}

	proj, p := a.Projection, a.Parameters
	s.recorder.Record(store.Record{
		ID:         uuid.NewString(),
		RunID:      runID,
		Region:     key,
		Period:     a.Period,
		Breakdown:  a.Breakdown,
		Projection: &proj,
		Parameters: &p,
		CreatedAt:  s.now(),
	})
	return a
}

// Score is the pure part: normalize parameters, aggregate, project.
func (s *Service) Score(ind scoring.RegionIndicators, params scoring.InvestmentParameters) Assessment {
	p := params.Normalize()
	b := s.engine.Aggregate(ind, p.RiskLevel)
	return Assessment{
		Indicators: ind,
		Breakdown:  b,
		Projection: s.engine.Project(b, p),
		Parameters: p,
	}
}

// RefreshCategories rebuilds the news classification and swaps it in.
func (s *Service) RefreshCategories(ctx context.Context) (*news.Table, error) {
	ctx, span := s.tracer.Start(ctx, "assess.RefreshCategories")
	defer span.End()

	if s.build == nil {
		return nil, errors.New("category refresh not configured")
	}
	t := s.build(ctx)
	if t == nil {
		return nil, errors.New("category refresh produced no table")
	}
	s.news.Store(t)
	return t, nil
}
