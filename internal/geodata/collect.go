package geodata

import (
	"context"
	"math"
	"time"

	"github.com/phuslu/log"

	"github.com/mind-engage/greenscore/internal/scoring"
)

// Window is a closed date range for a reduction.
type Window struct {
	Start, End time.Time
}

// TrailingYear is the 365 days ending at now.
func TrailingYear(now time.Time) Window {
	end := now.UTC().Truncate(24 * time.Hour)
	return Window{Start: end.AddDate(0, 0, -365), End: end}
}

// CovariateWindow is the fixed window the poverty regression was fitted on:
// the 60 days before 2024-01-01.
func CovariateWindow() Window {
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: end.AddDate(0, 0, -60), End: end}
}

// bandSpec ties a band to the indicator it feeds and the unit conversion
// applied to the reducer's raw mean.
type bandSpec struct {
	kind    scoring.IndicatorKind
	band    Band
	buffer  float64
	scale   float64
	convert func(float64) float64
}

func roundTo(places int) func(float64) float64 {
	p := math.Pow(10, float64(places))
	return func(v float64) float64 { return math.Round(v*p) / p }
}

func scaled(factor float64, places int) func(float64) float64 {
	r := roundTo(places)
	return func(v float64) float64 { return r(v * factor) }
}

var (
	landBands = []bandSpec{
		{scoring.Vegetation, BandNDVI, 10000, 250, scaled(0.0001, 2)},
		{scoring.Precipitation, BandPrecipitation, 0, 500, roundTo(1)},
		{scoring.SoilMoisture, BandVV, 0, 500, roundTo(3)},
	}
	airBands = []bandSpec{
		{scoring.NO2, BandNO2, 10000, 1000, scaled(1e6, 3)},     // µmol/m²
		{scoring.CO, BandCO, 10000, 1000, scaled(1000, 3)},      // mol/m² x1000
		{scoring.SO2, BandSO2, 10000, 1000, scaled(1e6, 3)},     // µmol/m²
		{scoring.O3, BandO3, 10000, 1000, scaled(1/2241.15, 3)}, // Dobson units
	}
	lstBand = bandSpec{scoring.Temperature, BandLST, 10000, 1000, func(v float64) float64 {
		return roundTo(2)(v*0.02 - 273.15)
	}}
	pm25Band = bandSpec{scoring.PM25, BandPM25, 10000, 1000, roundTo(1)}
	aodBand  = bandSpec{scoring.PM25, BandAOD, 10000, 1000, scaled(10, 1)}

	covariateBands = []bandSpec{
		{scoring.NightLight, BandNightLight, 6000, 500, func(v float64) float64 { return v }},
		{scoring.SolarRadiation, BandSolar, 6000, 1000, func(v float64) float64 { return v }},
	}
)

// Collector gathers indicator bundles from a Provider.
type Collector struct {
	Provider Provider
	Now      func() time.Time
}

func NewCollector(p Provider) *Collector {
	return &Collector{Provider: p, Now: time.Now}
}

// fetch returns the converted value or ok=false. Errors are logged and
// treated as no observation.
func (c *Collector) fetch(ctx context.Context, s bandSpec, lat, lon float64, w Window) (float64, bool) {
	v, err := c.Provider.Fetch(ctx, Query{
		Band: s.band, Lat: lat, Lon: lon,
		Start: w.Start, End: w.End,
		BufferMeters: s.buffer, ScaleMeters: s.scale,
	})
	if err != nil {
		log.Warn().Err(err).Str("band", string(s.band)).Msg("geodata fetch failed")
		return 0, false
	}
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return s.convert(*v), true
}

// Collect fetches land, air-quality and temperature indicators over the
// trailing year, restricted to kinds when any are given. Unobserved
// indicators are 0 and listed in Missing. Poverty and infrastructure are
// filled in by the caller.
func (c *Collector) Collect(ctx context.Context, lat, lon float64, kinds ...scoring.IndicatorKind) scoring.RegionIndicators {
	w := TrailingYear(c.Now())
	var ind scoring.RegionIndicators
	want := func(k scoring.IndicatorKind) bool {
		if len(kinds) == 0 {
			return true
		}
		for _, x := range kinds {
			if x == k {
				return true
			}
		}
		return false
	}

	set := func(k scoring.IndicatorKind, v float64) {
		switch k {
		case scoring.Vegetation:
			ind.VegetationIndex = v
		case scoring.Precipitation:
			ind.PrecipitationMm = v
		case scoring.SoilMoisture:
			ind.SoilMoistureDb = v
		case scoring.NO2:
			ind.Pollutants.NO2 = v
		case scoring.CO:
			ind.Pollutants.CO = v
		case scoring.SO2:
			ind.Pollutants.SO2 = v
		case scoring.O3:
			ind.Pollutants.O3 = v
		case scoring.PM25:
			ind.Pollutants.PM25 = v
		case scoring.Temperature:
			ind.LandSurfaceTempC = v
		}
	}

	specs := append(append([]bandSpec{}, landBands...), airBands...)
	specs = append(specs, lstBand)
	for _, s := range specs {
		if !want(s.kind) {
			continue
		}
		if ctx.Err() != nil {
			ind.Missing = append(ind.Missing, s.kind)
			continue
		}
		v, ok := c.fetch(ctx, s, lat, lon, w)
		if !ok {
			ind.Missing = append(ind.Missing, s.kind)
			continue
		}
		set(s.kind, v)
	}

	if !want(scoring.PM25) {
		return ind
	}
	// GEOS-CF PM2.5 when present, otherwise the AOD estimate.
	if v, ok := c.fetch(ctx, pm25Band, lat, lon, w); ok {
		set(scoring.PM25, v)
	} else if v, ok := c.fetch(ctx, aodBand, lat, lon, w); ok {
		set(scoring.PM25, v)
	} else {
		ind.Missing = append(ind.Missing, scoring.PM25)
	}
	return ind
}

// Covariates are the poverty-model inputs.
type Covariates struct {
	NightLight     float64
	SolarRadiation float64
	Missing        []scoring.IndicatorKind
}

// Covariates fetches night-light radiance and solar radiation over
// CovariateWindow. Unobserved values are 0.
func (c *Collector) Covariates(ctx context.Context, lat, lon float64) Covariates {
	w := CovariateWindow()
	var out Covariates
	for _, s := range covariateBands {
		v, ok := c.fetch(ctx, s, lat, lon, w)
		if !ok {
			out.Missing = append(out.Missing, s.kind)
			continue
		}
		switch s.kind {
		case scoring.NightLight:
			out.NightLight = v
		case scoring.SolarRadiation:
			out.SolarRadiation = v
		}
	}
	return out
}
