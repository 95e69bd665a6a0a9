// Package scoring turns raw regional indicators into normalized sub-scores, a
// weighted composite score with a rating band, and a compound ROI projection.
// Everything here is pure: no I/O, no shared mutable state.
package scoring

import (
	"encoding/json"
	"fmt"
	"math"
)

// IndicatorKind names a raw indicator that can be normalized to 0-100.
type IndicatorKind string

const (
	Vegetation     IndicatorKind = "vegetation"
	Precipitation  IndicatorKind = "precipitation"
	SoilMoisture   IndicatorKind = "soil_moisture"
	NO2            IndicatorKind = "no2"
	CO             IndicatorKind = "co"
	SO2            IndicatorKind = "so2"
	O3             IndicatorKind = "o3"
	PM25           IndicatorKind = "pm25"
	Temperature    IndicatorKind = "temperature"
	NightLight     IndicatorKind = "night_light"
	SolarRadiation IndicatorKind = "solar_radiation"
	Poverty        IndicatorKind = "poverty"
)

// RiskLevel selects both the weight profile and the base return rate.
type RiskLevel string

const (
	Conservative RiskLevel = "conservative"
	Moderate     RiskLevel = "moderate"
	High         RiskLevel = "high"
)

// Valid reports whether r is one of the known risk levels.
func (r RiskLevel) Valid() bool {
	switch r {
	case Conservative, Moderate, High:
		return true
	}
	return false
}

// Pollutants holds column densities / concentrations in source units:
// NO2 and SO2 in µmol/m², CO in mol/m², O3 in Dobson units, PM2.5 in µg/m³.
type Pollutants struct {
	NO2  float64 `json:"no2"`
	CO   float64 `json:"co"`
	SO2  float64 `json:"so2"`
	O3   float64 `json:"o3"`
	PM25 float64 `json:"pm25"`
}

// PovertyScale declares the unit of a poverty index value.
type PovertyScale string

const (
	// PovertyPercent is a 0-100 index, normalized by clamping.
	PovertyPercent PovertyScale = "percent"
	// PovertyModel20 is the regression's native ~0-20 scale, rescaled by x/20*100.
	PovertyModel20 PovertyScale = "model20"
)

// NeutralPovertyScore substitutes for an unavailable poverty index.
const NeutralPovertyScore = 50.0

// PovertyIndex is either a numeric prediction with a declared scale or an
// explicit unavailable marker carrying the reason. It is never NaN.
type PovertyIndex struct {
	Value     float64
	Scale     PovertyScale
	Available bool
	Reason    string
}

// PovertyValue returns an available index on the given scale.
func PovertyValue(v float64, scale PovertyScale) PovertyIndex {
	if scale == "" {
		scale = PovertyPercent
	}
	if math.IsNaN(v) {
		return PovertyUnavailable("Prediction error")
	}
	return PovertyIndex{Value: v, Scale: scale, Available: true}
}

// PovertyUnavailable returns the unavailable marker.
func PovertyUnavailable(reason string) PovertyIndex {
	if reason == "" {
		reason = "unavailable"
	}
	return PovertyIndex{Reason: reason}
}

// MarshalJSON writes the number when available, otherwise the reason string.
// A zero PovertyIndex reads as "unavailable".
func (p PovertyIndex) MarshalJSON() ([]byte, error) {
	if p.Available {
		return json.Marshal(p.Value)
	}
	if p.Reason == "" {
		return json.Marshal(PovertyUnavailable("").Reason)
	}
	return json.Marshal(p.Reason)
}

// UnmarshalJSON accepts a number (percent scale), a string marker, null, or
// an object {"value": n, "scale": "percent"|"model20", "reason": "..."}.
func (p *PovertyIndex) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*p = PovertyUnavailable("")
	case float64:
		*p = PovertyValue(v, PovertyPercent)
	case string:
		*p = PovertyUnavailable(v)
	case map[string]any:
		return p.fromObject(v)
	default:
		return fmt.Errorf("poverty index: unsupported value %s", string(b))
	}
	return nil
}

func (p *PovertyIndex) fromObject(m map[string]any) error {
	scale := PovertyPercent
	switch s := m["scale"].(type) {
	case nil:
	case string:
		switch PovertyScale(s) {
		case PovertyPercent, PovertyModel20:
			scale = PovertyScale(s)
		default:
			return fmt.Errorf("poverty index: unknown scale %q", s)
		}
	default:
		return fmt.Errorf("poverty index: scale must be a string")
	}
	switch v := m["value"].(type) {
	case float64:
		*p = PovertyValue(v, scale)
	case nil:
		reason, _ := m["reason"].(string)
		*p = PovertyUnavailable(reason)
	default:
		return fmt.Errorf("poverty index: value must be a number or null")
	}
	return nil
}

// RegionIndicators is the per-request bundle of raw readings for one region.
// Missing lists the indicators the data source could not provide; their
// fields hold 0.
type RegionIndicators struct {
	VegetationIndex     float64         `json:"vegetation_index"`
	PrecipitationMm     float64         `json:"precipitation_mm"`
	SoilMoistureDb      float64         `json:"soil_moisture_db"`
	Pollutants          Pollutants      `json:"pollutants"`
	LandSurfaceTempC    float64         `json:"land_surface_temp_c"`
	NightLightRadiance  float64         `json:"night_light_radiance"`
	SolarRadiationSum   float64         `json:"solar_radiation_sum"`
	PovertyIndex        PovertyIndex    `json:"poverty_index"`
	InfrastructureLabel string          `json:"infrastructure"`
	Missing             []IndicatorKind `json:"missing,omitempty"`
}

// Value returns the raw reading for kind. Poverty and unknown kinds return 0.
func (r RegionIndicators) Value(kind IndicatorKind) float64 {
	switch kind {
	case Vegetation:
		return r.VegetationIndex
	case Precipitation:
		return r.PrecipitationMm
	case SoilMoisture:
		return r.SoilMoistureDb
	case NO2:
		return r.Pollutants.NO2
	case CO:
		return r.Pollutants.CO
	case SO2:
		return r.Pollutants.SO2
	case O3:
		return r.Pollutants.O3
	case PM25:
		return r.Pollutants.PM25
	case Temperature:
		return r.LandSurfaceTempC
	case NightLight:
		return r.NightLightRadiance
	case SolarRadiation:
		return r.SolarRadiationSum
	}
	return 0
}

// IsMissing reports whether kind was not observed.
func (r RegionIndicators) IsMissing(kind IndicatorKind) bool {
	for _, k := range r.Missing {
		if k == kind {
			return true
		}
	}
	return false
}

// ScoreBreakdown is the aggregator output. Sub-scores are rounded to one
// decimal; the composite is computed from unrounded sub-scores.
type ScoreBreakdown struct {
	EnvironmentalScore       float64                   `json:"environmental_score"`
	PovertyScore             float64                   `json:"poverty_score"`
	CostBenefitScore         float64                   `json:"cost_benefit_score"`
	CompositeScore           float64                   `json:"composite_score"`
	Rating                   Rating                    `json:"rating"`
	RiskLevel                RiskLevel                 `json:"risk_level"`
	Weights                  WeightProfile             `json:"weights"`
	Infrastructure           string                    `json:"infrastructure"`
	InfrastructureCostRating float64                   `json:"infrastructure_cost_rating"`
	Components               map[IndicatorKind]float64 `json:"components"`
	Completeness             float64                   `json:"completeness"`
	Substitutions            []string                  `json:"substitutions,omitempty"`
}

// ROIProjection is the projector output; all values rounded to 2 decimals.
type ROIProjection struct {
	AnnualReturnRatePct float64 `json:"annual_return_rate_pct"`
	TotalROIPct         float64 `json:"total_roi_pct"`
	TotalReturn         float64 `json:"total_return"`
	NetProfit           float64 `json:"net_profit"`
	ImplementationCost  float64 `json:"implementation_cost"`
}
