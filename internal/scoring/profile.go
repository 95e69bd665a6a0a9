package scoring

import (
	"errors"
	"fmt"
	"math"
)

const weightTolerance = 0.001

// WeightProfile weights the three top-level sub-scores. Weights sum to 1.
type WeightProfile struct {
	Poverty       float64 `json:"poverty"`
	Environmental float64 `json:"environmental"`
	Cost          float64 `json:"cost"`
}

// Sum returns the total of all weights.
func (w WeightProfile) Sum() float64 { return w.Poverty + w.Environmental + w.Cost }

// Validate checks that weights are non-negative and sum to 1.
func (w WeightProfile) Validate() error {
	if w.Poverty < 0 || w.Environmental < 0 || w.Cost < 0 {
		return fmt.Errorf("negative weight in %+v", w)
	}
	if math.Abs(w.Sum()-1) > weightTolerance {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	return nil
}

// RiskProfiles are the per-risk-level weights of the investment variant.
func RiskProfiles() map[RiskLevel]WeightProfile {
	return map[RiskLevel]WeightProfile{
		Conservative: {Poverty: 0.3, Environmental: 0.3, Cost: 0.4},
		Moderate:     {Poverty: 0.4, Environmental: 0.3, Cost: 0.3},
		High:         {Poverty: 0.5, Environmental: 0.3, Cost: 0.2},
	}
}

// FixedWeights is used where risk profiles are not exposed.
func FixedWeights() WeightProfile {
	return WeightProfile{Poverty: 0.4, Environmental: 0.4, Cost: 0.2}
}

// WeightScheme resolves a WeightProfile for a risk level. When Fixed is set
// the risk level does not affect the weights.
type WeightScheme struct {
	ByRisk map[RiskLevel]WeightProfile
	Fixed  *WeightProfile
}

// For returns the profile for r; unknown levels use Moderate.
func (s WeightScheme) For(r RiskLevel) WeightProfile {
	if s.Fixed != nil {
		return *s.Fixed
	}
	if w, ok := s.ByRisk[r]; ok {
		return w
	}
	return s.ByRisk[Moderate]
}

func (s WeightScheme) validate() error {
	if s.Fixed != nil {
		return s.Fixed.Validate()
	}
	for _, r := range []RiskLevel{Conservative, Moderate, High} {
		w, ok := s.ByRisk[r]
		if !ok {
			return fmt.Errorf("no weights for risk level %q", r)
		}
		if err := w.Validate(); err != nil {
			return fmt.Errorf("%s: %w", r, err)
		}
	}
	return nil
}

// IndicatorWeight is one term of an environmental score.
type IndicatorWeight struct {
	Kind   IndicatorKind `json:"kind"`
	Weight float64       `json:"weight"`
}

// EnvironmentProfile defines the environmental sub-score as a weighted sum of
// normalized indicators.
type EnvironmentProfile struct {
	Name  string            `json:"name"`
	Terms []IndicatorWeight `json:"terms"`
}

// Validate checks the terms are non-empty, non-negative and sum to 1.
func (p EnvironmentProfile) Validate() error {
	if len(p.Terms) == 0 {
		return fmt.Errorf("environment profile %q has no terms", p.Name)
	}
	sum := 0.0
	for _, t := range p.Terms {
		if t.Weight < 0 {
			return fmt.Errorf("environment profile %q: negative weight for %s", p.Name, t.Kind)
		}
		sum += t.Weight
	}
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("environment profile %q: weights sum to %.4f, must sum to 1.0", p.Name, sum)
	}
	return nil
}

// Kinds lists the indicators the profile reads.
func (p EnvironmentProfile) Kinds() []IndicatorKind {
	out := make([]IndicatorKind, len(p.Terms))
	for i, t := range p.Terms {
		out[i] = t.Kind
	}
	return out
}

// LandEqual weights vegetation, precipitation and soil moisture equally.
func LandEqual() EnvironmentProfile {
	return EnvironmentProfile{Name: "land-equal", Terms: []IndicatorWeight{
		{Vegetation, 1.0 / 3}, {Precipitation, 1.0 / 3}, {SoilMoisture, 1.0 / 3},
	}}
}

// LandWeighted favors vegetation (0.5) over precipitation (0.3) and soil moisture (0.2).
func LandWeighted() EnvironmentProfile {
	return EnvironmentProfile{Name: "land-weighted", Terms: []IndicatorWeight{
		{Vegetation, 0.5}, {Precipitation, 0.3}, {SoilMoisture, 0.2},
	}}
}

// AirQuality averages the NO2, CO and SO2 sub-scores.
func AirQuality() EnvironmentProfile {
	return EnvironmentProfile{Name: "air-quality", Terms: []IndicatorWeight{
		{NO2, 1.0 / 3}, {CO, 1.0 / 3}, {SO2, 1.0 / 3},
	}}
}

// SolarSite scores NO2 and land-surface temperature for solar panel siting.
func SolarSite() EnvironmentProfile {
	return EnvironmentProfile{Name: "solar-site", Terms: []IndicatorWeight{
		{NO2, 0.5}, {Temperature, 0.5},
	}}
}

// Rating is a qualitative band label.
type Rating string

// RatingLabels are five labels ordered from the lowest band to the highest.
type RatingLabels [5]Rating

// QualityLabels frame the score as environmental quality.
func QualityLabels() RatingLabels {
	return RatingLabels{"Very Poor", "Poor", "Moderate", "Good", "Excellent"}
}

// AttractivenessLabels frame the score as investment attractiveness.
func AttractivenessLabels() RatingLabels {
	return RatingLabels{"Very Low", "Low", "Medium", "High", "Very High"}
}

// Band thresholds; each lower bound is inclusive.
var bandThresholds = [4]float64{20, 40, 60, 80}

// Rate maps a 0-100 score to its band label.
func (l RatingLabels) Rate(score float64) Rating {
	band := 0
	for i, th := range bandThresholds {
		if score >= th {
			band = i + 1
		}
	}
	return l[band]
}

// Config wires one scoring variant: how the environmental sub-score is built,
// how sub-scores are weighted, which cost table feeds cost efficiency, and
// which labels describe the result.
type Config struct {
	Environment EnvironmentProfile
	Weights     WeightScheme
	Costs       CostTable // cost-efficiency factor
	Ratings     CostTable // implementation cost for ROI
	Labels      RatingLabels
}

// Validate checks every part of the configuration.
func (c Config) Validate() error {
	if err := c.Environment.Validate(); err != nil {
		return err
	}
	if err := c.Weights.validate(); err != nil {
		return err
	}
	if c.Costs.Max() <= 0 || c.Ratings.Max() <= 0 {
		return errors.New("cost tables must have a positive maximum")
	}
	for _, l := range c.Labels {
		if l == "" {
			return errors.New("rating labels must not be empty")
		}
	}
	return nil
}

// InvestmentConfig is the risk-profiled investment attractiveness variant.
func InvestmentConfig() Config {
	return Config{
		Environment: LandEqual(),
		Weights:     WeightScheme{ByRisk: RiskProfiles()},
		Costs:       InfrastructureCosts(),
		Ratings:     InfrastructureRatings(),
		Labels:      AttractivenessLabels(),
	}
}

// FixedWeightConfig is the variant without risk-dependent weights.
func FixedWeightConfig() Config {
	fixed := FixedWeights()
	c := InvestmentConfig()
	c.Weights = WeightScheme{Fixed: &fixed}
	return c
}

// EnvironmentalConfig scores environmental quality only, with quality labels.
func EnvironmentalConfig(env EnvironmentProfile) Config {
	c := InvestmentConfig()
	c.Environment = env
	c.Labels = QualityLabels()
	return c
}
