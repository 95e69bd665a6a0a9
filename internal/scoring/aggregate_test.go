package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleIndicators() RegionIndicators {
	return RegionIndicators{
		VegetationIndex:     0.6,
		PrecipitationMm:     120,
		SoilMoistureDb:      -8,
		PovertyIndex:        PovertyValue(45, PovertyPercent),
		InfrastructureLabel: SolarPanel,
	}
}

func TestAggregateExampleScenario(t *testing.T) {
	e := MustEngine(FixedWeightConfig())

	b := e.Aggregate(exampleIndicators(), Moderate)

	assert.Equal(t, 73.3, b.EnvironmentalScore)
	assert.Equal(t, 45.0, b.PovertyScore)
	assert.Equal(t, 29.4, b.CostBenefitScore)
	assert.Equal(t, 53.2, b.CompositeScore)
	assert.Equal(t, Rating("Medium"), b.Rating)
	assert.Equal(t, 65.0, b.InfrastructureCostRating)
	assert.Equal(t, 1.0, b.Completeness)
	assert.Empty(t, b.Substitutions)
	assert.Equal(t, 60.0, b.Components[Vegetation])
	assert.Equal(t, 100.0, b.Components[Precipitation])
	assert.Equal(t, 60.0, b.Components[SoilMoisture])
}

func TestComposeModerateUniformScores(t *testing.T) {
	e := MustEngine(InvestmentConfig())

	score, rating := e.Compose(80, 80, 80, Moderate)

	assert.Equal(t, 80.0, score)
	assert.Equal(t, Rating("Very High"), rating)
}

func TestAggregateRiskProfilesChangeWeighting(t *testing.T) {
	e := MustEngine(InvestmentConfig())
	ind := exampleIndicators()

	cons := e.Aggregate(ind, Conservative)
	mod := e.Aggregate(ind, Moderate)
	high := e.Aggregate(ind, High)

	// poverty 45, env 73.3, cost 29.4
	assert.Equal(t, 47.3, cons.CompositeScore)
	assert.Equal(t, 48.8, mod.CompositeScore)
	assert.Equal(t, 50.4, high.CompositeScore)
	assert.Equal(t, RiskProfiles()[High], high.Weights)
}

func TestAggregateInvalidRiskUsesModerate(t *testing.T) {
	e := MustEngine(InvestmentConfig())

	b := e.Aggregate(exampleIndicators(), RiskLevel("yolo"))

	assert.Equal(t, Moderate, b.RiskLevel)
	assert.Equal(t, 48.8, b.CompositeScore)
}

func TestAggregateUnavailablePoverty(t *testing.T) {
	e := MustEngine(InvestmentConfig())
	ind := exampleIndicators()
	ind.PovertyIndex = PovertyUnavailable("Model not available")

	b := e.Aggregate(ind, Moderate)

	assert.Equal(t, 50.0, b.PovertyScore)
	assert.Contains(t, b.Substitutions, "poverty=50.0")
	assert.Less(t, b.Completeness, 1.0)
	assert.Greater(t, b.CompositeScore, 0.0)
}

func TestAggregateUnknownInfrastructure(t *testing.T) {
	e := MustEngine(InvestmentConfig())
	ind := exampleIndicators()
	ind.InfrastructureLabel = "Nuclear Fusion Park"

	b := e.Aggregate(ind, Moderate)

	assert.Equal(t, 50.0, b.CostBenefitScore)
	assert.Equal(t, 50.0, b.InfrastructureCostRating)
	assert.Contains(t, b.Substitutions, "infrastructure_cost=7.65")
}

func TestAggregateEmptyLabelReportsNotAvailable(t *testing.T) {
	b := AggregateScore(RegionIndicators{}, Moderate)

	assert.Equal(t, NotAvailable, b.Infrastructure)
	assert.Equal(t, 50.0, b.CostBenefitScore)
}

func TestAggregateMissingIndicatorsAreZeroAndFlagged(t *testing.T) {
	e := MustEngine(InvestmentConfig())
	ind := exampleIndicators()
	ind.PrecipitationMm = 0
	ind.Missing = []IndicatorKind{Precipitation}

	b := e.Aggregate(ind, Moderate)

	assert.Equal(t, 0.0, b.Components[Precipitation])
	assert.Equal(t, 40.0, b.EnvironmentalScore)
	assert.Contains(t, b.Substitutions, "precipitation=0")
	assert.InDelta(t, 0.8, b.Completeness, 1e-9)
}

func TestAggregateExtremeInputsStayInRange(t *testing.T) {
	e := MustEngine(InvestmentConfig())
	ind := RegionIndicators{
		VegetationIndex: 1e6,
		PrecipitationMm: -1e6,
		SoilMoistureDb:  1e6,
		PovertyIndex:    PovertyValue(1e9, PovertyModel20),
	}

	for _, r := range []RiskLevel{Conservative, Moderate, High} {
		b := e.Aggregate(ind, r)
		for _, v := range []float64{b.EnvironmentalScore, b.PovertyScore, b.CostBenefitScore, b.CompositeScore} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
	}
}

func TestRatingBands(t *testing.T) {
	tests := []struct {
		score   float64
		quality Rating
		invest  Rating
	}{
		{100, "Excellent", "Very High"},
		{80, "Excellent", "Very High"},
		{79.9, "Good", "High"},
		{60, "Good", "High"},
		{40, "Moderate", "Medium"},
		{20, "Poor", "Low"},
		{19.9, "Very Poor", "Very Low"},
		{0, "Very Poor", "Very Low"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.quality, QualityLabels().Rate(tt.score), "quality %v", tt.score)
		assert.Equal(t, tt.invest, AttractivenessLabels().Rate(tt.score), "attractiveness %v", tt.score)
	}
}

func TestEnvironmentalProfiles(t *testing.T) {
	ind := RegionIndicators{
		Pollutants:       Pollutants{NO2: 50, CO: 30, SO2: 200},
		LandSurfaceTempC: 25,
	}

	air := MustEngine(EnvironmentalConfig(AirQuality())).Environmental(ind)
	assert.Equal(t, 50.0, air.Score)
	assert.Equal(t, Rating("Moderate"), air.Rating)
	assert.Equal(t, 1.0, air.Completeness)

	solar := MustEngine(EnvironmentalConfig(SolarSite())).Environmental(ind)
	assert.Equal(t, 75.0, solar.Score)
	assert.Equal(t, Rating("Good"), solar.Rating)
	assert.Equal(t, 100.0, solar.Components[Temperature])
}

func TestConfigValidation(t *testing.T) {
	for name, cfg := range map[string]Config{
		"investment":    InvestmentConfig(),
		"fixed":         FixedWeightConfig(),
		"air":           EnvironmentalConfig(AirQuality()),
		"solar":         EnvironmentalConfig(SolarSite()),
		"land-weighted": EnvironmentalConfig(LandWeighted()),
	} {
		require.NoError(t, cfg.Validate(), name)
	}

	bad := InvestmentConfig()
	bad.Environment = EnvironmentProfile{Name: "clipped", Terms: []IndicatorWeight{{NO2, 0.3}, {Temperature, 0.3}}}
	_, err := NewEngine(bad)
	assert.Error(t, err)

	bad = InvestmentConfig()
	bad.Weights.ByRisk = map[RiskLevel]WeightProfile{Moderate: {Poverty: 0.4, Environmental: 0.3, Cost: 0.3}}
	_, err = NewEngine(bad)
	assert.Error(t, err)

	bad = InvestmentConfig()
	bad.Labels[2] = ""
	assert.Error(t, bad.Validate())
}
