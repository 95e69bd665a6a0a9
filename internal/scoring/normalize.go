package scoring

import "math"

// Pollutant ceilings: the reading at which a pollutant sub-score reaches 0.
const (
	MaxNO2 = 100.0 // µmol/m²
	MaxCO  = 60.0  // mol/m²
	MaxSO2 = 400.0 // µmol/m²
)

// Temperature curve: peak at OptimalTempC, 0 at ±15°C.
const (
	OptimalTempC      = 25.0
	tempPenaltyPerDeg = 100.0 / 15.0
)

// Precipitation band (mm) that scores 100.
const (
	precipIdealLow  = 50.0
	precipIdealHigh = 200.0
)

// Soil-moisture radar backscatter range (dB).
const (
	soilDryDb = -20.0
	soilWetDb = 0.0
)

// NormalizeIndicator maps a raw reading to a 0-100 goodness sub-score.
// It never fails: NaN is treated as 0 and results are clamped. Kinds without
// a curve (O3, PM2.5, night lights, solar radiation) score 0.
func NormalizeIndicator(kind IndicatorKind, raw float64) float64 {
	if math.IsNaN(raw) {
		raw = 0
	}
	switch kind {
	case Vegetation:
		return NormalizeVegetation(raw)
	case Precipitation:
		return NormalizePrecipitation(raw)
	case SoilMoisture:
		return NormalizeSoilMoisture(raw)
	case NO2:
		return NormalizePollutant(raw, MaxNO2)
	case CO:
		return NormalizePollutant(raw, MaxCO)
	case SO2:
		return NormalizePollutant(raw, MaxSO2)
	case Temperature:
		return NormalizeTemperature(raw)
	case Poverty:
		return NormalizePoverty(PovertyValue(raw, PovertyPercent))
	}
	return 0
}

// NormalizeVegetation scales an index in [0,1] to [0,100].
func NormalizeVegetation(v float64) float64 {
	return Clamp(v*100, 0, 100)
}

// NormalizePrecipitation rises linearly to 100 at 50mm, stays at 100 through
// 200mm, then decays by 50 points per 100mm (0 at 400mm).
func NormalizePrecipitation(mm float64) float64 {
	switch {
	case mm < precipIdealLow:
		return Clamp(mm/precipIdealLow*100, 0, 100)
	case mm <= precipIdealHigh:
		return 100
	default:
		return Clamp(100-(mm-precipIdealHigh)/100*50, 0, 100)
	}
}

// NormalizeSoilMoisture interpolates -20dB..0dB to 0..100.
func NormalizeSoilMoisture(db float64) float64 {
	switch {
	case db < soilDryDb:
		return 0
	case db > soilWetDb:
		return 100
	}
	return Clamp((db-soilDryDb)/(soilWetDb-soilDryDb)*100, 0, 100)
}

// NormalizePollutant is inverse-linear: 0 scores 100, maxExpected or more scores 0.
func NormalizePollutant(v, maxExpected float64) float64 {
	if maxExpected <= 0 {
		return 0
	}
	return Clamp(100*(1-v/maxExpected), 0, 100)
}

// NormalizeTemperature peaks at 25°C with a linear falloff.
func NormalizeTemperature(c float64) float64 {
	return Clamp(100-math.Abs(c-OptimalTempC)*tempPenaltyPerDeg, 0, 100)
}

// NormalizePoverty converts a poverty index to a "need" score following its
// declared scale. Unavailable indices score NeutralPovertyScore.
func NormalizePoverty(p PovertyIndex) float64 {
	if !p.Available || math.IsNaN(p.Value) {
		return NeutralPovertyScore
	}
	if p.Scale == PovertyModel20 {
		return Clamp(p.Value/20*100, 0, 100)
	}
	return Clamp(p.Value, 0, 100)
}

// Clamp constrains v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
