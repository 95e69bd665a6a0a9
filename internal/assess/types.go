package assess

import (
	"github.com/mind-engage/greenscore/internal/region"
	"github.com/mind-engage/greenscore/internal/scoring"
)

// InfrastructureReport is the province overview response.
type InfrastructureReport struct {
	Province        string                  `json:"province"`
	Infrastructure  string                  `json:"infrastructure"`
	RenewableEnergy string                  `json:"renewable_energy"`
	PovertyIndex    scoring.PovertyIndex    `json:"poverty_index"`
	NDVI            float64                 `json:"ndvi"`
	Precipitation   float64                 `json:"precipitation"`
	Sentinel        float64                 `json:"sentinel"`
	NO2             float64                 `json:"no2"`
	CO              float64                 `json:"co"`
	SO2             float64                 `json:"so2"`
	O3              float64                 `json:"o3"`
	PM25            float64                 `json:"pm25"`
	Missing         []scoring.IndicatorKind `json:"missing,omitempty"`
}

// Reading is one scored indicator in an environmental report.
type Reading struct {
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
	Score  float64 `json:"score"`
	Impact string  `json:"impact,omitempty"`
}

// EnvironmentalReport is a subdistrict environmental score.
type EnvironmentalReport struct {
	District             string             `json:"district"`
	Subdistrict          string             `json:"subdistrict"`
	Score                float64            `json:"environmental_score"`
	Rating               scoring.Rating     `json:"environmental_rating"`
	Completeness         float64            `json:"completeness"`
	SolarPanelEfficiency string             `json:"solar_panel_efficiency,omitempty"`
	Data                 map[string]Reading `json:"environmental_data"`
}

// Assessment is a full investment scoring of one region.
type Assessment struct {
	Region     string                       `json:"region,omitempty"`
	Title      string                       `json:"title,omitempty"`
	RunID      string                       `json:"run_id,omitempty"`
	Period     string                       `json:"period,omitempty"`
	Indicators scoring.RegionIndicators     `json:"indicators"`
	Breakdown  scoring.ScoreBreakdown       `json:"breakdown"`
	Projection scoring.ROIProjection        `json:"roi"`
	Parameters scoring.InvestmentParameters `json:"parameters"`
}

var units = map[scoring.IndicatorKind]string{
	scoring.Vegetation:    "index",
	scoring.Precipitation: "mm",
	scoring.SoilMoisture:  "dB",
	scoring.NO2:           "μmol/m²",
	scoring.CO:            "mol/m²",
	scoring.SO2:           "μmol/m²",
	scoring.O3:            "DU",
	scoring.PM25:          "μg/m³",
	scoring.Temperature:   "°C",
}

func readingKey(k scoring.IndicatorKind) string {
	if k == scoring.Temperature {
		return "lst"
	}
	return string(k)
}

func solarImpact(m region.Model, k scoring.IndicatorKind) string {
	if m != region.ModelSolarSite {
		return ""
	}
	switch k {
	case scoring.NO2:
		return "Air pollution can reduce panel efficiency through particle deposition"
	case scoring.Temperature:
		return "Higher temperatures reduce solar panel efficiency by ~0.5% per °C above 25°C"
	}
	return ""
}

// SolarInsight summarizes solar-panel conditions from land-surface
// temperature (°C) and NO2 (µmol/m²).
func SolarInsight(tempC, no2 float64) string {
	switch {
	case tempC > 35:
		return "Reduced due to high temperatures"
	case no2 > 60:
		return "May be affected by air pollution deposits"
	default:
		return "Favorable conditions"
	}
}
