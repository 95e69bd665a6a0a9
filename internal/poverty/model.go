// Package poverty estimates a regional poverty index from night-light
// radiance and solar radiation with a fitted linear model.
package poverty

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/phuslu/log"

	"github.com/mind-engage/greenscore/internal/scoring"
)

// Markers reported in place of a number.
const (
	ReasonNoModel = "Model not available"
	ReasonPredict = "Prediction error"
)

var ErrNonFinite = errors.New("poverty: prediction is not finite")

// Model predicts a poverty index from the two covariates.
type Model interface {
	Predict(nightLight, daylight float64) (float64, error)
	Scale() scoring.PovertyScale
}

// Linear is intercept + NightLight*nl + Daylight*dl.
type Linear struct {
	Intercept  float64              `toml:"intercept"`
	NightLight float64              `toml:"night_light"`
	Daylight   float64              `toml:"daylight"`
	Unit       scoring.PovertyScale `toml:"scale"`
}

func (m *Linear) Predict(nl, dl float64) (float64, error) {
	v := m.Intercept + m.NightLight*nl + m.Daylight*dl
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNonFinite
	}
	return v, nil
}

func (m *Linear) Scale() scoring.PovertyScale {
	if m.Unit == "" {
		return scoring.PovertyPercent
	}
	return m.Unit
}

// LoadLinear reads coefficients from a TOML file.
func LoadLinear(path string) (*Linear, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("poverty: read model: %w", err)
	}
	var m Linear
	if err := toml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("poverty: parse model: %w", err)
	}
	switch m.Scale() {
	case scoring.PovertyPercent, scoring.PovertyModel20:
	default:
		return nil, fmt.Errorf("poverty: unknown scale %q", m.Unit)
	}
	return &m, nil
}

// Load returns the model at path, or nil when it cannot be loaded. A nil
// model makes every estimate unavailable.
func Load(path string) Model {
	if path == "" {
		log.Warn().Msg("poverty model path not set")
		return nil
	}
	m, err := LoadLinear(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("poverty model not loaded")
		return nil
	}
	return m
}

// Estimate runs model on the covariates. The result is rounded to two
// decimals and tagged with the model's scale.
func Estimate(model Model, nightLight, daylight float64) scoring.PovertyIndex {
	if model == nil {
		return scoring.PovertyUnavailable(ReasonNoModel)
	}
	v, err := model.Predict(nightLight, daylight)
	if err != nil {
		log.Warn().Err(err).Msg("poverty prediction failed")
		return scoring.PovertyUnavailable(ReasonPredict)
	}
	return scoring.PovertyValue(math.Round(v*100)/100, model.Scale())
}
