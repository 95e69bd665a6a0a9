package poverty

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/greenscore/internal/scoring"
)

func writeModel(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "poverty.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadLinear(t *testing.T) {
	path := writeModel(t, `
intercept = 14.2
night_light = -0.35
daylight = 0.0000001
scale = "model20"
`)
	m, err := LoadLinear(path)
	require.NoError(t, err)
	assert.Equal(t, 14.2, m.Intercept)
	assert.Equal(t, scoring.PovertyModel20, m.Scale())

	p := Estimate(m, 10, 20000000)
	assert.True(t, p.Available)
	assert.Equal(t, scoring.PovertyModel20, p.Scale)
	// 14.2 - 3.5 + 2.0
	assert.Equal(t, 12.7, p.Value)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	_, err := LoadLinear(writeModel(t, `intercept = "lots"`))
	assert.Error(t, err)

	_, err = LoadLinear(writeModel(t, "intercept = 1\nscale = \"decile\""))
	assert.Error(t, err)

	_, err = LoadLinear(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	assert.Nil(t, Load(""))
	assert.Nil(t, Load(filepath.Join(t.TempDir(), "missing.toml")))
}

func TestDefaultScaleIsPercent(t *testing.T) {
	m, err := LoadLinear(writeModel(t, "intercept = 30.456"))
	require.NoError(t, err)

	p := Estimate(m, 0, 0)
	assert.Equal(t, scoring.PovertyPercent, p.Scale)
	assert.Equal(t, 30.46, p.Value)
}

type failingModel struct{}

func (failingModel) Predict(float64, float64) (float64, error) { return 0, errors.New("boom") }
func (failingModel) Scale() scoring.PovertyScale               { return scoring.PovertyPercent }

func TestEstimateMarkers(t *testing.T) {
	p := Estimate(nil, 1, 1)
	assert.False(t, p.Available)
	assert.Equal(t, ReasonNoModel, p.Reason)

	p = Estimate(failingModel{}, 1, 1)
	assert.False(t, p.Available)
	assert.Equal(t, ReasonPredict, p.Reason)

	p = Estimate(&Linear{Intercept: math.Inf(1)}, 0, 0)
	assert.False(t, p.Available)
	assert.Equal(t, ReasonPredict, p.Reason)
}
