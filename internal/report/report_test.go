package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/greenscore/internal/assess"
	"github.com/mind-engage/greenscore/internal/scoring"
	"github.com/mind-engage/greenscore/internal/storage"
)

func sample() assess.Assessment {
	ind := scoring.RegionIndicators{
		VegetationIndex:     0.6,
		PrecipitationMm:     120,
		PovertyIndex:        scoring.PovertyUnavailable("Model not available"),
		InfrastructureLabel: scoring.SolarPanel,
		Missing:             []scoring.IndicatorKind{scoring.SoilMoisture},
	}
	p := scoring.InvestmentParameters{RiskLevel: scoring.Moderate, Amount: 50000, Term: 10}
	b := scoring.AggregateScore(ind, p.RiskLevel)
	return assess.Assessment{
		Region:     "jakarta pusat",
		Title:      "Jakarta Pusat",
		RunID:      "run-7",
		Period:     "2025-03-01/2026-03-01",
		Indicators: ind,
		Breakdown:  b,
		Projection: scoring.ProjectROI(b, p.Amount, p.Term, p.RiskLevel),
		Parameters: p,
	}
}

func TestMarkdown(t *testing.T) {
	out := Markdown(sample())

	assert.Contains(t, out, "# Green investment score: Jakarta Pusat")
	assert.Contains(t, out, "run `run-7`")
	assert.Contains(t, out, "| soil_moisture | missing |")
	assert.Contains(t, out, "| Term (years) | 10 |")
	assert.Contains(t, out, "## Substituted values")
	assert.Contains(t, out, "Infrastructure: **Solar Panel**")
}

func TestHTMLRendersTables(t *testing.T) {
	page, err := HTML(sample())
	require.NoError(t, err)

	s := string(page)
	assert.True(t, strings.HasPrefix(s, "<!doctype html>"))
	assert.Contains(t, s, "<title>Jakarta Pusat</title>")
	assert.Contains(t, s, "<table>")
	assert.Contains(t, s, "<h2>Return projection</h2>")
}

func TestArchiver(t *testing.T) {
	fs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	ar := NewArchiver(fs)

	a := sample()
	key, err := ar.Archive(a)
	require.NoError(t, err)
	assert.Equal(t, "reports/jakarta-pusat/run-7.html", key)

	a.RunID = ""
	_, err = ar.Archive(a)
	require.NoError(t, err)

	keys, err := ar.List("Jakarta Pusat")
	require.NoError(t, err)
	assert.Equal(t, []string{"reports/jakarta-pusat/latest.html", "reports/jakarta-pusat/run-7.html"}, keys)

	page, err := ar.Open(key)
	require.NoError(t, err)
	assert.Contains(t, string(page), "Jakarta Pusat")
}
