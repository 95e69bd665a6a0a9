package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/greenscore/internal/config"
	"github.com/mind-engage/greenscore/internal/scoring"
)

func offlineConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DB_DSN", "file:"+filepath.Join(dir, "app.db")+"?mode=rwc")
	t.Setenv("BLOB_BASE_PATH", filepath.Join(dir, "blobs"))
	t.Setenv("POVERTY_MODEL_PATH", "")
	return config.FromEnv()
}

func TestNewOfflineScoresAndPersists(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, offlineConfig(t), "greenscore-test")
	require.NoError(t, err)

	asm, err := a.Service.InvestmentScore(ctx, "aceh", scoring.InvestmentParameters{RiskLevel: scoring.High, Amount: 1000, Term: 3})
	require.NoError(t, err)
	assert.Less(t, asm.Breakdown.Completeness, 0.5)

	key, err := a.Archiver.Archive(asm)
	require.NoError(t, err)
	assert.Contains(t, key, "reports/aceh/")

	require.NoError(t, a.Close(ctx))
}

func TestHistoryAfterDrain(t *testing.T) {
	ctx := context.Background()
	cfg := offlineConfig(t)

	a, err := New(ctx, cfg, "greenscore-test")
	require.NoError(t, err)
	_, err = a.Service.InvestmentScore(ctx, "bali", scoring.InvestmentParameters{})
	require.NoError(t, err)
	a.Recorder.Close()

	rows, err := a.Scores.History(ctx, "bali", 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "bali", rows[0].Region)
	require.NoError(t, a.Close(ctx))
}

func TestFixedVariant(t *testing.T) {
	cfg := offlineConfig(t)
	cfg.ScoringVariant = config.VariantFixed

	a, err := New(context.Background(), cfg, "greenscore-test")
	require.NoError(t, err)
	defer a.Close(context.Background())

	s := a.Service.Score(scoring.RegionIndicators{}, scoring.InvestmentParameters{RiskLevel: scoring.High})
	assert.Equal(t, scoring.FixedWeights(), s.Breakdown.Weights)
}
