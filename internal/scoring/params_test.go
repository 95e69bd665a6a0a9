package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvestmentParametersNormalize(t *testing.T) {
	tests := []struct {
		name  string
		in    InvestmentParameters
		want  InvestmentParameters
		fixed []string
	}{
		{
			name: "valid input is kept",
			in:   InvestmentParameters{RiskLevel: High, Amount: 250000, Term: 12},
			want: InvestmentParameters{RiskLevel: High, Amount: 250000, Term: 12},
		},
		{
			name: "risk level is case insensitive",
			in:   InvestmentParameters{RiskLevel: " Conservative ", Amount: 1, Term: 1},
			want: InvestmentParameters{RiskLevel: Conservative, Amount: 1, Term: 1},
		},
		{
			name:  "unknown risk defaults to moderate",
			in:    InvestmentParameters{RiskLevel: "reckless", Amount: 5000, Term: 3},
			want:  InvestmentParameters{RiskLevel: Moderate, Amount: 5000, Term: 3},
			fixed: []string{"risk_level"},
		},
		{
			name:  "non-positive amount defaults",
			in:    InvestmentParameters{RiskLevel: Moderate, Amount: -10, Term: 5},
			want:  InvestmentParameters{RiskLevel: Moderate, Amount: DefaultAmount, Term: 5},
			fixed: []string{"investment_amount"},
		},
		{
			name:  "infinite amount defaults",
			in:    InvestmentParameters{RiskLevel: Moderate, Amount: math.Inf(1), Term: 5},
			want:  InvestmentParameters{RiskLevel: Moderate, Amount: DefaultAmount, Term: 5},
			fixed: []string{"investment_amount"},
		},
		{
			name: "amount at the ceiling is kept",
			in:   InvestmentParameters{RiskLevel: High, Amount: MaxAmount, Term: 30},
			want: InvestmentParameters{RiskLevel: High, Amount: MaxAmount, Term: 30},
		},
		{
			name:  "amount above the ceiling defaults",
			in:    InvestmentParameters{RiskLevel: High, Amount: 1e307, Term: 30},
			want:  InvestmentParameters{RiskLevel: High, Amount: DefaultAmount, Term: 30},
			fixed: []string{"investment_amount"},
		},
		{
			name:  "term above range defaults",
			in:    InvestmentParameters{RiskLevel: Moderate, Amount: 10, Term: 31},
			want:  InvestmentParameters{RiskLevel: Moderate, Amount: 10, Term: DefaultTerm},
			fixed: []string{"investment_term"},
		},
		{
			name:  "zero value defaults everything",
			in:    InvestmentParameters{},
			want:  InvestmentParameters{RiskLevel: Moderate, Amount: DefaultAmount, Term: DefaultTerm},
			fixed: []string{"risk_level", "investment_amount", "investment_term"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.want.RiskLevel, got.RiskLevel)
			assert.Equal(t, tt.want.Amount, got.Amount)
			assert.Equal(t, tt.want.Term, got.Term)
			assert.ElementsMatch(t, tt.fixed, got.Corrections)
		})
	}
}

func TestParseParameters(t *testing.T) {
	p := ParseParameters("", "", "")
	assert.Equal(t, InvestmentParameters{RiskLevel: Moderate, Amount: DefaultAmount, Term: DefaultTerm}, p)

	p = ParseParameters("high", "75000.5", "30")
	assert.Equal(t, High, p.RiskLevel)
	assert.Equal(t, 75000.5, p.Amount)
	assert.Equal(t, 30, p.Term)
	assert.Empty(t, p.Corrections)

	p = ParseParameters("HIGH", "lots", "0")
	assert.Equal(t, High, p.RiskLevel)
	assert.Equal(t, DefaultAmount, p.Amount)
	assert.Equal(t, DefaultTerm, p.Term)
	assert.ElementsMatch(t, []string{"investment_amount", "investment_term"}, p.Corrections)

	p = ParseParameters("high", "1e307", "30")
	assert.Equal(t, DefaultAmount, p.Amount)
	assert.Equal(t, []string{"investment_amount"}, p.Corrections)
}
