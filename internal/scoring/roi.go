package scoring

import "math"

// BaseReturnRate is the annual fractional return per risk level.
func BaseReturnRate(r RiskLevel) float64 {
	switch r {
	case Conservative:
		return 0.05
	case High:
		return 0.12
	default:
		return 0.08
	}
}

// ScoreMultiplier maps a composite score in [0,100] to [0.5,1.5].
func ScoreMultiplier(composite float64) float64 {
	return 0.5 + Clamp(composite, 0, 100)/100
}

// TermFactor adds diminishing returns for longer horizons: 1 + 0.1*ln(years+1).
func TermFactor(years int) float64 {
	return 1 + 0.1*math.Log(float64(years)+1)
}

// ProjectROI compounds amount over termYears at a rate derived from the
// composite score and risk level. Inputs are expected to be validated by
// InvestmentParameters.Normalize; out-of-range values are clamped to
// [0, MaxAmount] and [MinTerm, MaxTerm] so every output stays finite.
func ProjectROI(b ScoreBreakdown, amount float64, termYears int, risk RiskLevel) ROIProjection {
	amount = Clamp(amount, 0, MaxAmount)
	termYears = min(max(termYears, MinTerm), MaxTerm)
	rate := BaseReturnRate(risk) * ScoreMultiplier(b.CompositeScore) * TermFactor(termYears)
	growth := math.Pow(1+rate, float64(termYears))
	total := amount * growth

	return ROIProjection{
		AnnualReturnRatePct: round2(rate * 100),
		TotalROIPct:         round2((growth - 1) * 100),
		TotalReturn:         round2(total),
		NetProfit:           round2(total - amount),
		ImplementationCost:  round2(amount * (b.InfrastructureCostRating / 100)),
	}
}

// Project is ProjectROI over normalized parameters.
func (e *Engine) Project(b ScoreBreakdown, p InvestmentParameters) ROIProjection {
	return ProjectROI(b, p.Amount, p.Term, p.RiskLevel)
}
