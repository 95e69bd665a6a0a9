package scoring

import (
	"fmt"
	"math"
)

// Engine runs one scoring Config. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an engine for it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

// MustEngine is NewEngine for the built-in configurations.
func MustEngine(cfg Config) *Engine {
	e, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// EnvironmentalBreakdown is the environmental sub-score on its own.
type EnvironmentalBreakdown struct {
	Score        float64                   `json:"score"`
	Rating       Rating                    `json:"rating"`
	Components   map[IndicatorKind]float64 `json:"components"`
	Completeness float64                   `json:"completeness"`
}

// Environmental scores ind with the configured environment profile.
func (e *Engine) Environmental(ind RegionIndicators) EnvironmentalBreakdown {
	score, comps := e.environmental(ind)
	observed := 0
	for _, k := range e.cfg.Environment.Kinds() {
		if !ind.IsMissing(k) {
			observed++
		}
	}
	return EnvironmentalBreakdown{
		Score:        round1(score),
		Rating:       e.cfg.Labels.Rate(round1(score)),
		Components:   comps,
		Completeness: round2(float64(observed) / float64(len(e.cfg.Environment.Terms))),
	}
}

func (e *Engine) environmental(ind RegionIndicators) (float64, map[IndicatorKind]float64) {
	comps := make(map[IndicatorKind]float64, len(e.cfg.Environment.Terms))
	score := 0.0
	for _, t := range e.cfg.Environment.Terms {
		s := NormalizeIndicator(t.Kind, ind.Value(t.Kind))
		comps[t.Kind] = round1(s)
		score += t.Weight * s
	}
	return Clamp(score, 0, 100), comps
}

// Aggregate combines the environmental, poverty and cost-efficiency
// sub-scores under the weights for risk. Missing inputs never fail: they are
// substituted and listed in Substitutions.
func (e *Engine) Aggregate(ind RegionIndicators, risk RiskLevel) ScoreBreakdown {
	if !risk.Valid() {
		risk = Moderate
	}
	w := e.cfg.Weights.For(risk)

	env, comps := e.environmental(ind)
	pov := NormalizePoverty(ind.PovertyIndex)
	cost := e.cfg.Costs.Efficiency(ind.InfrastructureLabel)
	costRating := e.cfg.Ratings.CostOf(ind.InfrastructureLabel)

	var subs []string
	considered, observed := len(e.cfg.Environment.Terms)+2, 0
	for _, k := range e.cfg.Environment.Kinds() {
		if ind.IsMissing(k) {
			subs = append(subs, string(k)+"=0")
			continue
		}
		observed++
	}
	if ind.PovertyIndex.Available {
		observed++
	} else {
		subs = append(subs, fmt.Sprintf("poverty=%.1f", NeutralPovertyScore))
	}
	for _, k := range []IndicatorKind{NightLight, SolarRadiation} {
		if ind.IsMissing(k) {
			subs = append(subs, string(k)+"=0")
		}
	}
	if _, known := e.cfg.Costs.Lookup(ind.InfrastructureLabel); known {
		observed++
	} else {
		subs = append(subs, fmt.Sprintf("infrastructure_cost=%.2f", e.cfg.Costs.Fallback()))
	}

	composite := w.Poverty*pov + w.Environmental*env + w.Cost*cost
	composite = Clamp(round1(composite), 0, 100)

	label := ind.InfrastructureLabel
	if label == "" {
		label = NotAvailable
	}
	comps[Poverty] = round1(pov)

	return ScoreBreakdown{
		EnvironmentalScore:       round1(env),
		PovertyScore:             round1(pov),
		CostBenefitScore:         round1(cost),
		CompositeScore:           composite,
		Rating:                   e.cfg.Labels.Rate(composite),
		RiskLevel:                risk,
		Weights:                  w,
		Infrastructure:           label,
		InfrastructureCostRating: costRating,
		Components:               comps,
		Completeness:             round2(float64(observed) / float64(considered)),
		Substitutions:            subs,
	}
}

// Compose applies the weights for risk to already-normalized sub-scores.
func (e *Engine) Compose(environmental, poverty, cost float64, risk RiskLevel) (float64, Rating) {
	w := e.cfg.Weights.For(risk)
	c := w.Poverty*Clamp(poverty, 0, 100) + w.Environmental*Clamp(environmental, 0, 100) + w.Cost*Clamp(cost, 0, 100)
	c = Clamp(round1(c), 0, 100)
	return c, e.cfg.Labels.Rate(c)
}

var defaultEngine = MustEngine(InvestmentConfig())

// AggregateScore scores ind with the investment configuration.
func AggregateScore(ind RegionIndicators, risk RiskLevel) ScoreBreakdown {
	return defaultEngine.Aggregate(ind, risk)
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
