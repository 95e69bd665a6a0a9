package scoring

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Parameter defaults applied when caller input is invalid.
const (
	DefaultRiskLevel = Moderate
	DefaultAmount    = 100000.0
	MaxAmount        = 1e12
	DefaultTerm      = 5
	MinTerm          = 1
	MaxTerm          = 30
)

// InvestmentParameters are caller-supplied and corrected, never rejected.
type InvestmentParameters struct {
	RiskLevel   RiskLevel `json:"risk_level" validate:"oneof=conservative moderate high"`
	Amount      float64   `json:"investment_amount" validate:"gt=0,lte=1000000000000"`
	Term        int       `json:"investment_term" validate:"min=1,max=30"`
	Corrections []string  `json:"corrections,omitempty" validate:"-"`
}

var validate = validator.New()

// Normalize replaces every invalid field with its default and records which
// fields were corrected.
func (p InvestmentParameters) Normalize() InvestmentParameters {
	p.RiskLevel = RiskLevel(strings.ToLower(strings.TrimSpace(string(p.RiskLevel))))
	out := p
	out.Corrections = append([]string(nil), p.Corrections...)

	if !isFinite(p.Amount) {
		out.Amount = DefaultAmount
		out.Corrections = append(out.Corrections, "investment_amount")
		p.Amount = DefaultAmount
	}

	err := validate.Struct(p)
	var verrs validator.ValidationErrors
	if err == nil || !errors.As(err, &verrs) {
		return out
	}
	for _, fe := range verrs {
		switch fe.StructField() {
		case "RiskLevel":
			out.RiskLevel = DefaultRiskLevel
			out.Corrections = append(out.Corrections, "risk_level")
		case "Amount":
			out.Amount = DefaultAmount
			out.Corrections = append(out.Corrections, "investment_amount")
		case "Term":
			out.Term = DefaultTerm
			out.Corrections = append(out.Corrections, "investment_term")
		}
	}
	return out
}

// ParseParameters reads raw string inputs (query parameters) and normalizes
// them. Empty or unparsable values take their defaults.
func ParseParameters(risk, amount, term string) InvestmentParameters {
	p := InvestmentParameters{RiskLevel: RiskLevel(risk), Amount: DefaultAmount, Term: DefaultTerm}
	if risk == "" {
		p.RiskLevel = DefaultRiskLevel
	}
	if amount != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
		if err != nil {
			p.Corrections = append(p.Corrections, "investment_amount")
		} else {
			p.Amount = v
		}
	}
	if term != "" {
		v, err := strconv.Atoi(strings.TrimSpace(term))
		if err != nil {
			p.Corrections = append(p.Corrections, "investment_term")
		} else {
			p.Term = v
		}
	}
	return p.Normalize()
}
