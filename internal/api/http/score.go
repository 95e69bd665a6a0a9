package http

import (
	"encoding/json"
	nethttp "net/http"

	"github.com/mind-engage/greenscore/internal/assess"
	"github.com/mind-engage/greenscore/internal/scoring"
)

type scoreRequest struct {
	Indicators scoring.RegionIndicators `json:"indicators"`
	RiskLevel  string                   `json:"risk_level"`
	Amount     *float64                 `json:"amount"`
	Term       *int                     `json:"term"`
}

func (req scoreRequest) params() scoring.InvestmentParameters {
	p := scoring.InvestmentParameters{
		RiskLevel: scoring.RiskLevel(req.RiskLevel),
		Amount:    scoring.DefaultAmount,
		Term:      scoring.DefaultTerm,
	}
	if req.RiskLevel == "" {
		p.RiskLevel = scoring.DefaultRiskLevel
	}
	if req.Amount != nil {
		p.Amount = *req.Amount
	}
	if req.Term != nil {
		p.Term = *req.Term
	}
	return p
}

// POST /score scores caller-supplied indicators without any collection or
// persistence. A bare numeric poverty_index is on the percent scale; model
// output goes as {"value": n, "scale": "model20"}.
func ScoreHandler(svc *assess.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req scoreRequest
		dec := json.NewDecoder(nethttp.MaxBytesReader(w, r.Body, 1<<20))
		if err := dec.Decode(&req); err != nil {
			writeError(w, nethttp.StatusBadRequest, "bad json")
			return
		}
		writeJSON(w, nethttp.StatusOK, svc.Score(req.Indicators, req.params()))
	}
}
