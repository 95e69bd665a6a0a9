package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/greenscore/internal/assess"
	"github.com/mind-engage/greenscore/internal/scoring"
)

// Handlers only; routes are mounted in cmd/gateway.

// GET /get-infrastructure/{province}
func InfrastructureHandler(svc *assess.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		rep, err := svc.Infrastructure(r.Context(), chi.URLParam(r, "province"))
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, nethttp.StatusOK, rep)
	}
}

// GET /districts/{district}/environmental-score/{subdistrict}
func EnvironmentalScoreHandler(svc *assess.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		rep, err := svc.EnvironmentalScore(r.Context(), chi.URLParam(r, "district"), chi.URLParam(r, "subdistrict"))
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, nethttp.StatusOK, rep)
	}
}

// GET /districts/{district}/environmental-scores
func EnvironmentalScoresHandler(svc *assess.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		all, err := svc.AllEnvironmentalScores(r.Context(), chi.URLParam(r, "district"))
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, nethttp.StatusOK, all)
	}
}

func paramsFromQuery(r *nethttp.Request) scoring.InvestmentParameters {
	q := r.URL.Query()
	amount := q.Get("investment_amount")
	if amount == "" {
		amount = q.Get("amount")
	}
	term := q.Get("investment_term")
	if term == "" {
		term = q.Get("term")
	}
	return scoring.ParseParameters(q.Get("risk_level"), amount, term)
}

// GET /investment-score/{region}?risk_level=&amount=&term=
func InvestmentScoreHandler(svc *assess.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		a, err := svc.InvestmentScore(r.Context(), chi.URLParam(r, "region"), paramsFromQuery(r))
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, nethttp.StatusOK, a)
	}
}
