package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"kickerledger/internal/model"
	"kickerledger/internal/service"
)

// MatchHandler handles match endpoints
type MatchHandler struct {
	ledger *service.MatchLedger
	query  *service.QueryService
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(ledger *service.MatchLedger, query *service.QueryService) *MatchHandler {
	return &MatchHandler{
		ledger: ledger,
		query:  query,
	}
}

// RecordMatchRequest is the request body for recording a match
type RecordMatchRequest struct {
	TeamA  [2]string `json:"teamA"`
	TeamB  [2]string `json:"teamB"`
	Result [2]int    `json:"result"`
}

// MatchView is a stored match plus the expectations shown next to it
type MatchView struct {
	*model.Match
	ExpectationA float64 `json:"expectationA"`
	ExpectationB float64 `json:"expectationB"`
}

func (h *MatchHandler) view(m *model.Match) MatchView {
	pA, pB := h.query.RenderExpectation(m)
	return MatchView{Match: m, ExpectationA: pA, ExpectationB: pB}
}

func (h *MatchHandler) views(matches []*model.Match) []MatchView {
	out := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		out = append(out, h.view(m))
	}
	return out
}

// Record handles POST /v1/matches
func (h *MatchHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	match, err := h.ledger.RecordMatch(r.Context(), req.TeamA, req.TeamB, req.Result[0], req.Result[1])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.view(match))
}

// List handles GET /v1/matches
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	matches, err := h.query.OrderedMatches(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.views(matches))
}

// Pending handles GET /v1/matches/pending
func (h *MatchHandler) Pending(w http.ResponseWriter, r *http.Request) {
	matches, err := h.query.PendingMatches(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.views(matches))
}

// Get handles GET /v1/matches/{matchId}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	match, err := h.query.GetMatch(r.Context(), mux.Vars(r)["matchId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(match))
}
