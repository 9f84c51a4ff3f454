package handler

import (
	"encoding/json"
	"net/http"

	"kickerledger/internal/service"
)

// UserHandler handles user endpoints
type UserHandler struct {
	registry *service.UserRegistry
	query    *service.QueryService
}

// NewUserHandler creates a new user handler
func NewUserHandler(registry *service.UserRegistry, query *service.QueryService) *UserHandler {
	return &UserHandler{
		registry: registry,
		query:    query,
	}
}

// CreateUserRequest is the request body for registering a user
type CreateUserRequest struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

// RankedUser is a user with its 1-based position in the ranking
type RankedUser struct {
	Rank   int    `json:"rank"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

// Create handles POST /v1/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.registry.Register(r.Context(), req.Name, req.Rating)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// List handles GET /v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.query.RankedUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	ranked := make([]RankedUser, 0, len(users))
	for i, u := range users {
		ranked = append(ranked, RankedUser{
			Rank:   i + 1,
			ID:     u.ID,
			Name:   u.Name,
			Rating: u.Rating,
		})
	}
	writeJSON(w, http.StatusOK, ranked)
}
