package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bmizerany/assert"

	"kickerledger/internal/rating"
	"kickerledger/internal/repository"
	"kickerledger/internal/service"
)

func newTestRouter(store repository.Store) http.Handler {
	registry := service.NewUserRegistry(store.Users)
	return NewRouter(&Container{
		Registry: registry,
		Ledger:   service.NewMatchLedger(registry, store.Matches, store.Batch, service.NewScanProvenance(store.Matches), rating.DefaultK),
		Query:    service.NewQueryService(store.Users, store.Matches),
	})
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func createUser(t *testing.T, h http.Handler, name string, r int) string {
	t.Helper()
	rec := do(t, h, "POST", "/v1/users", map[string]interface{}{"name": name, "rating": r})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create %s: expected 201, got %d: %s", name, rec.Code, rec.Body.String())
	}
	var u struct {
		ID string `json:"id"`
	}
	decode(t, rec, &u)
	return u.ID
}

type matchBody struct {
	ID           string  `json:"id"`
	Status       string  `json:"status"`
	Result       [2]int  `json:"result"`
	ExpectationA float64 `json:"expectationA"`
	ExpectationB float64 `json:"expectationB"`
	Teams        [2][2]struct {
		Name   string `json:"name"`
		Rating int    `json:"rating"`
	} `json:"teams"`
	Parent [2][2]*string `json:"parent"`
}

func TestHealth(t *testing.T) {
	h := newTestRouter(repository.NewMemoryStore())
	rec := do(t, h, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCreateUserErrors(t *testing.T) {
	h := newTestRouter(repository.NewMemoryStore())
	createUser(t, h, "Ada", 1000)

	cases := []struct {
		name string
		body interface{}
		want int
	}{
		{"duplicate name", map[string]interface{}{"name": "Ada", "rating": 900}, http.StatusConflict},
		{"negative rating", map[string]interface{}{"name": "Bob", "rating": -1}, http.StatusBadRequest},
		{"empty name", map[string]interface{}{"name": "", "rating": 1000}, http.StatusBadRequest},
		{"malformed body", "not an object", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, "POST", "/v1/users", tc.body)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestListUsersRanked(t *testing.T) {
	h := newTestRouter(repository.NewMemoryStore())
	createUser(t, h, "Ada", 900)
	createUser(t, h, "Bob", 1100)
	createUser(t, h, "Cy", 900)

	rec := do(t, h, "GET", "/v1/users", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var users []struct {
		Rank int    `json:"rank"`
		Name string `json:"name"`
	}
	decode(t, rec, &users)
	assert.Equal(t, 3, len(users))
	assert.Equal(t, "Bob", users[0].Name)
	assert.Equal(t, 1, users[0].Rank)
	assert.Equal(t, "Ada", users[1].Name)
	assert.Equal(t, "Cy", users[2].Name)
	assert.Equal(t, 3, users[2].Rank)
}

func TestRecordAndFetchMatch(t *testing.T) {
	h := newTestRouter(repository.NewMemoryStore())
	a := createUser(t, h, "Ada", 1000)
	b := createUser(t, h, "Bob", 1000)
	c := createUser(t, h, "Cy", 1000)
	d := createUser(t, h, "Dee", 1000)

	rec := do(t, h, "POST", "/v1/matches", map[string]interface{}{
		"teamA":  []string{a, b},
		"teamB":  []string{c, d},
		"result": []int{10, 5},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var m matchBody
	decode(t, rec, &m)
	assert.Equal(t, "committed", m.Status)
	assert.Equal(t, [2]int{10, 5}, m.Result)
	assert.Equal(t, 0.5, m.ExpectationA)
	assert.Equal(t, 0.5, m.ExpectationB)
	assert.Equal(t, 1000, m.Teams[0][0].Rating)
	if m.Parent[0][0] != nil {
		t.Fatalf("first match should have no parent, got %q", *m.Parent[0][0])
	}

	rec = do(t, h, "GET", "/v1/matches/"+m.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, "GET", "/v1/users", nil)
	var users []struct {
		Name   string `json:"name"`
		Rating int    `json:"rating"`
	}
	decode(t, rec, &users)
	assert.Equal(t, 1015, users[0].Rating)
	assert.Equal(t, 985, users[3].Rating)

	rec = do(t, h, "POST", "/v1/matches", map[string]interface{}{
		"teamA":  []string{a, c},
		"teamB":  []string{b, d},
		"result": []int{3, 3},
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	var second matchBody
	decode(t, rec, &second)
	if second.Parent[0][0] == nil || *second.Parent[0][0] != m.ID {
		t.Fatalf("expected Ada's parent to be %s, got %v", m.ID, second.Parent[0][0])
	}

	rec = do(t, h, "GET", "/v1/matches", nil)
	var all []matchBody
	decode(t, rec, &all)
	assert.Equal(t, 2, len(all))
	assert.Equal(t, m.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	rec = do(t, h, "GET", "/v1/matches/pending", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestRecordMatchErrors(t *testing.T) {
	h := newTestRouter(repository.NewMemoryStore())
	a := createUser(t, h, "Ada", 1000)
	b := createUser(t, h, "Bob", 1000)
	c := createUser(t, h, "Cy", 1000)

	cases := []struct {
		name   string
		teamA  []string
		teamB  []string
		result []int
		want   int
	}{
		{"duplicate participant", []string{a, b}, []string{c, a}, []int{1, 0}, http.StatusBadRequest},
		{"negative result", []string{a, b}, []string{c, "x"}, []int{-1, 0}, http.StatusBadRequest},
		{"unknown player", []string{a, b}, []string{c, "missing"}, []int{1, 0}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, "POST", "/v1/matches", map[string]interface{}{
				"teamA": tc.teamA, "teamB": tc.teamB, "result": tc.result,
			})
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}

	rec := do(t, h, "GET", "/v1/matches/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// failingRatings lets the first ok rating writes through and fails the rest
type failingRatings struct {
	repository.UserRepo
	ok int
}

func (f *failingRatings) UpdateRating(ctx context.Context, id string, r int) error {
	if f.ok == 0 {
		return errors.New("disk full")
	}
	f.ok--
	return f.UserRepo.UpdateRating(ctx, id, r)
}

func TestRecordMatchPartialFailure(t *testing.T) {
	store := repository.NewMemoryStore()
	store.Batch = nil
	store.Users = &failingRatings{UserRepo: store.Users, ok: 2}
	h := newTestRouter(store)

	ids := []string{
		createUser(t, h, "Ada", 1000),
		createUser(t, h, "Bob", 1000),
		createUser(t, h, "Cy", 1000),
		createUser(t, h, "Dee", 1000),
	}

	rec := do(t, h, "POST", "/v1/matches", map[string]interface{}{
		"teamA":  ids[:2],
		"teamB":  ids[2:],
		"result": []int{10, 0},
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body struct {
		Partial bool   `json:"partial"`
		MatchID string `json:"matchId"`
	}
	decode(t, rec, &body)
	assert.Equal(t, true, body.Partial)

	rec = do(t, h, "GET", "/v1/matches/pending", nil)
	var pending []matchBody
	decode(t, rec, &pending)
	assert.Equal(t, 1, len(pending))
	assert.Equal(t, body.MatchID, pending[0].ID)
	assert.Equal(t, "pending", pending[0].Status)
}
