package service

import (
	"context"
	"testing"

	"github.com/bmizerany/assert"

	"kickerledger/internal/model"
	"kickerledger/internal/rating"
	"kickerledger/internal/repository"
)

func TestRankedUsersOrder(t *testing.T) {
	f := newFixture(t, true)
	for _, u := range []struct {
		name string
		r    int
	}{
		{"Ada", 1000}, {"Bob", 1200}, {"Cy", 1000}, {"Dee", 900}, {"Eve", 1200}, {"Fay", 1000},
	} {
		f.register(t, u.name, u.r)
	}

	ranked, err := f.query.RankedUsers(context.Background())
	if err != nil {
		t.Fatalf("ranked users: %v", err)
	}
	names := []string{}
	for _, u := range ranked {
		names = append(names, u.Name)
	}
	// Ties keep registration order.
	assert.Equal(t, []string{"Bob", "Eve", "Ada", "Cy", "Fay", "Dee"}, names)

	for i := 1; i < len(ranked); i++ {
		if ranked[i].Rating > ranked[i-1].Rating {
			t.Fatalf("ratings must not increase down the list: %d then %d", ranked[i-1].Rating, ranked[i].Rating)
		}
	}
}

func TestOrderedMatches(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()
	for _, m := range []*model.Match{
		matchAt("c", "2024-05-03T09:00:00.000Z", "Ada", "Bob", "Cy", "Dee"),
		matchAt("a", "2024-05-01T23:59:59.999Z", "Ada", "Bob", "Cy", "Dee"),
		matchAt("b", "2024-05-02T00:00:00.000Z", "Ada", "Bob", "Cy", "Dee"),
	} {
		store.Matches.Create(ctx, m)
	}

	matches, err := NewQueryService(store.Users, store.Matches).OrderedMatches(ctx)
	if err != nil {
		t.Fatalf("ordered matches: %v", err)
	}
	ids := []string{}
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestOrderedMatchesFollowRecordingOrder(t *testing.T) {
	f := newFixture(t, true)
	q := registerFour(t, f, 1000, 1000, 1000, 1000)
	teamA, teamB := q.teams()
	ctx := context.Background()

	var recorded []string
	for i := 0; i < 4; i++ {
		m, err := f.ledger.RecordMatch(ctx, teamA, teamB, i, 3)
		if err != nil {
			t.Fatalf("record match: %v", err)
		}
		recorded = append(recorded, m.ID)
	}

	matches, _ := f.query.OrderedMatches(ctx)
	ids := []string{}
	for i, m := range matches {
		ids = append(ids, m.ID)
		if i > 0 && m.Date < matches[i-1].Date {
			t.Fatalf("dates must not decrease: %s then %s", matches[i-1].Date, m.Date)
		}
	}
	assert.Equal(t, recorded, ids)
}

func TestRenderExpectationUsesSnapshot(t *testing.T) {
	f := newFixture(t, true)
	q := registerFour(t, f, 1000, 1200, 1000, 1000)
	teamA, teamB := q.teams()
	ctx := context.Background()

	m1, err := f.ledger.RecordMatch(ctx, teamA, teamB, 10, 0)
	if err != nil {
		t.Fatalf("record match: %v", err)
	}
	wantA, wantB := rating.Expectation(1100, 1000)

	pA, pB := f.query.RenderExpectation(m1)
	assert.Equal(t, wantA, pA)
	assert.Equal(t, wantB, pB)

	for i := 0; i < 3; i++ {
		f.ledger.RecordMatch(ctx, teamA, teamB, 0, 10)
	}
	stored, _ := f.query.GetMatch(ctx, m1.ID)
	pA, pB = f.query.RenderExpectation(stored)
	assert.Equal(t, wantA, pA)
	assert.Equal(t, wantB, pB)
}

func TestPendingMatchesEmptyWhenAllCommitted(t *testing.T) {
	f := newFixture(t, false)
	q := registerFour(t, f, 1000, 1000, 1000, 1000)
	teamA, teamB := q.teams()
	f.ledger.RecordMatch(context.Background(), teamA, teamB, 1, 0)

	pending, err := f.query.PendingMatches(context.Background())
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	assert.Equal(t, 0, len(pending))
}
