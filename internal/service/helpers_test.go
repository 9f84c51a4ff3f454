package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"kickerledger/internal/model"
	"kickerledger/internal/rating"
	"kickerledger/internal/repository"
)

var errBoom = errors.New("boom")

type fixture struct {
	store    repository.Store
	registry *UserRegistry
	ledger   *MatchLedger
	query    *QueryService
}

// newFixture wires the services over an in-memory store. With atomic false
// the batch committer is dropped so the ledger takes the staged path.
func newFixture(t *testing.T, atomic bool) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	if !atomic {
		store.Batch = nil
	}
	return newFixtureWithStore(t, store)
}

func newFixtureWithStore(t *testing.T, store repository.Store) *fixture {
	t.Helper()
	registry := NewUserRegistry(store.Users)
	ledger := NewMatchLedger(registry, store.Matches, store.Batch, NewScanProvenance(store.Matches), rating.DefaultK)
	ledger.SetClock(tickingClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), time.Second))
	return &fixture{
		store:    store,
		registry: registry,
		ledger:   ledger,
		query:    NewQueryService(store.Users, store.Matches),
	}
}

// tickingClock advances by step on every call
func tickingClock(start time.Time, step time.Duration) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(step)
		return t
	}
}

func (f *fixture) register(t *testing.T, name string, r int) *model.User {
	t.Helper()
	u, err := f.registry.Register(context.Background(), name, r)
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return u
}

func (f *fixture) ratingOf(t *testing.T, id string) int {
	t.Helper()
	u, err := f.registry.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get %s: %v", id, err)
	}
	return u.Rating
}

func (f *fixture) matchCount(t *testing.T) int {
	t.Helper()
	matches, err := f.store.Matches.List(context.Background())
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	return len(matches)
}

// flakyUsers fails UpdateRating once failAfter successful updates have gone through
type flakyUsers struct {
	repository.UserRepo
	failAfter int
	updates   int
}

func (r *flakyUsers) UpdateRating(ctx context.Context, id string, rating int) error {
	if r.updates >= r.failAfter {
		return errBoom
	}
	r.updates++
	return r.UserRepo.UpdateRating(ctx, id, rating)
}

// brokenUsers fails every listing
type brokenUsers struct {
	repository.UserRepo
}

func (r *brokenUsers) List(ctx context.Context) ([]*model.User, error) {
	return nil, errBoom
}

// failingBatch rejects every commit
type failingBatch struct{}

func (failingBatch) CommitMatch(ctx context.Context, match *model.Match, users []*model.User) error {
	return errBoom
}

// brokenMatches fails every write of a match record
type brokenMatches struct {
	repository.MatchRepo
}

func (r *brokenMatches) Create(ctx context.Context, match *model.Match) error {
	return errBoom
}

func mustTime(s string) time.Time {
	t, err := time.Parse(model.TimestampLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
