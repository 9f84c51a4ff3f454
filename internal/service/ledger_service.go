package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"kickerledger/internal/model"
	"kickerledger/internal/rating"
	"kickerledger/internal/repository"
)

// MatchLedger records matches and is the only writer of ratings
type MatchLedger struct {
	registry   *UserRegistry
	matchRepo  repository.MatchRepo
	batch      repository.BatchCommitter
	provenance ProvenanceIndex
	kFactor    float64

	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

// NewMatchLedger creates a new match ledger. batch may be nil, in which
// case matches are committed in stages behind a pending marker.
func NewMatchLedger(
	registry *UserRegistry,
	matchRepo repository.MatchRepo,
	batch repository.BatchCommitter,
	provenance ProvenanceIndex,
	kFactor float64,
) *MatchLedger {
	return &MatchLedger{
		registry:   registry,
		matchRepo:  matchRepo,
		batch:      batch,
		provenance: provenance,
		kFactor:    kFactor,
		now:        time.Now,
	}
}

// SetClock replaces the time source used to stamp matches
func (l *MatchLedger) SetClock(now func() time.Time) {
	l.now = now
}

// RecordMatch rates and stores one doubles game between the players
// identified by teamA and teamB.
func (l *MatchLedger) RecordMatch(ctx context.Context, teamA, teamB [2]string, resultA, resultB int) (*model.Match, error) {
	ids := [4]string{teamA[0], teamA[1], teamB[0], teamB[1]}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[i] == ids[j] {
				return nil, fmt.Errorf("%w: %s appears twice", ErrDuplicateParticipant, ids[i])
			}
		}
	}
	if resultA < 0 || resultB < 0 {
		return nil, ErrInvalidResult
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// One read up front; every rating below derives from it.
	users, err := l.registry.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	var players [4]*model.User
	for i, id := range ids {
		u, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		players[i] = u
	}

	teams := [2]model.Team{
		{players[0].Snapshot(), players[1].Snapshot()},
		{players[2].Snapshot(), players[3].Snapshot()},
	}

	var parent model.Provenance
	for i, p := range players {
		prev, err := l.provenance.LatestMatchOf(ctx, p.Name)
		if err != nil {
			return nil, err
		}
		if prev != nil {
			id := prev.ID
			parent[i/2][i%2] = &id
		}
	}

	eA, eB := rating.Expectation(teams[0].Rating(), teams[1].Rating())
	sA, sB := rating.Outcome(resultA, resultB)
	expect := [2]float64{eA, eB}
	score := [2]float64{sA, sB}

	updated := make([]*model.User, len(players))
	for i, p := range players {
		team := i / 2
		updated[i] = &model.User{
			ID:     p.ID,
			Name:   p.Name,
			Rating: rating.Update(p.Rating, score[team], expect[team], l.kFactor),
		}
	}

	match := &model.Match{
		ID:     uuid.New().String(),
		Date:   model.FormatTimestamp(l.stamp()),
		Teams:  teams,
		Parent: parent,
		Result: [2]int{resultA, resultB},
	}

	if err := l.commit(ctx, match, updated); err != nil {
		if IsPartial(err) {
			log.Printf("ledger: match %s partially applied: %v", match.ID, err)
		}
		return nil, err
	}

	if rec, ok := l.provenance.(ProvenanceRecorder); ok {
		if err := rec.Record(ctx, match); err != nil {
			log.Printf("ledger: provenance index update for match %s failed: %v", match.ID, err)
		}
	}
	return match, nil
}

func (l *MatchLedger) commit(ctx context.Context, match *model.Match, updated []*model.User) error {
	if l.batch != nil {
		match.Status = model.MatchCommitted
		if err := l.batch.CommitMatch(ctx, match, updated); err != nil {
			return storeErr("commit match", err)
		}
		return nil
	}

	// Staged: the pending marker stays behind if a later write fails.
	match.Status = model.MatchPending
	if err := l.matchRepo.Create(ctx, match); err != nil {
		return storeErr("create match", err)
	}
	for _, u := range updated {
		if err := l.registry.UpdateRating(ctx, u.ID, u.Rating); err != nil {
			return &StoreError{Op: "update rating of " + u.ID, Partial: true, MatchID: match.ID, Err: err}
		}
	}
	if err := l.matchRepo.SetStatus(ctx, match.ID, model.MatchCommitted); err != nil {
		return &StoreError{Op: "mark match committed", Partial: true, MatchID: match.ID, Err: err}
	}
	match.Status = model.MatchCommitted
	return nil
}

// stamp returns the current time, forced strictly after the previous stamp
// at millisecond resolution. Caller holds l.mu.
func (l *MatchLedger) stamp() time.Time {
	t := l.now().UTC().Truncate(time.Millisecond)
	if !t.After(l.last) {
		t = l.last.Add(time.Millisecond)
	}
	l.last = t
	return t
}
