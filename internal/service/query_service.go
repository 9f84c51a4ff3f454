package service

import (
	"context"
	"fmt"
	"sort"

	"kickerledger/internal/model"
	"kickerledger/internal/rating"
	"kickerledger/internal/repository"
)

// QueryService provides the read paths for listings
type QueryService struct {
	userRepo  repository.UserRepo
	matchRepo repository.MatchRepo
}

// NewQueryService creates a new query service
func NewQueryService(userRepo repository.UserRepo, matchRepo repository.MatchRepo) *QueryService {
	return &QueryService{
		userRepo:  userRepo,
		matchRepo: matchRepo,
	}
}

// RankedUsers returns users by rating, highest first.
// Equal ratings keep the order the store enumerated them in.
func (s *QueryService) RankedUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Rating > users[j].Rating
	})
	return users, nil
}

// OrderedMatches returns matches oldest first
func (s *QueryService) OrderedMatches(ctx context.Context) ([]*model.Match, error) {
	matches, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, storeErr("list matches", err)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Date < matches[j].Date
	})
	return matches, nil
}

// PendingMatches returns the matches a staged commit left half-written
func (s *QueryService) PendingMatches(ctx context.Context) ([]*model.Match, error) {
	matches, err := s.OrderedMatches(ctx)
	if err != nil {
		return nil, err
	}
	pending := []*model.Match{}
	for _, m := range matches {
		if m.IsPending() {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// GetMatch retrieves a match by ID
func (s *QueryService) GetMatch(ctx context.Context, id string) (*model.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get match", err)
	}
	if m == nil {
		return nil, fmt.Errorf("match %s: %w", id, ErrNotFound)
	}
	return m, nil
}

// RenderExpectation recomputes the pre-match win probabilities from the
// ratings frozen in the match snapshot
func (s *QueryService) RenderExpectation(m *model.Match) (pA, pB float64) {
	return rating.Expectation(m.Teams[0].Rating(), m.Teams[1].Rating())
}
