package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"kickerledger/internal/model"
	"kickerledger/internal/repository"
)

// UserRegistry registers players and owns their rating field
type UserRegistry struct {
	userRepo repository.UserRepo
	mu       sync.Mutex
}

// NewUserRegistry creates a new user registry
func NewUserRegistry(userRepo repository.UserRepo) *UserRegistry {
	return &UserRegistry{
		userRepo: userRepo,
	}
}

// Register creates a user with a fresh ID.
// Names are compared byte for byte; "ada" and "Ada" are different players.
func (s *UserRegistry) Register(ctx context.Context, name string, rating int) (*model.User, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if rating < 0 {
		return nil, ErrInvalidRating
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	for _, u := range users {
		if u.Name == name {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}

	user := &model.User{
		ID:     uuid.New().String(),
		Name:   name,
		Rating: rating,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeErr("create user", err)
	}
	return user, nil
}

// List returns every registered user in store order
func (s *UserRegistry) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	return users, nil
}

// GetByID retrieves a user by ID
func (s *UserRegistry) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get user", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return user, nil
}

// UpdateRating overwrites the rating of a user, leaving the name alone
func (s *UserRegistry) UpdateRating(ctx context.Context, id string, rating int) error {
	err := s.userRepo.UpdateRating(ctx, id, rating)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return storeErr("update rating", err)
	}
	return nil
}
