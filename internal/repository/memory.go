package repository

import (
	"context"
	"sync"

	"kickerledger/internal/model"
)

// memoryDB is an insertion-ordered in-process store.
// Records are copied on the way in and out so callers never share state with it.
type memoryDB struct {
	mu         sync.RWMutex
	users      map[string]*model.User
	userOrder  []string
	matches    map[string]*model.Match
	matchOrder []string
}

type memoryUsers struct{ db *memoryDB }

type memoryMatches struct{ db *memoryDB }

type memoryBatch struct{ db *memoryDB }

// NewMemoryStore creates an empty in-memory Store with atomic batch commits
func NewMemoryStore() Store {
	db := &memoryDB{
		users:   make(map[string]*model.User),
		matches: make(map[string]*model.Match),
	}
	return Store{
		Users:   &memoryUsers{db: db},
		Matches: &memoryMatches{db: db},
		Batch:   &memoryBatch{db: db},
	}
}

func (r *memoryUsers) Create(ctx context.Context, user *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.putUser(user)
	return nil
}

func (r *memoryUsers) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memoryUsers) List(ctx context.Context) ([]*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	users := make([]*model.User, 0, len(r.db.userOrder))
	for _, id := range r.db.userOrder {
		cp := *r.db.users[id]
		users = append(users, &cp)
	}
	return users, nil
}

func (r *memoryUsers) UpdateRating(ctx context.Context, id string, rating int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Rating = rating
	return nil
}

func (r *memoryMatches) Create(ctx context.Context, match *model.Match) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.putMatch(match)
	return nil
}

func (r *memoryMatches) GetByID(ctx context.Context, id string) (*model.Match, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	m, ok := r.db.matches[id]
	if !ok {
		return nil, nil
	}
	return cloneMatch(m), nil
}

func (r *memoryMatches) List(ctx context.Context) ([]*model.Match, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	matches := make([]*model.Match, 0, len(r.db.matchOrder))
	for _, id := range r.db.matchOrder {
		matches = append(matches, cloneMatch(r.db.matches[id]))
	}
	return matches, nil
}

func (r *memoryMatches) SetStatus(ctx context.Context, id string, status model.MatchStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	m, ok := r.db.matches[id]
	if !ok {
		return ErrNotFound
	}
	m.Status = status
	return nil
}

// CommitMatch applies the match and all rating changes under one lock.
// Nothing is written if any user is unknown.
func (b *memoryBatch) CommitMatch(ctx context.Context, match *model.Match, users []*model.User) error {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()

	for _, u := range users {
		if _, ok := b.db.users[u.ID]; !ok {
			return ErrNotFound
		}
	}
	b.db.putMatch(match)
	for _, u := range users {
		b.db.putUser(u)
	}
	return nil
}

func (db *memoryDB) putUser(user *model.User) {
	if _, ok := db.users[user.ID]; !ok {
		db.userOrder = append(db.userOrder, user.ID)
	}
	cp := *user
	db.users[user.ID] = &cp
}

func (db *memoryDB) putMatch(match *model.Match) {
	if _, ok := db.matches[match.ID]; !ok {
		db.matchOrder = append(db.matchOrder, match.ID)
	}
	db.matches[match.ID] = cloneMatch(match)
}

// cloneMatch deep copies the provenance pointers along with the value fields
func cloneMatch(m *model.Match) *model.Match {
	cp := *m
	for t := range cp.Parent {
		for s := range cp.Parent[t] {
			if id := cp.Parent[t][s]; id != nil {
				v := *id
				cp.Parent[t][s] = &v
			}
		}
	}
	return &cp
}
