package repository

import (
	"context"
	"errors"

	"kickerledger/internal/model"
)

// ErrNotFound is returned by updates that address an unknown record
var ErrNotFound = errors.New("record not found")

// BatchCommitter writes a match and its rating changes in one atomic step
type BatchCommitter interface {
	CommitMatch(ctx context.Context, match *model.Match, users []*model.User) error
}

// Store bundles the collections the ledger reads and writes.
// Batch is nil when the backend cannot commit atomically.
type Store struct {
	Users   UserRepo
	Matches MatchRepo
	Batch   BatchCommitter
}
