package service

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateName        = errors.New("a user with that name already exists")
	ErrInvalidRating        = errors.New("rating must not be negative")
	ErrEmptyName            = errors.New("name must not be empty")
	ErrDuplicateParticipant = errors.New("the four players of a match must be distinct")
	ErrInvalidResult        = errors.New("match result must not be negative")
	ErrNotFound             = errors.New("not found")
	ErrStoreFailure         = errors.New("store failure")
)

// StoreError reports a failed read or write against the store.
// Partial is set when earlier writes of the same operation already landed;
// MatchID then names the match left behind with a pending marker.
type StoreError struct {
	Op      string
	Partial bool
	MatchID string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Partial {
		return fmt.Sprintf("%s: partially applied match %s: %v", e.Op, e.MatchID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrStoreFailure) match any StoreError
func (e *StoreError) Is(target error) bool { return target == ErrStoreFailure }

// IsPartial reports whether err left some writes of a match applied
func IsPartial(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Partial
}

// IsValidation reports whether err is a rejected input that changed nothing
func IsValidation(err error) bool {
	return errors.Is(err, ErrDuplicateName) ||
		errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrDuplicateParticipant) ||
		errors.Is(err, ErrInvalidResult)
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
