package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"kickerledger/internal/model"
)

// The Redis backend keeps each collection in one hash: field = record id,
// value = record JSON. HGETALL reads the whole collection, HSET writes one path.

type redisUsers struct {
	client *redis.Client
	key    string
}

type redisMatches struct {
	client *redis.Client
	key    string
}

type redisBatch struct {
	users   *redisUsers
	matches *redisMatches
}

// NewRedisStore creates a Store over two hashes under prefix.
// Match commits run in MULTI/EXEC and are atomic.
func NewRedisStore(client *redis.Client, prefix string) Store {
	users := &redisUsers{client: client, key: fmt.Sprintf("%s:users", prefix)}
	matches := &redisMatches{client: client, key: fmt.Sprintf("%s:matches", prefix)}
	return Store{
		Users:   users,
		Matches: matches,
		Batch:   &redisBatch{users: users, matches: matches},
	}
}

func (r *redisUsers) Create(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.client.HSet(ctx, r.key, user.ID, data).Err()
}

func (r *redisUsers) GetByID(ctx context.Context, id string) (*model.User, error) {
	data, err := r.client.HGet(ctx, r.key, id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *redisUsers) List(ctx context.Context) ([]*model.User, error) {
	data, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, err
	}
	users := make([]*model.User, 0, len(data))
	for id, raw := range data {
		var u model.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", id, err)
		}
		users = append(users, &u)
	}
	return users, nil
}

// UpdateRating is a read-modify-write of the user's JSON; concurrent
// external writers to the same field are not guarded against.
func (r *redisUsers) UpdateRating(ctx context.Context, id string, rating int) error {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	user.Rating = rating
	return r.Create(ctx, user)
}

func (r *redisMatches) Create(ctx context.Context, match *model.Match) error {
	data, err := json.Marshal(match)
	if err != nil {
		return err
	}
	return r.client.HSet(ctx, r.key, match.ID, data).Err()
}

func (r *redisMatches) GetByID(ctx context.Context, id string) (*model.Match, error) {
	data, err := r.client.HGet(ctx, r.key, id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var match model.Match
	if err := json.Unmarshal([]byte(data), &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *redisMatches) List(ctx context.Context) ([]*model.Match, error) {
	data, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, err
	}
	matches := make([]*model.Match, 0, len(data))
	for id, raw := range data {
		var m model.Match
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("decode match %s: %w", id, err)
		}
		matches = append(matches, &m)
	}
	return matches, nil
}

func (r *redisMatches) SetStatus(ctx context.Context, id string, status model.MatchStatus) error {
	match, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if match == nil {
		return ErrNotFound
	}
	match.Status = status
	return r.Create(ctx, match)
}

// CommitMatch checks that every user exists, then writes the match and the
// updated users in a single transaction.
func (b *redisBatch) CommitMatch(ctx context.Context, match *model.Match, users []*model.User) error {
	matchData, err := json.Marshal(match)
	if err != nil {
		return err
	}
	userData := make(map[string][]byte, len(users))
	for _, u := range users {
		data, err := json.Marshal(u)
		if err != nil {
			return err
		}
		userData[u.ID] = data
	}

	for _, u := range users {
		ok, err := b.users.client.HExists(ctx, b.users.key, u.ID).Result()
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
	}

	_, err = b.users.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, b.matches.key, match.ID, matchData)
		for id, data := range userData {
			pipe.HSet(ctx, b.users.key, id, data)
		}
		return nil
	})
	return err
}
