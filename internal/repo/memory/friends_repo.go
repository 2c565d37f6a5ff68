package memory

import (
	"context"
	"crypto/rand"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/geocoder89/friendhub/internal/apperr"
	"github.com/geocoder89/friendhub/internal/domain/friend"
)

type FriendsRepo struct {
	mu      sync.RWMutex
	items   map[string]friend.Friend // keyed by email
	entropy io.Reader                // guarded by mu; ids sort in creation order
}

func NewFriendsRepo() *FriendsRepo {
	return &FriendsRepo{
		items:   make(map[string]friend.Friend),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (r *FriendsRepo) Create(_ context.Context, f friend.Friend) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.items[f.Email]; taken {
		return "", apperr.Conflict("email already registered")
	}

	now := time.Now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), r.entropy)
	if err != nil {
		return "", apperr.Store("friends.create", err)
	}

	f.ID = id.String()
	f.CreatedAt = now
	f.UpdatedAt = now
	r.items[f.Email] = f

	return f.ID, nil
}

func (r *FriendsRepo) UpdateByEmail(_ context.Context, email string, u friend.Update) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.items[email]
	if !ok {
		return 0, nil
	}

	if u.Email != email {
		if _, taken := r.items[u.Email]; taken {
			return 0, apperr.Conflict("email already registered")
		}
	}

	f.FirstName = u.FirstName
	f.LastName = u.LastName
	f.Email = u.Email
	f.PasswordHash = u.PasswordHash
	f.UpdatedAt = time.Now().UTC()

	delete(r.items, email)
	r.items[f.Email] = f

	return 1, nil
}

func (r *FriendsRepo) DeleteByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[email]; !ok {
		return false, nil
	}
	delete(r.items, email)

	return true, nil
}

func (r *FriendsRepo) FindByEmail(_ context.Context, email string) (friend.Friend, error) {
	r.mu.RLock()
	f, ok := r.items[email]
	r.mu.RUnlock()

	if !ok {
		return friend.Friend{}, apperr.NotFound("friend")
	}

	return f, nil
}

// List returns friends in creation order.
func (r *FriendsRepo) List(_ context.Context) ([]friend.Friend, error) {
	r.mu.RLock()
	out := make([]friend.Friend, 0, len(r.items))
	for _, f := range r.items {
		out = append(out, f)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// Ping always succeeds; it lets the memory store back the readiness probe.
func (r *FriendsRepo) Ping(context.Context) error {
	return nil
}
