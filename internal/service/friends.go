// Package service composes validation, password hashing and the credential
// store into the operations the HTTP layer and the CLI expose.
package service

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/geocoder89/friendhub/internal/apperr"
	"github.com/geocoder89/friendhub/internal/domain/friend"
)

type Hasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

type FriendsService struct {
	store  friend.Store
	hasher Hasher
	log    *slog.Logger

	// compared against when the user is unknown so both denial paths pay
	// for one bcrypt comparison
	dummyHash string
}

func NewFriendsService(store friend.Store, hasher Hasher, log *slog.Logger) (*FriendsService, error) {
	dummy, err := hasher.Hash("friendhub-dummy-password")
	if err != nil {
		return nil, oops.With("operation", "hash dummy password").Wrap(err)
	}

	return &FriendsService{
		store:     store,
		hasher:    hasher,
		log:       log,
		dummyHash: dummy,
	}, nil
}

func (s *FriendsService) hash(plain string) (string, error) {
	h, err := s.hasher.Hash(plain)
	if err != nil {
		return "", oops.With("operation", "hash password").Wrap(err)
	}
	return h, nil
}

// Register validates in, hashes the password and stores a new friend with the
// user role. It returns the store assigned id.
func (s *FriendsService) Register(ctx context.Context, in friend.Input) (string, error) {
	if err := friend.Validate(in); err != nil {
		return "", err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return "", err
	}

	return s.store.Create(ctx, friend.Friend{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         friend.RoleUser,
	})
}

// Edit replaces the names, email and password of the friend keyed by email.
// The role is left untouched. Zero means no friend matched.
func (s *FriendsService) Edit(ctx context.Context, email string, in friend.Input) (int64, error) {
	if err := friend.Validate(in); err != nil {
		return 0, err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return 0, err
	}

	return s.store.UpdateByEmail(ctx, email, friend.Update{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
	})
}

// Delete never fails; store errors are logged and reported as false.
func (s *FriendsService) Delete(ctx context.Context, email string) bool {
	return friend.DeleteOrFalse(ctx, s.store, email, s.log)
}

func (s *FriendsService) List(ctx context.Context) ([]friend.Friend, error) {
	return s.store.List(ctx)
}

func (s *FriendsService) Find(ctx context.Context, email string) (friend.Friend, error) {
	return s.store.FindByEmail(ctx, email)
}

// VerifyCredentials returns the identity of the friend whose email and
// password match. Unknown email and wrong password both yield the same
// unauthorized error; a store failure is returned as is.
func (s *FriendsService) VerifyCredentials(ctx context.Context, email, password string) (friend.Identity, error) {
	f, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			s.hasher.Verify(s.dummyHash, password)
			return friend.Identity{}, apperr.Unauthorized()
		}
		return friend.Identity{}, err
	}

	if !s.hasher.Verify(f.PasswordHash, password) {
		return friend.Identity{}, apperr.Unauthorized()
	}

	return friend.Identity{Username: f.Email, Role: f.Role}, nil
}
