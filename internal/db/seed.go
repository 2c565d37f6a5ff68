package db

import (
	"context"
	"log/slog"

	"github.com/geocoder89/friendhub/internal/apperr"
	"github.com/geocoder89/friendhub/internal/domain/friend"
)

const DemoPassword = "secret"

type Hasher interface {
	Hash(plain string) (string, error)
}

// DemoFriends is the fixed development data set.
var DemoFriends = []friend.Friend{
	{FirstName: "Peter", LastName: "Pan", Email: "pp@b.dk", Role: friend.RoleUser},
	{FirstName: "Donald", LastName: "Duck", Email: "dd@b.dk", Role: friend.RoleUser},
	{FirstName: "Ad", LastName: "Admin", Email: "aa@a.dk", Role: friend.RoleAdmin},
}

// SeedFriends inserts the demo friends with DemoPassword. Emails that already
// exist are left alone. It returns how many records were created.
func SeedFriends(ctx context.Context, store friend.Store, hasher Hasher, log *slog.Logger) (int, error) {
	hash, err := hasher.Hash(DemoPassword)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, f := range DemoFriends {
		_, err := store.FindByEmail(ctx, f.Email)
		if err == nil {
			log.Debug("seed skipped", "email", f.Email)
			continue
		}
		if !apperr.Is(err, apperr.CodeNotFound) {
			return created, err
		}

		f.PasswordHash = hash
		if _, err := store.Create(ctx, f); err != nil {
			// lost a race with another seeder
			if apperr.Is(err, apperr.CodeConflict) {
				continue
			}
			return created, err
		}

		created++
		log.Info("seeded friend", "email", f.Email, "role", f.Role)
	}

	return created, nil
}
