package friend

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Friend struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Input is the registration/edit payload. It deliberately has no role field:
// a client supplied role is dropped when the body is decoded.
type Input struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=40"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=4,max=30"`
}

// Update is the set of fields an edit replaces. PasswordHash is already hashed.
type Update struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
}

// Public is the outward projection of a friend.
type Public struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (f Friend) Public() Public {
	return Public{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
	}
}

func PublicList(friends []Friend) []Public {
	out := make([]Public, 0, len(friends))
	for _, f := range friends {
		out = append(out, f.Public())
	}

	return out
}

// Identity is what the authentication gate attaches to an admitted request.
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Store is the credential store. Email is the lookup key everywhere.
//
// Create and UpdateByEmail fail with a conflict when the email is taken.
// UpdateByEmail returns 0 when nothing matched and never inserts.
// FindByEmail fails with a not found error when absent.
type Store interface {
	Create(ctx context.Context, f Friend) (string, error)
	UpdateByEmail(ctx context.Context, email string, u Update) (int64, error)
	DeleteByEmail(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (Friend, error)
	List(ctx context.Context) ([]Friend, error)
}
