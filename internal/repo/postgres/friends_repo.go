package postgres

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"

	"github.com/geocoder89/friendhub/internal/apperr"
	"github.com/geocoder89/friendhub/internal/domain/friend"
	"github.com/geocoder89/friendhub/internal/observability"
)

const driver = "postgres"

// Pool is the subset of *pgxpool.Pool the repo needs; pgxmock satisfies it too.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// document is the jsonb body of a friends row. email lives in its own unique
// column so the lookup key is indexed and constrained.
type document struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
}

type FriendsRepo struct {
	pool Pool
	prom *observability.Prom

	entropyMu sync.Mutex
	entropy   io.Reader
}

func NewFriendsRepo(pool Pool, prom *observability.Prom) *FriendsRepo {
	return &FriendsRepo{
		pool:    pool,
		prom:    prom,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (r *FriendsRepo) observe(op string, fn func() error) error {
	return r.prom.ObserveStore(driver, op, fn)
}

func (r *FriendsRepo) newID(now time.Time) (string, error) {
	r.entropyMu.Lock()
	defer r.entropyMu.Unlock()

	id, err := ulid.New(ulid.Timestamp(now), r.entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *FriendsRepo) Create(ctx context.Context, f friend.Friend) (string, error) {
	const op = "friends.create"

	now := time.Now().UTC()
	id, err := r.newID(now)
	if err != nil {
		return "", apperr.Store(op, err)
	}

	doc, err := json.Marshal(document{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Password:  f.PasswordHash,
		Role:      f.Role,
	})
	if err != nil {
		return "", apperr.Store(op, err)
	}

	err = r.observe(op, func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO friends (id, email, doc, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
			id, f.Email, doc, now, now,
		)
		return err
	})

	if err != nil {
		if isUniqueViolation(err) {
			return "", apperr.Conflict("email already registered")
		}
		return "", apperr.Store(op, err)
	}

	return id, nil
}

// UpdateByEmail merges the new fields into the stored document, so role and
// any other server-side keys survive an edit.
func (r *FriendsRepo) UpdateByEmail(ctx context.Context, email string, u friend.Update) (int64, error) {
	const op = "friends.update_by_email"

	patch, err := json.Marshal(document{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Password:  u.PasswordHash,
	})
	if err != nil {
		return 0, apperr.Store(op, err)
	}

	var tag pgconn.CommandTag

	err = r.observe(op, func() error {
		var err error
		tag, err = r.pool.Exec(ctx,
			`UPDATE friends SET email = $2, doc = doc || $3::jsonb, updated_at = $4 WHERE email = $1`,
			email, u.Email, patch, time.Now().UTC(),
		)
		return err
	})

	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperr.Conflict("email already registered")
		}
		return 0, apperr.Store(op, err)
	}

	return tag.RowsAffected(), nil
}

func (r *FriendsRepo) DeleteByEmail(ctx context.Context, email string) (bool, error) {
	const op = "friends.delete_by_email"

	var tag pgconn.CommandTag

	err := r.observe(op, func() error {
		var err error
		tag, err = r.pool.Exec(ctx, `DELETE FROM friends WHERE email = $1`, email)
		return err
	})

	if err != nil {
		return false, apperr.Store(op, err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *FriendsRepo) FindByEmail(ctx context.Context, email string) (friend.Friend, error) {
	const op = "friends.find_by_email"

	var f friend.Friend

	err := r.observe(op, func() error {
		row := r.pool.QueryRow(ctx,
			`SELECT id, email, doc, created_at, updated_at FROM friends WHERE email = $1`,
			email,
		)

		var err error
		f, err = scanFriend(row)
		if errors.Is(err, pgx.ErrNoRows) {
			// a miss is not a store error
			return nil
		}
		return err
	})

	if err != nil {
		return friend.Friend{}, apperr.Store(op, err)
	}

	if f.ID == "" {
		return friend.Friend{}, apperr.NotFound("friend")
	}

	return f, nil
}

func (r *FriendsRepo) List(ctx context.Context) ([]friend.Friend, error) {
	const op = "friends.list"

	out := make([]friend.Friend, 0)

	err := r.observe(op, func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, email, doc, created_at, updated_at FROM friends ORDER BY created_at ASC, id ASC`,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			f, err := scanFriend(rows)
			if err != nil {
				return err
			}
			out = append(out, f)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, apperr.Store(op, err)
	}

	return out, nil
}

func (r *FriendsRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanFriend(row pgx.Row) (friend.Friend, error) {
	var (
		f   friend.Friend
		raw []byte
		doc document
	)

	err := row.Scan(&f.ID, &f.Email, &raw, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return friend.Friend{}, err
	}

	err = json.Unmarshal(raw, &doc)
	if err != nil {
		return friend.Friend{}, err
	}

	f.FirstName = doc.FirstName
	f.LastName = doc.LastName
	f.PasswordHash = doc.Password
	f.Role = doc.Role

	return f, nil
}
