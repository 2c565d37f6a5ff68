package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/geocoder89/friendhub/internal/apperr"
	"github.com/geocoder89/friendhub/internal/domain/friend"
	"github.com/geocoder89/friendhub/internal/observability"
)

const (
	driver         = "mongo"
	CollectionName = "friends"
	emailIndexName = "email_unique"
)

type document struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d document) toFriend() friend.Friend {
	return friend.Friend{
		ID:           d.ID.Hex(),
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type FriendsRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

func NewFriendsRepo(coll *mongo.Collection, prom *observability.Prom) *FriendsRepo {
	return &FriendsRepo{coll: coll, prom: prom}
}

func (r *FriendsRepo) observe(op string, fn func() error) error {
	return r.prom.ObserveStore(driver, op, fn)
}

// EnsureIndexes creates the unique email index. It is idempotent.
func (r *FriendsRepo) EnsureIndexes(ctx context.Context) error {
	const op = "friends.ensure_indexes"

	err := r.observe(op, func() error {
		_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(emailIndexName),
		})
		return err
	})

	return apperr.Store(op, err)
}

func (r *FriendsRepo) Create(ctx context.Context, f friend.Friend) (string, error) {
	const op = "friends.create"

	now := time.Now().UTC()
	doc := document{
		ID:        primitive.NewObjectID(),
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Password:  f.PasswordHash,
		Role:      f.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.observe(op, func() error {
		_, err := r.coll.InsertOne(ctx, doc)
		return err
	})

	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperr.Conflict("email already registered")
		}
		return "", apperr.Store(op, err)
	}

	return doc.ID.Hex(), nil
}

// UpdateByEmail reports the matched count so an edit that happens to write
// identical values still counts as one.
func (r *FriendsRepo) UpdateByEmail(ctx context.Context, email string, u friend.Update) (int64, error) {
	const op = "friends.update_by_email"

	var res *mongo.UpdateResult

	err := r.observe(op, func() error {
		var err error
		res, err = r.coll.UpdateOne(ctx,
			bson.D{{Key: "email", Value: email}},
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "firstName", Value: u.FirstName},
				{Key: "lastName", Value: u.LastName},
				{Key: "email", Value: u.Email},
				{Key: "password", Value: u.PasswordHash},
				{Key: "updatedAt", Value: time.Now().UTC()},
			}}},
		)
		return err
	})

	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, apperr.Conflict("email already registered")
		}
		return 0, apperr.Store(op, err)
	}

	return res.MatchedCount, nil
}

func (r *FriendsRepo) DeleteByEmail(ctx context.Context, email string) (bool, error) {
	const op = "friends.delete_by_email"

	var res *mongo.DeleteResult

	err := r.observe(op, func() error {
		var err error
		res, err = r.coll.DeleteOne(ctx, bson.D{{Key: "email", Value: email}})
		return err
	})

	if err != nil {
		return false, apperr.Store(op, err)
	}

	return res.DeletedCount > 0, nil
}

func (r *FriendsRepo) FindByEmail(ctx context.Context, email string) (friend.Friend, error) {
	const op = "friends.find_by_email"

	var (
		doc   document
		found = true
	)

	err := r.observe(op, func() error {
		err := r.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			found = false
			return nil
		}
		return err
	})

	if err != nil {
		return friend.Friend{}, apperr.Store(op, err)
	}

	if !found {
		return friend.Friend{}, apperr.NotFound("friend")
	}

	return doc.toFriend(), nil
}

func (r *FriendsRepo) List(ctx context.Context) ([]friend.Friend, error) {
	const op = "friends.list"

	var docs []document

	err := r.observe(op, func() error {
		cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
		if err != nil {
			return err
		}

		return cur.All(ctx, &docs)
	})

	if err != nil {
		return nil, apperr.Store(op, err)
	}

	out := make([]friend.Friend, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toFriend())
	}

	return out, nil
}

func (r *FriendsRepo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
