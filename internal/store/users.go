// Package store persists user accounts in MongoDB.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

// User is one account record. Password holds the bcrypt hash, never the
// plaintext.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Password  []byte             `bson:"password"`
	CreatedAt time.Time          `bson:"created_at"`
}

// UserStore is the persistence surface the handlers depend on. Tests
// substitute an in-memory fake.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, email string, passwordHash []byte) error
}

// MongoStore backs UserStore with a MongoDB collection keyed by a unique
// email index.
type MongoStore struct {
	users *mongo.Collection
}

// Connect dials MongoDB, verifies the connection, and ensures the unique
// index on email.
func Connect(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	users := client.Database(database).Collection("users")
	_, err = users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("ensure email index: %w", err)
	}

	return &MongoStore{users: users}, nil
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *MongoStore) Create(ctx context.Context, email string, passwordHash []byte) error {
	_, err := s.users.InsertOne(ctx, User{
		Email:     email,
		Password:  passwordHash,
		CreatedAt: time.Now().UTC(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
