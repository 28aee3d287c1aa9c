package repository

import (
	"context"
	"fmt"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/store"
)

// UsersCollection is the collection name users are stored under.
const UsersCollection = "users"

var userSchema = recordSchema{name: "user", keys: model.UserFields}

// UserRepository provides data access methods for user accounts.
// Usernames are unique; the store enforces this with an index.
type UserRepository struct {
	collection store.Collection
}

// NewUserRepository creates a new UserRepository over the given collection.
func NewUserRepository(collection store.Collection) *UserRepository {
	return &UserRepository{collection: collection}
}

// Create stores a user from exactly {username, hashed_password}.
// Returns ErrDuplicateEntry when the username is taken.
func (r *UserRepository) Create(ctx context.Context, fields store.Document) (model.User, error) {
	if err := userSchema.checkCreate(fields); err != nil {
		return model.User{}, err
	}
	var draft model.UserDraft
	if err := decodeInto(fields, &draft); err != nil {
		return model.User{}, err
	}
	if draft.Username == "" || draft.HashedPassword == "" {
		return model.User{}, fmt.Errorf("%w: username and hashed_password must not be empty", apperrors.ErrSchemaMismatch)
	}
	doc, err := store.Encode(draft)
	if err != nil {
		return model.User{}, err
	}

	id, err := r.collection.Create(ctx, doc)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return r.GetByID(ctx, id.String())
}

// GetByID returns the user with the given id, or the zero value when none exists.
func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	uid, err := store.ParseID(id)
	if err != nil {
		return model.User{}, err
	}

	doc, err := r.collection.GetByID(ctx, uid)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	if doc == nil {
		return model.User{}, nil
	}
	return serialize[model.User](userSchema, doc)
}

// GetByUsername returns the user with the given username, or the zero value.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	docs, err := r.collection.GetAllByKey(ctx, "username", username)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	if len(docs) == 0 {
		return model.User{}, nil
	}
	return serialize[model.User](userSchema, docs[0])
}

// UpdateByUsername replaces the named user fields and returns the new state,
// or the zero value when the username is unknown.
func (r *UserRepository) UpdateByUsername(ctx context.Context, username string, fields store.Document) (model.User, error) {
	if err := userSchema.checkUpdate(fields); err != nil {
		return model.User{}, err
	}
	var patch struct {
		Username       *string `json:"username,omitempty"`
		HashedPassword *string `json:"hashed_password,omitempty"`
	}
	if err := decodeInto(fields, &patch); err != nil {
		return model.User{}, err
	}
	doc, err := store.Encode(patch)
	if err != nil {
		return model.User{}, err
	}

	existing, err := r.GetByUsername(ctx, username)
	if err != nil || existing.IsZero() {
		return existing, err
	}

	uid, err := store.ParseID(existing.ID)
	if err != nil {
		return model.User{}, err
	}
	res, err := r.collection.UpdateByID(ctx, uid, doc)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	if !res.Updated {
		return model.User{}, nil
	}
	return r.GetByID(ctx, existing.ID)
}

// DeleteByUsername removes a user and returns its last state, or the zero
// value when the username is unknown.
func (r *UserRepository) DeleteByUsername(ctx context.Context, username string) (model.User, error) {
	existing, err := r.GetByUsername(ctx, username)
	if err != nil || existing.IsZero() {
		return existing, err
	}

	uid, err := store.ParseID(existing.ID)
	if err != nil {
		return model.User{}, err
	}
	if _, err := r.collection.DeleteByID(ctx, uid); err != nil {
		return model.User{}, fmt.Errorf("failed to delete user: %w", err)
	}
	return existing, nil
}
