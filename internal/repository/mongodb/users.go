package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mamadbah2/agricure/internal/domain/models"
)

// CreateUser inserts a new account. A duplicate e-mail yields models.ErrConflict.
func (r *MongoDBRepository) CreateUser(ctx context.Context, user models.User) error {
	_, err := r.db.Collection(usersCollection).InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail looks an account up by its normalized e-mail.
func (r *MongoDBRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := r.findOne(ctx, usersCollection, bson.M{"email": email}, &user); err != nil {
		return models.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

// GetUserByID looks an account up by ID.
func (r *MongoDBRepository) GetUserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	if err := r.findOne(ctx, usersCollection, bson.M{"_id": id}, &user); err != nil {
		return models.User{}, fmt.Errorf("find user %s: %w", id, err)
	}
	return user, nil
}

// UpdateUser replaces a stored account.
func (r *MongoDBRepository) UpdateUser(ctx context.Context, user models.User) error {
	if err := r.replaceByID(ctx, usersCollection, user.ID, user); err != nil {
		return fmt.Errorf("update user %s: %w", user.ID, err)
	}
	return nil
}
