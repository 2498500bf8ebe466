package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection("users")}
}

func (r *UserRepository) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

// UpdateProfile overwrites the shipping fields of a profile and returns the
// updated document.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, address models.Address) (*models.User, error) {
	update := bson.M{
		"$set": bson.M{
			"firstName":   address.FirstName,
			"lastName":    address.LastName,
			"email":       address.Email,
			"street":      address.Street,
			"houseNumber": address.HouseNumber,
			"postalCode":  address.PostalCode,
			"city":        address.City,
			"updatedAt":   time.Now().UTC(),
		},
	}

	var user models.User
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile %d: %w", id, err)
	}
	return &user, nil
}
