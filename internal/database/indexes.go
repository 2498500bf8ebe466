package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	categoryIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}, {Key: "isActive", Value: 1}},
		Options: options.Index().SetName("category_active_index"),
	}

	log.Println("EnsureProductIndexes: creating category_active_index index")
	_, err := indexes.CreateOne(ctx, categoryIndex)
	if err != nil {
		log.Println("EnsureProductIndexes: category index error:", err)
		return err
	}
	log.Println("EnsureProductIndexes: category_active_index index created")
	return nil
}

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	usernameIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}},
		Options: options.Index().
			SetName("username_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating username_unique index")
	_, err := indexes.CreateOne(ctx, usernameIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: username index error:", err)
		return err
	}
	log.Println("EnsureUserIndexes: username_unique index created")
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("userId_createdAt_index"),
	}

	log.Println("EnsureOrderIndexes: creating userId_createdAt_index index")
	if _, err := db.Collection("orders").Indexes().CreateOne(ctx, userIDIndex); err != nil {
		log.Println("EnsureOrderIndexes: userId index error:", err)
		return err
	}
	log.Println("EnsureOrderIndexes: userId_createdAt_index index created")

	orderIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "orderId", Value: 1}},
		Options: options.Index().SetName("orderId_index"),
	}

	log.Println("EnsureOrderIndexes: creating order_items orderId_index index")
	if _, err := db.Collection("order_items").Indexes().CreateOne(ctx, orderIDIndex); err != nil {
		log.Println("EnsureOrderIndexes: orderId index error:", err)
		return err
	}
	log.Println("EnsureOrderIndexes: orderId_index index created")
	return nil
}
