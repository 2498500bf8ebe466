package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/catalog"
	"storefront/internal/models"
)

// ProductRepository reads the products collection. Products flagged
// isActive=false are treated as gone.
type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection("products")}
}

func activeFilter() bson.M {
	return bson.M{"isActive": bson.M{"$ne": false}}
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	filter := activeFilter()
	filter["_id"] = bson.M{"$in": ids}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeProducts(ctx, cursor)
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	filter := activeFilter()
	filter["_id"] = id

	var product models.Product
	err := r.collection.FindOne(ctx, filter).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, catalog.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	product.IsOnSale = product.OnSale()
	return &product, nil
}

func (r *ProductRepository) List(ctx context.Context, f catalog.Filter) ([]models.Product, error) {
	filter := activeFilter()

	if category := strings.TrimSpace(f.Category); category != "" {
		filter["category"] = bson.M{"$in": []string{category}}
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})

	if f.Page > 0 && f.Limit > 0 {
		findOptions.
			SetSkip((f.Page - 1) * f.Limit).
			SetLimit(f.Limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeProducts(ctx, cursor)
}

func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "category", activeFilter())
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}

	categories := make([]string, 0, len(values))
	for _, value := range values {
		if name, ok := value.(string); ok && strings.TrimSpace(name) != "" {
			categories = append(categories, strings.TrimSpace(name))
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	products := make([]models.Product, 0)

	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		product.IsOnSale = product.OnSale()
		products = append(products, product)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
