package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
	"storefront/internal/order"
)

// MongoOrderRepository stores headers in "orders" and lines in "order_items".
// Integer ids come from the "counters" collection and are drawn inside the
// same transaction as the inserts.
type MongoOrderRepository struct {
	client   *mongo.Client
	orders   *mongo.Collection
	items    *mongo.Collection
	counters *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		client:   db.Client(),
		orders:   db.Collection("orders"),
		items:    db.Collection("order_items"),
		counters: db.Collection("counters"),
	}
}

func (r *MongoOrderRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx order.Tx) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx, mongoTx{repo: r})
	})
	return err
}

type mongoTx struct {
	repo *MongoOrderRepository
}

func (t mongoTx) NextOrderID(ctx context.Context) (int64, error) {
	return t.repo.nextSequence(ctx, "orders")
}

func (t mongoTx) InsertOrder(ctx context.Context, o *models.Order) error {
	if _, err := t.repo.orders.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert order %d: %w", o.ID, err)
	}
	return nil
}

func (t mongoTx) InsertOrderItem(ctx context.Context, item *models.OrderItem) error {
	id, err := t.repo.nextSequence(ctx, "order_items")
	if err != nil {
		return err
	}
	item.ID = id

	if _, err := t.repo.items.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("insert order item %d: %w", id, err)
	}
	return nil
}

func (r *MongoOrderRepository) nextSequence(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return counter.Seq, nil
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order %d: %w", id, err)
	}

	items, err := r.loadItems(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	o.Items = items[id]
	return &o, nil
}

func (r *MongoOrderRepository) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

func (r *MongoOrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *MongoOrderRepository) list(ctx context.Context, filter bson.M) ([]models.Order, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.orders.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *MongoOrderRepository) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]models.OrderItem, error) {
	cursor, err := r.items.Find(
		ctx,
		bson.M{"orderId": bson.M{"$in": orderIDs}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find order items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}

	byOrder := make(map[int64][]models.OrderItem, len(orderIDs))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	return byOrder, nil
}

// Delete removes the order header and its items in one transaction.
func (r *MongoOrderRepository) Delete(ctx context.Context, id int64) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		result, err := r.orders.DeleteOne(sessCtx, bson.M{"_id": id})
		if err != nil {
			return nil, fmt.Errorf("delete order %d: %w", id, err)
		}
		if result.DeletedCount == 0 {
			return nil, ErrOrderNotFound
		}
		if _, err := r.items.DeleteMany(sessCtx, bson.M{"orderId": id}); err != nil {
			return nil, fmt.Errorf("delete items of order %d: %w", id, err)
		}
		return nil, nil
	})
	return err
}
