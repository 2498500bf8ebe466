package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/order"
)

func setupMongo(t *testing.T) (*mongo.Database, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	// Transactions need a replica set.
	mongoContainer, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetDirect(true).
		SetRegistry(database.Registry()))
	require.NoError(t, err)

	db := client.Database("testdb")
	require.NoError(t, database.EnsureOrderIndexes(db))

	cleanup := func() {
		_ = client.Disconnect(ctx)
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return db, cleanup
}

func TestMongoOrders_CreateAndFind(t *testing.T) {
	db, cleanup := setupMongo(t)
	defer cleanup()
	repo := NewMongoOrderRepository(db)
	ctx := context.Background()

	userID := int64(3)
	o := newTestOrder(&userID)
	items := []models.OrderItem{
		{ProductID: 1, Quantity: 2, Price: decimal.RequireFromString("12.50")},
		{ProductID: 4, Quantity: 1, Price: decimal.RequireFromString("14.00")},
	}
	require.NoError(t, placeOrder(ctx, repo, o, items))
	assert.Equal(t, int64(1), o.ID)

	fetched, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.UserID)
	assert.Equal(t, userID, *fetched.UserID)
	assert.True(t, fetched.Total.Equal(o.Total))
	assert.Equal(t, o.Address, fetched.Address)
	require.Len(t, fetched.Items, 2)
	assert.True(t, fetched.Items[0].Price.Equal(decimal.RequireFromString("12.50")))

	// price is stored as Decimal128, not a float
	var raw bson.M
	require.NoError(t, db.Collection("order_items").FindOne(ctx, bson.M{"productId": int64(1)}).Decode(&raw))
	_, isFloat := raw["price"].(float64)
	assert.False(t, isFloat)
}

func TestMongoOrders_SequentialIDs(t *testing.T) {
	db, cleanup := setupMongo(t)
	defer cleanup()
	repo := NewMongoOrderRepository(db)
	ctx := context.Background()

	first := newTestOrder(nil)
	require.NoError(t, placeOrder(ctx, repo, first, nil))
	second := newTestOrder(nil)
	require.NoError(t, placeOrder(ctx, repo, second, nil))

	assert.Equal(t, first.ID+1, second.ID)
}

// failingItemTx fails the n-th item insert of a transaction.
type failingItemTx struct {
	order.Tx
	failOn int
	seen   int
}

var errItemWrite = errors.New("item write failed")

func (t *failingItemTx) InsertOrderItem(ctx context.Context, item *models.OrderItem) error {
	t.seen++
	if t.seen == t.failOn {
		return errItemWrite
	}
	return t.Tx.InsertOrderItem(ctx, item)
}

func TestMongoOrders_RollbackOnItemFailure(t *testing.T) {
	db, cleanup := setupMongo(t)
	defer cleanup()
	repo := NewMongoOrderRepository(db)
	ctx := context.Background()

	o := newTestOrder(nil)
	items := []models.OrderItem{
		{ProductID: 1, Quantity: 1, Price: decimal.NewFromInt(10)},
		{ProductID: 2, Quantity: 2, Price: decimal.NewFromInt(10)},
	}
	err := repo.WithinTx(ctx, func(ctx context.Context, tx order.Tx) error {
		failing := &failingItemTx{Tx: tx, failOn: 2}
		id, err := failing.NextOrderID(ctx)
		if err != nil {
			return err
		}
		o.ID = id
		if err := failing.InsertOrder(ctx, o); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = id
			if err := failing.InsertOrderItem(ctx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	require.ErrorIs(t, err, errItemWrite)

	for _, name := range []string{"orders", "order_items"} {
		count, err := db.Collection(name).CountDocuments(ctx, bson.M{})
		require.NoError(t, err)
		assert.Zero(t, count, "collection %s", name)
	}
	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// the id drawn by the aborted transaction is handed out again
	next := newTestOrder(nil)
	require.NoError(t, placeOrder(ctx, repo, next, nil))
	assert.Equal(t, o.ID, next.ID)
}

func TestMongoOrders_ListByUserNewestFirst(t *testing.T) {
	db, cleanup := setupMongo(t)
	defer cleanup()
	repo := NewMongoOrderRepository(db)
	ctx := context.Background()

	userID := int64(9)
	older := newTestOrder(&userID)
	older.CreatedAt = time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Millisecond)
	require.NoError(t, placeOrder(ctx, repo, older, nil))
	newer := newTestOrder(&userID)
	require.NoError(t, placeOrder(ctx, repo, newer, nil))
	require.NoError(t, placeOrder(ctx, repo, newTestOrder(nil), nil))

	orders, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)
}

func TestMongoOrders_DeleteRemovesItems(t *testing.T) {
	db, cleanup := setupMongo(t)
	defer cleanup()
	repo := NewMongoOrderRepository(db)
	ctx := context.Background()

	o := newTestOrder(nil)
	require.NoError(t, placeOrder(ctx, repo, o, []models.OrderItem{
		{ProductID: 1, Quantity: 1, Price: decimal.NewFromInt(10)},
	}))

	require.NoError(t, repo.Delete(ctx, o.ID))

	count, err := db.Collection("order_items").CountDocuments(ctx, bson.M{"orderId": o.ID})
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = repo.FindByID(ctx, o.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, o.ID), ErrOrderNotFound)
}
