package order

import (
	"context"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/models"
)

// Catalog resolves product ids to current catalog entries. Unknown ids are
// absent from the result.
type Catalog interface {
	FindProducts(ctx context.Context, ids []int64) (map[int64]models.Product, error)
}

type CartStore interface {
	Snapshot(ctx context.Context, sessionID string) (cart.Snapshot, error)
	Clear(ctx context.Context, sessionID string) error
}

type SelectionStore interface {
	Load(ctx context.Context, sessionID string) (checkout.Selection, error)
	Clear(ctx context.Context, sessionID string) error
}

// Tx is the write side of one order transaction.
type Tx interface {
	NextOrderID(ctx context.Context) (int64, error)
	InsertOrder(ctx context.Context, order *models.Order) error
	// InsertOrderItem assigns item.ID.
	InsertOrderItem(ctx context.Context, item *models.OrderItem) error
}

// Repository persists orders. WithinTx commits only when fn returns nil;
// otherwise nothing written through tx is kept. fn may be retried on
// transient store errors.
type Repository interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	Delete(ctx context.Context, id int64) error
}

// Publisher announces committed orders.
type Publisher interface {
	OrderPlaced(ctx context.Context, order *models.Order) error
}
