package handlers

import (
	"context"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/models"
	"storefront/internal/session"
)

type ProductCatalog interface {
	FindProducts(ctx context.Context, ids []int64) (map[int64]models.Product, error)
	Product(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, filter catalog.Filter) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

type CartStore interface {
	Add(ctx context.Context, sessionID string, productID int64) error
	SetQuantity(ctx context.Context, sessionID string, productID int64, delta int) (int, error)
	Remove(ctx context.Context, sessionID string, productID int64) error
	Clear(ctx context.Context, sessionID string) error
	Snapshot(ctx context.Context, sessionID string) (cart.Snapshot, error)
}

type CheckoutStager interface {
	Stage(ctx context.Context, sessionID string, delivery models.DeliveryMethod, payment models.PaymentMethod, source checkout.AddressSource) (checkout.Selection, error)
	Load(ctx context.Context, sessionID string) (checkout.Selection, error)
	Clear(ctx context.Context, sessionID string) error
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, sc session.Context) (*models.Order, error)
}

type OrderStore interface {
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	Delete(ctx context.Context, id int64) error
}

type ProfileStore interface {
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, address models.Address) (*models.User, error)
}

// HealthCheck pings one backing service.
type HealthCheck func(ctx context.Context) error
