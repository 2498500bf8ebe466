package order

import (
	"context"
	"fmt"
	"log"
	"time"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/session"
)

type Dependencies struct {
	Catalog    Catalog
	Repository Repository
	Carts      CartStore
	Selections SelectionStore
	// Publisher and Metrics are optional.
	Publisher Publisher
	Metrics   *metrics.Metrics
	Now       func() time.Time
	// PublishTimeout bounds the order event publish. Defaults to
	// DefaultPublishTimeout.
	PublishTimeout time.Duration
}

const DefaultPublishTimeout = 2 * time.Second

type Service struct {
	catalog    Catalog
	repo       Repository
	carts      CartStore
	selections SelectionStore
	publisher  Publisher
	metrics    *metrics.Metrics
	now        func() time.Time

	publishTimeout time.Duration
}

func NewService(deps Dependencies) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	publishTimeout := deps.PublishTimeout
	if publishTimeout <= 0 {
		publishTimeout = DefaultPublishTimeout
	}
	return &Service{
		catalog:        deps.Catalog,
		repo:           deps.Repository,
		carts:          deps.Carts,
		selections:     deps.Selections,
		publisher:      deps.Publisher,
		metrics:        deps.Metrics,
		now:            now,
		publishTimeout: publishTimeout,
	}
}

// PlaceOrder converts the session's cart and staged checkout into an order.
// Cart and checkout state are cleared only after the order is committed.
func (s *Service) PlaceOrder(ctx context.Context, sc session.Context) (*models.Order, error) {
	order, err := s.placeForSession(ctx, sc)
	if err != nil {
		s.metrics.CheckoutFailed(FailureReason(err))
		return nil, err
	}

	s.metrics.OrderPlaced(string(order.DeliveryMethod), string(order.PaymentMethod))
	s.cleanup(ctx, sc.ID)

	s.publish(ctx, order)

	if sc.Guest() {
		log.Printf("[CHECKOUT] [INFO] guest order %d placed, total %s", order.ID, order.Total)
	} else {
		log.Printf("[CHECKOUT] [INFO] order %d placed for user %d, total %s", order.ID, sc.Identity.UserID, order.Total)
	}
	return order, nil
}

// publish runs detached from the request so a committed order is never held
// up or failed by the event stream.
func (s *Service) publish(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	if err := s.publisher.OrderPlaced(pubCtx, order); err != nil {
		log.Printf("[CHECKOUT] [ERROR] publish order %d failed: %v", order.ID, err)
	}
}

func (s *Service) placeForSession(ctx context.Context, sc session.Context) (*models.Order, error) {
	snapshot, err := s.carts.Snapshot(ctx, sc.ID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	selection, err := s.selections.Load(ctx, sc.ID)
	if err != nil {
		return nil, fmt.Errorf("load checkout selection: %w", err)
	}
	return s.Place(ctx, snapshot, selection, sc.UserID())
}

// Place validates the inputs, prices the cart from the current catalog and
// writes the order with its items in one transaction. It has no side effects
// on cart or checkout state.
func (s *Service) Place(ctx context.Context, snapshot cart.Snapshot, selection checkout.Selection, userID *int64) (*models.Order, error) {
	if snapshot.Empty() {
		return nil, ErrEmptyCart
	}
	if !selection.Complete() {
		return nil, ErrIncompleteCheckout
	}

	products, err := s.catalog.FindProducts(ctx, snapshot.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("resolve catalog: %w", err)
	}

	items, subtotal := PriceLines(snapshot, products)
	if len(items) == 0 {
		log.Printf("[CHECKOUT] [ERROR] none of %d cart lines resolved in catalog", len(snapshot))
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		UserID:         userID,
		Total:          subtotal.Add(Surcharge(selection.DeliveryMethod)),
		Status:         StatusFor(selection.PaymentMethod),
		CreatedAt:      s.now().UTC(),
		DeliveryMethod: selection.DeliveryMethod,
		PaymentMethod:  selection.PaymentMethod,
		Address:        *selection.Address,
	}

	err = s.repo.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		id, err := tx.NextOrderID(ctx)
		if err != nil {
			return fmt.Errorf("next order id: %w", err)
		}
		order.ID = id

		if err := tx.InsertOrder(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		for i := range items {
			items[i].OrderID = id
			if err := tx.InsertOrderItem(ctx, &items[i]); err != nil {
				return fmt.Errorf("insert item for product %d: %w", items[i].ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[CHECKOUT] [ERROR] persist order failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	order.Items = items
	return order, nil
}

func (s *Service) cleanup(ctx context.Context, sessionID string) {
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		log.Printf("[CHECKOUT] [ERROR] clear cart after order failed: %v", err)
	}
	if err := s.selections.Clear(ctx, sessionID); err != nil {
		log.Printf("[CHECKOUT] [ERROR] clear checkout selection after order failed: %v", err)
	}
}
