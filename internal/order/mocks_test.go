package order

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/models"
)

var errStoreDown = errors.New("store unavailable")

type mockCatalog struct {
	products map[int64]models.Product
	err      error
	calls    [][]int64
}

func (m *mockCatalog) FindProducts(_ context.Context, ids []int64) (map[int64]models.Product, error) {
	m.calls = append(m.calls, ids)
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[int64]models.Product)
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type mockCarts struct {
	carts      map[string]cart.Snapshot
	clearCalls int
	onClear    func()
}

func (m *mockCarts) Snapshot(_ context.Context, sessionID string) (cart.Snapshot, error) {
	snapshot := cart.Snapshot{}
	for id, qty := range m.carts[sessionID] {
		snapshot[id] = qty
	}
	return snapshot, nil
}

func (m *mockCarts) Clear(_ context.Context, sessionID string) error {
	m.clearCalls++
	delete(m.carts, sessionID)
	if m.onClear != nil {
		m.onClear()
	}
	return nil
}

type mockSelections struct {
	selections map[string]checkout.Selection
	clearCalls int
}

func (m *mockSelections) Load(_ context.Context, sessionID string) (checkout.Selection, error) {
	return m.selections[sessionID], nil
}

func (m *mockSelections) Clear(_ context.Context, sessionID string) error {
	m.clearCalls++
	delete(m.selections, sessionID)
	return nil
}

// memoryRepository commits buffered writes only when the tx callback succeeds.
// failOnItem makes the n-th InsertOrderItem call of a transaction fail.
type memoryRepository struct {
	mu         sync.Mutex
	orders     map[int64]models.Order
	items      []models.OrderItem
	lastOrder  int64
	lastItem   int64
	failOnItem int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{orders: map[int64]models.Order{}}
}

type memoryTx struct {
	repo      *memoryRepository
	orders    []models.Order
	items     []models.OrderItem
	nextOrder int64
	nextItem  int64
	itemCalls int
}

func (t *memoryTx) NextOrderID(context.Context) (int64, error) {
	t.nextOrder++
	return t.nextOrder, nil
}

func (t *memoryTx) InsertOrder(_ context.Context, o *models.Order) error {
	t.orders = append(t.orders, *o)
	return nil
}

func (t *memoryTx) InsertOrderItem(_ context.Context, item *models.OrderItem) error {
	t.itemCalls++
	if t.repo.failOnItem > 0 && t.itemCalls == t.repo.failOnItem {
		return errStoreDown
	}
	t.nextItem++
	item.ID = t.nextItem
	t.items = append(t.items, *item)
	return nil
}

func (r *memoryRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &memoryTx{repo: r, nextOrder: r.lastOrder, nextItem: r.lastItem}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	for _, o := range tx.orders {
		r.orders[o.ID] = o
	}
	r.items = append(r.items, tx.items...)
	r.lastOrder = tx.nextOrder
	r.lastItem = tx.nextItem
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id int64) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, errors.New("order not found")
	}
	for _, item := range r.items {
		if item.OrderID == id {
			o.Items = append(o.Items, item)
		}
	}
	return &o, nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID int64) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Order
	for _, o := range r.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memoryRepository) ListAll(_ context.Context) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.orders, id)
	kept := r.items[:0]
	for _, item := range r.items {
		if item.OrderID != id {
			kept = append(kept, item)
		}
	}
	r.items = kept
	return nil
}

type mockPublisher struct {
	published []int64
	err       error
	ctxErr    error
	deadline  time.Time
}

func (m *mockPublisher) OrderPlaced(ctx context.Context, o *models.Order) error {
	m.published = append(m.published, o.ID)
	m.ctxErr = ctx.Err()
	m.deadline, _ = ctx.Deadline()
	return m.err
}
