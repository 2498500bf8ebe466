package routes

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/order"
	"storefront/internal/repository"
)

var errWriteFailed = errors.New("write failed")

type stubSource struct {
	products map[int64]models.Product
}

func (s *stubSource) FindByIDs(_ context.Context, ids []int64) ([]models.Product, error) {
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubSource) FindByID(_ context.Context, id int64) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &p, nil
}

func (s *stubSource) List(_ context.Context, f catalog.Filter) ([]models.Product, error) {
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if f.Category != "" && !p.Category.Contains(f.Category) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubSource) Categories(context.Context) ([]string, error) {
	return []string{"bread", "cakes"}, nil
}

type memoryOrders struct {
	mu         sync.Mutex
	orders     map[int64]models.Order
	lastID     int64
	lastItem   int64
	failWrites bool
}

func newMemoryOrders() *memoryOrders {
	return &memoryOrders{orders: map[int64]models.Order{}}
}

type memoryOrdersTx struct {
	repo    *memoryOrders
	pending []models.Order
	items   []models.OrderItem
}

func (t *memoryOrdersTx) NextOrderID(context.Context) (int64, error) {
	return t.repo.lastID + int64(len(t.pending)) + 1, nil
}

func (t *memoryOrdersTx) InsertOrder(_ context.Context, o *models.Order) error {
	if t.repo.failWrites {
		return errWriteFailed
	}
	t.pending = append(t.pending, *o)
	return nil
}

func (t *memoryOrdersTx) InsertOrderItem(_ context.Context, item *models.OrderItem) error {
	item.ID = t.repo.lastItem + int64(len(t.items)) + 1
	t.items = append(t.items, *item)
	return nil
}

func (r *memoryOrders) WithinTx(ctx context.Context, fn func(ctx context.Context, tx order.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &memoryOrdersTx{repo: r}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	for _, o := range tx.pending {
		for _, item := range tx.items {
			if item.OrderID == o.ID {
				o.Items = append(o.Items, item)
			}
		}
		r.orders[o.ID] = o
		r.lastID = o.ID
	}
	r.lastItem += int64(len(tx.items))
	return nil
}

func (r *memoryOrders) FindByID(_ context.Context, id int64) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return &o, nil
}

func (r *memoryOrders) ListByUser(_ context.Context, userID int64) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Order, 0)
	for _, o := range r.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memoryOrders) ListAll(_ context.Context) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memoryOrders) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

type memoryProfiles struct {
	mu    sync.Mutex
	users map[int64]*models.User
}

func (p *memoryProfiles) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (p *memoryProfiles) UpdateProfile(_ context.Context, id int64, address models.Address) (*models.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	user.FirstName = address.FirstName
	user.LastName = address.LastName
	user.Email = address.Email
	user.Street = address.Street
	user.HouseNumber = address.HouseNumber
	user.PostalCode = address.PostalCode
	user.City = address.City
	user.UpdatedAt = time.Now().UTC()
	copied := *user
	return &copied, nil
}
