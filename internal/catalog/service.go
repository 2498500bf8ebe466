package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"storefront/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

// Filter narrows a product listing. Page and Limit apply only when both are
// positive.
type Filter struct {
	Category string
	Search   string
	Page     int64
	Limit    int64
}

// Source reads active products from the product store.
type Source interface {
	FindByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, filter Filter) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// LookupTimeout bounds a shared store round trip.
const LookupTimeout = 5 * time.Second

// Service is the read-only catalog used by the cart view and the checkout
// pipeline. Identical concurrent lookups share one store round trip.
type Service struct {
	source Source
	sfg    singleflight.Group
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

// shared runs fn once per key for all concurrent callers. The lookup keeps
// the first caller's values but not its cancellation, so one caller going
// away does not fail the others. A cancelled caller stops waiting on its own.
func (s *Service) shared(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	ch := s.sfg.DoChan(key, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LookupTimeout)
		defer cancel()
		return fn(lookupCtx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// FindProducts resolves ids to products. Ids the store does not know are
// simply absent from the result.
func (s *Service) FindProducts(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	if len(ids) == 0 {
		return map[int64]models.Product{}, nil
	}

	v, err := s.shared(ctx, batchKey(ids), func(ctx context.Context) (interface{}, error) {
		return s.source.FindByIDs(ctx, ids)
	})
	if err != nil {
		return nil, err
	}

	products := v.([]models.Product)
	byID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func (s *Service) Product(ctx context.Context, id int64) (*models.Product, error) {
	v, err := s.shared(ctx, "product:"+strconv.FormatInt(id, 10), func(ctx context.Context) (interface{}, error) {
		return s.source.FindByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	product := *v.(*models.Product)
	return &product, nil
}

func (s *Service) List(ctx context.Context, filter Filter) ([]models.Product, error) {
	return s.source.List(ctx, filter)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	v, err := s.shared(ctx, "categories", func(ctx context.Context) (interface{}, error) {
		return s.source.Categories(ctx)
	})
	if err != nil {
		return nil, err
	}
	return append([]string(nil), v.([]string)...), nil
}

func batchKey(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "products:" + strings.Join(parts, ",")
}
