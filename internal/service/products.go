package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"perfectapi/internal/domain"
	"perfectapi/internal/store"
)

// ProductFilter narrows the product listing. MinPrice must not exceed
// MaxPrice when both are present.
type ProductFilter struct {
	Category *domain.Category
	Query    string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// ProductService implements the product collection operations.
type ProductService struct {
	store *store.Store
	audit domain.AuditRepository
}

// NewProductService creates a new ProductService.
func NewProductService(st *store.Store, audit domain.AuditRepository) *ProductService {
	return &ProductService{store: st, audit: audit}
}

// List returns the filtered products ordered by ascending id. Filtering and
// sorting happen on a snapshot, outside the collection lock.
func (s *ProductService) List(filter ProductFilter) ([]domain.Product, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, fmt.Errorf("%w: min_price must be <= max_price", domain.ErrInvalidInput)
	}

	products := s.store.Products.Snapshot()
	kept := products[:0]
	for _, p := range products {
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Query)) {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		kept = append(kept, p)
	}

	slices.SortStableFunc(kept, func(a, b domain.Product) int {
		return int(a.ID - b.ID)
	})
	return kept, nil
}

// Get returns a single product by id.
func (s *ProductService) Get(id int64) (domain.Product, error) {
	product, ok := s.store.Products.Get(id)
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	return product, nil
}

// Create assigns the next sequential id and stores the product after checking
// that no other product holds the same SKU, compared case-insensitively.
func (s *ProductService) Create(ctx context.Context, product domain.Product, actor string) (domain.Product, error) {
	product.ID = s.store.NextProductID()
	if err := s.putUnique(product); err != nil {
		return domain.Product{}, fmt.Errorf("%w: SKU already in use", err)
	}
	s.record(ctx, "product.created", product.ID, actor, "Product "+product.SKU+" created")
	return product, nil
}

// Replace overwrites a product entirely, keeping its id. The SKU uniqueness
// check excludes the product itself.
func (s *ProductService) Replace(ctx context.Context, id int64, product domain.Product, actor string) (domain.Product, error) {
	if _, err := s.Get(id); err != nil {
		return domain.Product{}, err
	}
	product.ID = id
	if err := s.putUnique(product); err != nil {
		return domain.Product{}, fmt.Errorf("%w: SKU already in use", err)
	}
	s.record(ctx, "product.replaced", id, actor, "Product "+product.SKU+" replaced")
	return product, nil
}

// Delete removes a product. Orders referencing it will report an integrity
// violation on their next read; deletion is not blocked.
func (s *ProductService) Delete(ctx context.Context, id int64, actor string) error {
	if !s.store.Products.Delete(id) {
		return fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	s.record(ctx, "product.deleted", id, actor, "Product deleted")
	return nil
}

func (s *ProductService) putUnique(product domain.Product) error {
	return s.store.Products.PutChecked(product.ID, product, func(_ int64, other domain.Product) bool {
		return strings.EqualFold(other.SKU, product.SKU)
	})
}

func (s *ProductService) record(ctx context.Context, action string, id int64, actor, summary string) {
	err := s.audit.Record(ctx, &domain.AuditEntry{
		Action:      action,
		EntityKind:  "product",
		EntityID:    strconv.FormatInt(id, 10),
		Actor:       actor,
		Summary:     summary,
		PerformedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("record audit entry", "action", action, "error", err)
	}
}
