package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"perfectapi/internal/domain"
	"perfectapi/internal/store"
)

// OrderFilter narrows the order listing.
type OrderFilter struct {
	UserID *uuid.UUID
	Since  *time.Time
	Status *domain.OrderStatus
}

// OrderDraft is the input for creating an order. ExpectedTotal, when present,
// is the client's claim of what the order should cost; it is compared for
// exact equality against the recomputed total after quantization.
type OrderDraft struct {
	UserID        uuid.UUID
	Items         []domain.OrderItem
	PaymentMethod domain.PaymentMethod
	Notes         string
	ExpectedTotal *decimal.Decimal
}

// OrderService implements the order collection operations.
type OrderService struct {
	store *store.Store
	audit domain.AuditRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(st *store.Store, audit domain.AuditRepository) *OrderService {
	return &OrderService{store: st, audit: audit}
}

// List returns the filtered orders, most recently created first. Ties are
// broken by ascending id.
func (s *OrderService) List(filter OrderFilter) []domain.Order {
	orders := s.store.Orders.Snapshot()
	kept := orders[:0]
	for _, o := range orders {
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		if filter.Since != nil && o.CreatedAt.Before(*filter.Since) {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		kept = append(kept, o)
	}

	slices.SortStableFunc(kept, func(a, b domain.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return kept
}

// Get returns a single order by id.
func (s *OrderService) Get(id uuid.UUID) (domain.Order, error) {
	order, ok := s.store.Orders.Get(id)
	if !ok {
		return domain.Order{}, fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
	}
	return order, nil
}

// Create validates the draft against the current state of the user and
// product collections and stores the order. The items are frozen at creation
// time; prices are not. A product reference that fails to resolve here is a
// client error, unlike the read-time resolution in Price.
func (s *OrderService) Create(ctx context.Context, draft OrderDraft, actor string) (domain.Order, error) {
	if _, ok := s.store.Users.Get(draft.UserID); !ok {
		return domain.Order{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, draft.UserID)
	}

	seen := make(map[int64]bool, len(draft.Items))
	total := decimal.Zero
	for _, item := range draft.Items {
		if seen[item.ProductID] {
			return domain.Order{}, fmt.Errorf("%w: items: duplicate products are not allowed in a single order", domain.ErrInvalidInput)
		}
		seen[item.ProductID] = true

		product, ok := s.store.Products.Get(item.ProductID)
		if !ok {
			return domain.Order{}, fmt.Errorf("%w: product %d", domain.ErrNotFound, item.ProductID)
		}
		line := Quantize(Quantize(product.Price).Mul(decimal.NewFromInt(int64(item.Qty))))
		total = total.Add(line)
	}
	total = Quantize(total)

	if draft.ExpectedTotal != nil && !Quantize(*draft.ExpectedTotal).Equal(total) {
		return domain.Order{}, fmt.Errorf("%w: total does not match item prices", domain.ErrInvalidInput)
	}

	order := domain.Order{
		ID:            uuid.New(),
		UserID:        draft.UserID,
		Status:        domain.OrderStatusNew,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
		PaymentMethod: draft.PaymentMethod,
		Notes:         draft.Notes,
		Items:         draft.Items,
	}
	s.store.Orders.Put(order.ID, order)
	s.record(ctx, "order.created", order.ID, actor,
		fmt.Sprintf("Order created with %d items", len(order.Items)))
	return order, nil
}

// UpdateStatus overwrites the order status. Any of the four statuses may be
// written regardless of the current one; the fixture deliberately enforces no
// transition graph.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, actor string) (domain.Order, error) {
	order, err := s.Get(id)
	if err != nil {
		return domain.Order{}, err
	}
	order.Status = status
	s.store.Orders.Put(order.ID, order)
	s.record(ctx, "order.status_changed", id, actor, "Order status set to "+string(status))
	return order, nil
}

// Delete removes an order.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	if !s.store.Orders.Delete(id) {
		return fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
	}
	s.record(ctx, "order.deleted", id, actor, "Order deleted")
	return nil
}

// Price recomputes the order's line totals and grand total against current
// product prices, and verifies that the owning user still resolves. Failures
// here indicate stale store state, not a bad request.
func (s *OrderService) Price(order domain.Order) ([]PricedItem, decimal.Decimal, error) {
	if _, ok := s.store.Users.Get(order.UserID); !ok {
		return nil, decimal.Zero, fmt.Errorf("%w: order %s references missing user %s",
			domain.ErrIntegrity, order.ID, order.UserID)
	}
	return Reprice(order, func(productID int64) (decimal.Decimal, bool) {
		product, ok := s.store.Products.Get(productID)
		if !ok {
			return decimal.Zero, false
		}
		return product.Price, true
	})
}

func (s *OrderService) record(ctx context.Context, action string, id uuid.UUID, actor, summary string) {
	err := s.audit.Record(ctx, &domain.AuditEntry{
		Action:      action,
		EntityKind:  "order",
		EntityID:    id.String(),
		Actor:       actor,
		Summary:     summary,
		PerformedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("record audit entry", "action", action, "error", err)
	}
}
