package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"perfectapi/internal/domain"
	"perfectapi/internal/service"
)

func newTestProductService(t *testing.T) *service.ProductService {
	t.Helper()
	st, audit := newTestDeps(t)
	return service.NewProductService(st, audit)
}

func seedProduct(t *testing.T, svc *service.ProductService, sku, name, price string, category domain.Category) domain.Product {
	t.Helper()
	p, err := svc.Create(context.Background(), domain.Product{
		SKU:      sku,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: category,
	}, "tester")
	if err != nil {
		t.Fatalf("Create %s: %v", sku, err)
	}
	return p
}

func TestProductService_Create_AssignsSequentialIDs(t *testing.T) {
	svc := newTestProductService(t)
	first := seedProduct(t, svc, "SKU-AAAAA1", "First", "10.00", domain.CategoryBook)
	second := seedProduct(t, svc, "SKU-AAAAA2", "Second", "20.00", domain.CategoryDevice)

	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first.ID, second.ID)
	}
}

func TestProductService_Create_SKUConflictIsCaseInsensitive(t *testing.T) {
	svc := newTestProductService(t)
	seedProduct(t, svc, "SKU-ABC123", "First", "10.00", domain.CategoryBook)

	_, err := svc.Create(context.Background(), domain.Product{
		SKU:      "sku-abc123",
		Name:     "Second",
		Price:    decimal.RequireFromString("5.00"),
		Category: domain.CategoryBook,
	}, "tester")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestProductService_List_Filters(t *testing.T) {
	svc := newTestProductService(t)
	seedProduct(t, svc, "SKU-BOOK01", "API Design Book", "39.90", domain.CategoryBook)
	seedProduct(t, svc, "SKU-DEV999", "Mechanical Keyboard", "129.99", domain.CategoryDevice)
	seedProduct(t, svc, "SKU-SHIRT1", "Plain Shirt", "19.99", domain.CategoryClothing)

	book := domain.CategoryBook
	byCategory, err := svc.List(service.ProductFilter{Category: &book})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].SKU != "SKU-BOOK01" {
		t.Fatalf("unexpected category filter result: %+v", byCategory)
	}

	// Name search is a case-insensitive substring match.
	byQuery, err := svc.List(service.ProductFilter{Query: "keyboard"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(byQuery) != 1 || byQuery[0].SKU != "SKU-DEV999" {
		t.Fatalf("unexpected query filter result: %+v", byQuery)
	}

	minP := decimal.RequireFromString("20.00")
	maxP := decimal.RequireFromString("50.00")
	byPrice, err := svc.List(service.ProductFilter{MinPrice: &minP, MaxPrice: &maxP})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(byPrice) != 1 || byPrice[0].SKU != "SKU-BOOK01" {
		t.Fatalf("unexpected price filter result: %+v", byPrice)
	}
}

func TestProductService_List_RejectsInvertedPriceRange(t *testing.T) {
	svc := newTestProductService(t)
	minP := decimal.RequireFromString("50.00")
	maxP := decimal.RequireFromString("20.00")

	_, err := svc.List(service.ProductFilter{MinPrice: &minP, MaxPrice: &maxP})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProductService_List_OrderedByID(t *testing.T) {
	svc := newTestProductService(t)
	seedProduct(t, svc, "SKU-CCCCC3", "Charlie", "1.00", domain.CategoryBook)
	seedProduct(t, svc, "SKU-AAAAA1", "Alpha", "2.00", domain.CategoryBook)

	products, err := svc.List(service.ProductFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if products[0].ID != 1 || products[1].ID != 2 {
		t.Fatalf("expected ascending id order, got %d then %d", products[0].ID, products[1].ID)
	}
}

func TestProductService_Replace(t *testing.T) {
	svc := newTestProductService(t)
	ctx := context.Background()
	created := seedProduct(t, svc, "SKU-OLD001", "Old Name", "10.00", domain.CategoryBook)

	replaced, err := svc.Replace(ctx, created.ID, domain.Product{
		SKU:      "SKU-NEW001",
		Name:     "New Name",
		Price:    decimal.RequireFromString("12.50"),
		Category: domain.CategoryDevice,
	}, "tester")
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if replaced.ID != created.ID {
		t.Fatalf("expected id %d to survive replace, got %d", created.ID, replaced.ID)
	}
	if replaced.SKU != "SKU-NEW001" || replaced.Category != domain.CategoryDevice {
		t.Fatalf("unexpected replaced product: %+v", replaced)
	}

	// Replacing while keeping the same SKU must not self-conflict.
	if _, err := svc.Replace(ctx, created.ID, replaced, "tester"); err != nil {
		t.Fatalf("Replace with own SKU: %v", err)
	}
}

func TestProductService_Replace_MissingProduct(t *testing.T) {
	svc := newTestProductService(t)
	_, err := svc.Replace(context.Background(), 99, domain.Product{
		SKU:      "SKU-MISSIN",
		Name:     "Ghost",
		Price:    decimal.RequireFromString("1.00"),
		Category: domain.CategoryBook,
	}, "tester")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProductService_Delete(t *testing.T) {
	svc := newTestProductService(t)
	created := seedProduct(t, svc, "SKU-DEL001", "Doomed", "9.99", domain.CategoryBook)

	if err := svc.Delete(context.Background(), created.ID, "tester"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
