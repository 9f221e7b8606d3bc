package service_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"perfectapi/internal/domain"
	"perfectapi/internal/service"
)

func TestQuantize_RoundsHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2.005", "2.01"},
		{"2.004", "2.00"},
		{"2.015", "2.02"},
		{"-2.005", "-2.01"},
		{"10", "10.00"},
		{"39.9", "39.90"},
	}
	for _, tc := range cases {
		got := service.Quantize(decimal.RequireFromString(tc.in)).StringFixed(2)
		if got != tc.want {
			t.Errorf("Quantize(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestReprice_SumsQuantizedLines(t *testing.T) {
	prices := map[int64]decimal.Decimal{
		1: decimal.RequireFromString("10.00"),
		2: decimal.RequireFromString("5.01"),
	}
	order := domain.Order{
		ID: uuid.New(),
		Items: []domain.OrderItem{
			{ProductID: 1, Qty: 2},
			{ProductID: 2, Qty: 1},
		},
	}

	items, total, err := service.Reprice(order, func(id int64) (decimal.Decimal, bool) {
		p, ok := prices[id]
		return p, ok
	})
	if err != nil {
		t.Fatalf("Reprice: %v", err)
	}
	if total.StringFixed(2) != "25.01" {
		t.Fatalf("expected total 25.01, got %s", total.StringFixed(2))
	}
	if items[0].LineTotal.StringFixed(2) != "20.00" {
		t.Fatalf("expected first line 20.00, got %s", items[0].LineTotal.StringFixed(2))
	}
	if items[1].LineTotal.StringFixed(2) != "5.01" {
		t.Fatalf("expected second line 5.01, got %s", items[1].LineTotal.StringFixed(2))
	}
}

func TestReprice_QuantizesEachLineBeforeSumming(t *testing.T) {
	order := domain.Order{
		ID:    uuid.New(),
		Items: []domain.OrderItem{{ProductID: 1, Qty: 3}},
	}
	items, total, err := service.Reprice(order, func(int64) (decimal.Decimal, bool) {
		return decimal.RequireFromString("3.335"), true
	})
	if err != nil {
		t.Fatalf("Reprice: %v", err)
	}
	// The unit price is quantized to 3.34 first, so the line is 10.02, not
	// round(3.335*3) = 10.01.
	if items[0].LineTotal.StringFixed(2) != "10.02" {
		t.Fatalf("expected line 10.02, got %s", items[0].LineTotal.StringFixed(2))
	}
	if total.StringFixed(2) != "10.02" {
		t.Fatalf("expected total 10.02, got %s", total.StringFixed(2))
	}
}

func TestReprice_MissingProductIsIntegrityError(t *testing.T) {
	order := domain.Order{
		ID:    uuid.New(),
		Items: []domain.OrderItem{{ProductID: 42, Qty: 1}},
	}
	_, _, err := service.Reprice(order, func(int64) (decimal.Decimal, bool) {
		return decimal.Zero, false
	})
	if !errors.Is(err, domain.ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity, got %v", err)
	}
}
