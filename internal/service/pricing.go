package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"perfectapi/internal/domain"
)

// Quantize fixes a decimal to exactly two fraction digits, rounding the
// halfway case away from zero.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// PricedItem is a line item with its total recomputed from the current
// product price.
type PricedItem struct {
	ProductID int64
	Qty       int
	LineTotal decimal.Decimal
}

// Reprice recomputes an order's line totals and grand total from current
// prices. Prices are not snapshotted at order time, so the reported total can
// drift after creation when a product price changes. lookup resolves a
// product id to its current price; a failed resolution means the catalog
// mutated underneath the order and yields domain.ErrIntegrity.
func Reprice(order domain.Order, lookup func(int64) (decimal.Decimal, bool)) ([]PricedItem, decimal.Decimal, error) {
	items := make([]PricedItem, 0, len(order.Items))
	total := decimal.Zero
	for _, item := range order.Items {
		price, ok := lookup(item.ProductID)
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("%w: order %s references missing product %d",
				domain.ErrIntegrity, order.ID, item.ProductID)
		}
		line := Quantize(Quantize(price).Mul(decimal.NewFromInt(int64(item.Qty))))
		total = total.Add(line)
		items = append(items, PricedItem{ProductID: item.ProductID, Qty: item.Qty, LineTotal: line})
	}
	return items, Quantize(total), nil
}
