package order

import (
	"github.com/shopspring/decimal"

	"storefront/internal/cart"
	"storefront/internal/models"
)

var CourierSurcharge = decimal.NewFromInt(14)

// PriceScale is the number of decimal places money is stored with.
const PriceScale = 2

// Surcharge is the delivery fee added on top of the line subtotals.
func Surcharge(delivery models.DeliveryMethod) decimal.Decimal {
	if delivery == models.DeliveryCourier {
		return CourierSurcharge
	}
	return decimal.Zero
}

// StatusFor is the initial order status for a payment method.
func StatusFor(payment models.PaymentMethod) models.OrderStatus {
	switch payment {
	case models.PaymentBlik:
		return models.StatusPaidProcessing
	case models.PaymentCashOnPickup:
		return models.StatusProcessing
	default:
		return models.StatusAwaitingPayment
	}
}

// PriceLines turns cart lines into order items at current catalog prices,
// skipping products the catalog no longer knows. Items come back in product
// id order together with their summed subtotal.
//
// Unit prices are rounded to PriceScale first so the stored item prices
// always add up to the stored total.
func PriceLines(snapshot cart.Snapshot, products map[int64]models.Product) ([]models.OrderItem, decimal.Decimal) {
	items := make([]models.OrderItem, 0, len(snapshot))
	subtotal := decimal.Zero

	for _, productID := range snapshot.ProductIDs() {
		product, ok := products[productID]
		if !ok {
			continue
		}
		item := models.OrderItem{
			ProductID: productID,
			Quantity:  snapshot[productID],
			Price:     product.CurrentPrice().Round(PriceScale),
		}
		items = append(items, item)
		subtotal = subtotal.Add(item.Subtotal())
	}
	return items, subtotal
}
