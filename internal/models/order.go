package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeliveryMethod string

const (
	DeliveryCourier DeliveryMethod = "courier"
	DeliveryPickup  DeliveryMethod = "pickup"
)

func (d DeliveryMethod) Valid() bool {
	return d == DeliveryCourier || d == DeliveryPickup
}

type PaymentMethod string

const (
	PaymentBlik         PaymentMethod = "blik"
	PaymentCashOnPickup PaymentMethod = "cash_on_pickup"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentBlik || p == PaymentCashOnPickup
}

type OrderStatus string

const (
	StatusPaidProcessing  OrderStatus = "paid — processing"
	StatusProcessing      OrderStatus = "processing"
	StatusAwaitingPayment OrderStatus = "awaiting payment"
)

// OrderItem is one purchased line. Price is the unit price frozen at order
// time and is never recomputed from the catalog.
type OrderItem struct {
	ID        int64           `bson:"_id" json:"id"`
	OrderID   int64           `bson:"orderId" json:"orderId"`
	ProductID int64           `bson:"productId" json:"productId"`
	Quantity  int             `bson:"quantity" json:"quantity"`
	Price     decimal.Decimal `bson:"price" json:"price"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order defines the persisted order header. The shipping address is stored
// flattened; items live in their own collection or table.
type Order struct {
	ID             int64           `bson:"_id" json:"id"`
	UserID         *int64          `bson:"userId" json:"userId"`
	Total          decimal.Decimal `bson:"total" json:"total"`
	Status         OrderStatus     `bson:"status" json:"status"`
	CreatedAt      time.Time       `bson:"createdAt" json:"createdAt"`
	DeliveryMethod DeliveryMethod  `bson:"deliveryMethod" json:"deliveryMethod"`
	PaymentMethod  PaymentMethod   `bson:"paymentMethod" json:"paymentMethod"`
	Address        `bson:",inline"`
	Items          []OrderItem `bson:"-" json:"items"`
}
