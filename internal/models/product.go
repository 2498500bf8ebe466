package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a read-only catalog entry. Prices are stored as Decimal128.
type Product struct {
	ID          int64           `bson:"_id" json:"id"`
	Name        string          `bson:"name" json:"name"`
	Price       decimal.Decimal `bson:"price" json:"price"`
	SaleEnabled bool            `bson:"saleEnabled" json:"saleEnabled"`
	SalePrice   decimal.Decimal `bson:"salePrice" json:"salePrice"`
	IsOnSale    bool            `bson:"-" json:"isOnSale"`
	Category    StringList      `bson:"category" json:"category"`
	Description string          `bson:"description,omitempty" json:"description,omitempty"`
	Properties  string          `bson:"properties,omitempty" json:"properties,omitempty"`
	Preparation string          `bson:"preparation,omitempty" json:"preparation,omitempty"`
	ImageURL    string          `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	IsActive    bool            `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time       `bson:"createdAt" json:"createdAt"`
}

// OnSale reports whether the sale price applies: the sale must be enabled and
// priced strictly between zero and the list price.
func (p Product) OnSale() bool {
	return p.SaleEnabled && p.SalePrice.IsPositive() && p.SalePrice.LessThan(p.Price)
}

// CurrentPrice is the unit price charged at checkout time.
func (p Product) CurrentPrice() decimal.Decimal {
	if p.OnSale() {
		return p.SalePrice
	}
	return p.Price
}
