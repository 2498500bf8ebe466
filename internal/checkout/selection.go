package checkout

import "storefront/internal/models"

// Selection is the staged delivery method, payment method and shipping
// address between the delivery step and order placement.
type Selection struct {
	DeliveryMethod models.DeliveryMethod `json:"deliveryMethod,omitempty"`
	PaymentMethod  models.PaymentMethod  `json:"paymentMethod,omitempty"`
	Address        *models.Address       `json:"address,omitempty"`
}

// Complete reports whether all three parts are staged.
func (s Selection) Complete() bool {
	return s.DeliveryMethod != "" && s.PaymentMethod != "" && s.Address != nil
}

func (s Selection) Empty() bool {
	return s.DeliveryMethod == "" && s.PaymentMethod == "" && s.Address == nil
}

// AddressSource says where the shipping address comes from. It is either
// Registered or Guest.
type AddressSource interface {
	addressSource()
}

// Registered copies the stored profile of the authenticated user.
type Registered struct {
	UserID int64
}

// Guest carries an address typed in by a guest customer.
type Guest struct {
	Address models.Address
}

func (Registered) addressSource() {}
func (Guest) addressSource()      {}
