package models

import "time"

const RoleAdmin = "admin"

// User represents a registered customer profile. Credentials are managed by
// the login service and are not part of this document.
type User struct {
	ID          int64     `bson:"_id" json:"id"`
	Username    string    `bson:"username" json:"username"`
	Role        string    `bson:"role" json:"role"`
	FirstName   string    `bson:"firstName" json:"firstName"`
	LastName    string    `bson:"lastName" json:"lastName"`
	Email       string    `bson:"email" json:"email"`
	Street      string    `bson:"street" json:"street"`
	HouseNumber string    `bson:"houseNumber" json:"houseNumber"`
	PostalCode  string    `bson:"postalCode" json:"postalCode"`
	City        string    `bson:"city" json:"city"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ShippingAddress copies the stored profile fields verbatim.
func (u User) ShippingAddress() Address {
	return Address{
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Street:      u.Street,
		HouseNumber: u.HouseNumber,
		PostalCode:  u.PostalCode,
		City:        u.City,
	}
}
