package models

import "strings"

// Address is a complete shipping address. It is copied onto orders field by
// field so later profile edits never change a placed order.
type Address struct {
	FirstName   string `bson:"firstName" json:"firstName" validate:"required,max=100"`
	LastName    string `bson:"lastName" json:"lastName" validate:"required,max=100"`
	Email       string `bson:"email" json:"email" validate:"required,email,max=120"`
	Street      string `bson:"street" json:"street" validate:"required,max=120"`
	HouseNumber string `bson:"houseNumber" json:"houseNumber" validate:"required,max=20"`
	PostalCode  string `bson:"postalCode" json:"postalCode" validate:"required,postalcode"`
	City        string `bson:"city" json:"city" validate:"required,max=80"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (a Address) Trimmed() Address {
	return Address{
		FirstName:   strings.TrimSpace(a.FirstName),
		LastName:    strings.TrimSpace(a.LastName),
		Email:       strings.TrimSpace(a.Email),
		Street:      strings.TrimSpace(a.Street),
		HouseNumber: strings.TrimSpace(a.HouseNumber),
		PostalCode:  strings.TrimSpace(a.PostalCode),
		City:        strings.TrimSpace(a.City),
	}
}

// MissingFields lists the json names of blank fields.
func (a Address) MissingFields() []string {
	fields := []struct {
		name  string
		value string
	}{
		{"firstName", a.FirstName},
		{"lastName", a.LastName},
		{"email", a.Email},
		{"street", a.Street},
		{"houseNumber", a.HouseNumber},
		{"postalCode", a.PostalCode},
		{"city", a.City},
	}

	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
