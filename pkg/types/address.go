package types

import "strings"

// Address is a shipping/billing address stored as JSONB.
type Address struct {
	FullName    string `json:"full_name"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phone_number"`
	IsDefault   bool   `json:"is_default,omitempty"`
}

// Normalize fills the default country and trims whitespace.
func (a Address) Normalize() Address {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.PhoneNumber = strings.TrimSpace(a.PhoneNumber)
	a.Country = strings.TrimSpace(a.Country)
	if a.Country == "" {
		a.Country = "India"
	}
	return a
}

// AddressList is the JSONB-persisted set of saved addresses on a user.
type AddressList []Address
