package service

import (
	"context"

	"github.com/pkg/errors"
)

// ErrPostalCodeNotFound is returned when the lookup service does not know the postal code.
var ErrPostalCodeNotFound = errors.New("postal code not found")

// PostalAddress is what the lookup service knows about a postal code.
type PostalAddress struct {
	Street   string
	District string
	City     string
	State    string
}

// AddressLookup resolves a postal code into street, district, city and state.
type AddressLookup interface {
	// Lookup returns ErrPostalCodeNotFound for unknown codes and a wrapped error on transport failures.
	Lookup(ctx context.Context, postalCode string) (*PostalAddress, error)
}
