// Package store holds the MongoDB-backed stores for profiles, carts, orders
// and the read-only catalog.
package store

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	profilesCollection   = "profiles"
	productsCollection   = "products"
	categoriesCollection = "categories"
	cartItemsCollection  = "cart_items"
	ordersCollection     = "orders"
	orderItemsCollection = "order_items"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrEmptyCart       = errors.New("cart is empty")
)

// IsDuplicateKey reports whether err comes from a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// lookupResult turns the driver's absence signal into a plain bool so callers
// branch on found/not found instead of comparing error values.
func lookupResult(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}
