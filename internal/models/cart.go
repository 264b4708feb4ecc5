package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem binds a user to a product with a quantity of at least one.
type CartItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	ProductID primitive.ObjectID `bson:"product_id" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// CartLine is a cart item joined with its product. Product is nil when the
// product document no longer exists.
type CartLine struct {
	CartItem `bson:",inline"`
	Product  *Product `bson:"product,omitempty" json:"product,omitempty"`
}
