package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is a postal/contact record, kept on a profile or copied into an order.
type Address struct {
	ID           string `bson:"id,omitempty" json:"id,omitempty"`
	FullName     string `bson:"full_name" json:"fullName"`
	Phone        string `bson:"phone" json:"phone"`
	AddressLine1 string `bson:"address_line_1" json:"addressLine1"`
	AddressLine2 string `bson:"address_line_2,omitempty" json:"addressLine2,omitempty"`
	City         string `bson:"city" json:"city"`
	State        string `bson:"state" json:"state"`
	PostalCode   string `bson:"postal_code" json:"postalCode"`
	IsDefault    bool   `bson:"is_default" json:"isDefault"`
}

// User holds the credentials managed by the identity provider.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	FullName     string             `bson:"full_name" json:"fullName"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Profile is keyed by the identity of the user it describes.
type Profile struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Email     string             `bson:"email" json:"email"`
	FullName  string             `bson:"full_name,omitempty" json:"fullName,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Addresses []Address          `bson:"addresses" json:"addresses"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
