package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	Unit          string             `bson:"unit" json:"unit"`
	CategoryID    primitive.ObjectID `bson:"category_id" json:"categoryId"`
	ImageURL      string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	InStock       bool               `bson:"in_stock" json:"inStock"`
	StockQuantity *int               `bson:"stock_quantity,omitempty" json:"stockQuantity,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
}

// ProductSummary is the reduced product projection nested under order items.
type ProductSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Name     string             `bson:"name" json:"name"`
	ImageURL string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Unit     string             `bson:"unit" json:"unit"`
}
