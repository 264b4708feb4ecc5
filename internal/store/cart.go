package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

type CartStore struct {
	db  *mongo.Database
	now func() time.Time
}

func NewCartStore(db *mongo.Database) *CartStore {
	return &CartStore{db: db, now: time.Now}
}

func (s *CartStore) items() *mongo.Collection {
	return s.db.Collection(cartItemsCollection)
}

// ListCart returns the user's cart lines joined with their products.
func (s *CartStore) ListCart(ctx context.Context, userID primitive.ObjectID) ([]models.CartLine, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: productsCollection},
			{Key: "localField", Value: "product_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "product"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$product"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}

	cursor, err := s.items().Aggregate(ctx, pipeline)
	if err != nil {
		log.Println("[CART] [ERROR] list cart failed:", err)
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer cursor.Close(ctx)

	lines := make([]models.CartLine, 0)
	if err := cursor.All(ctx, &lines); err != nil {
		log.Println("[CART] [ERROR] decode cart failed:", err)
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return lines, nil
}

// FindItem returns the cart row for the (user, product) pair, or nil when the
// user has not added the product yet.
func (s *CartStore) FindItem(ctx context.Context, userID, productID primitive.ObjectID) (*models.CartItem, error) {
	var item models.CartItem
	err := s.items().FindOne(ctx, bson.M{
		"user_id":    userID,
		"product_id": productID,
	}).Decode(&item)

	found, err := lookupResult(err)
	if err != nil {
		log.Println("[CART] [ERROR] existing item lookup failed:", err)
		return nil, fmt.Errorf("find cart item: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &item, nil
}

// AddItem accumulates quantity on an existing row or inserts a new one.
func (s *CartStore) AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	existing, err := s.FindItem(ctx, userID, productID)
	if err != nil {
		return err
	}

	if existing != nil {
		_, err := s.items().UpdateByID(ctx, existing.ID, bson.M{
			"$set": bson.M{"quantity": existing.Quantity + quantity},
		})
		if err != nil {
			log.Println("[CART] [ERROR] update cart item failed:", err)
			return fmt.Errorf("update cart item: %w", err)
		}
		return nil
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: s.now(),
	}
	if _, err := s.items().InsertOne(ctx, item); err != nil {
		log.Println("[CART] [ERROR] insert cart item failed:", err)
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

// UpdateQuantity overwrites the stored quantity. A quantity of zero or less
// removes the row.
func (s *CartStore) UpdateQuantity(ctx context.Context, userID, cartItemID primitive.ObjectID, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, cartItemID)
	}

	_, err := s.items().UpdateOne(ctx,
		bson.M{"_id": cartItemID, "user_id": userID},
		bson.M{"$set": bson.M{"quantity": quantity}},
	)
	if err != nil {
		log.Println("[CART] [ERROR] set quantity failed:", err)
		return fmt.Errorf("update cart quantity: %w", err)
	}
	return nil
}

// RemoveItem deletes one row. Deleting a row that does not exist succeeds.
func (s *CartStore) RemoveItem(ctx context.Context, userID, cartItemID primitive.ObjectID) error {
	_, err := s.items().DeleteOne(ctx, bson.M{"_id": cartItemID, "user_id": userID})
	if err != nil {
		log.Println("[CART] [ERROR] remove cart item failed:", err)
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

func (s *CartStore) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.items().DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		log.Println("[CART] [ERROR] clear cart failed:", err)
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
