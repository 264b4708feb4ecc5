package store

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

// ProductFilter narrows the product listing. Page and Limit only apply when
// both are set.
type ProductFilter struct {
	CategoryID *primitive.ObjectID
	Search     string
	Page       int64
	Limit      int64
}

type CatalogStore struct {
	db *mongo.Database
}

func NewCatalogStore(db *mongo.Database) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := bson.M{}
	if filter.CategoryID != nil {
		query["category_id"] = *filter.CategoryID
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Page > 0 && filter.Limit > 0 {
		findOptions.SetSkip((filter.Page - 1) * filter.Limit).SetLimit(filter.Limit)
	}

	cursor, err := s.db.Collection(productsCollection).Find(ctx, query, findOptions)
	if err != nil {
		log.Println("[CATALOG] [ERROR] list products failed:", err)
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		log.Println("[CATALOG] [ERROR] decode products failed:", err)
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (s *CatalogStore) GetProduct(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	found, err := lookupResult(s.db.Collection(productsCollection).FindOne(ctx, bson.M{"_id": productID}).Decode(&product))
	if err != nil {
		log.Println("[CATALOG] [ERROR] product lookup failed:", err)
		return nil, fmt.Errorf("get product: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return &product, nil
}

func (s *CatalogStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	cursor, err := s.db.Collection(categoriesCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		log.Println("[CATALOG] [ERROR] list categories failed:", err)
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := make([]models.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return categories, nil
}
